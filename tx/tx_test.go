package tx_test

import (
	"errors"
	"math/rand"
	"reflect"
	"testing/quick"
	"time"

	"github.com/renproject/powchain/testutil"
	"github.com/renproject/surge/surgeutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/powchain/tx"
)

var _ = Describe("Transactions", func() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	Context("when encoding and decoding", func() {
		It("should be the same after encoding and decoding", func() {
			loop := func(sender, recipient []byte, value uint64) bool {
				transaction := New(sender, recipient, value)
				encoded, err := Encode(transaction)
				Expect(err).ToNot(HaveOccurred())
				decoded, err := Decode(encoded)
				Expect(err).ToNot(HaveOccurred())
				return decoded.Equal(transaction)
			}
			Expect(quick.Check(loop, nil)).To(Succeed())
		})

		It("should be deterministic", func() {
			transaction := testutil.RandomTransaction(r)
			first, err := Encode(transaction)
			Expect(err).ToNot(HaveOccurred())
			second, err := Encode(New(transaction.SenderAddress, transaction.RecipientAddress, transaction.Value))
			Expect(err).ToNot(HaveOccurred())
			Expect(first).To(Equal(second))
		})

		It("should preserve field order", func() {
			encoded, err := Encode(New([]byte("A"), []byte("B"), 10))
			Expect(err).ToNot(HaveOccurred())
			Expect(encoded).To(Equal([]byte{
				0, 0, 0, 1, 'A',
				0, 0, 0, 1, 'B',
				0, 0, 0, 0, 0, 0, 0, 10,
			}))
		})

		It("should distinguish sender from recipient", func() {
			forward, err := Encode(New([]byte("A"), []byte("B"), 10))
			Expect(err).ToNot(HaveOccurred())
			backward, err := Encode(New([]byte("B"), []byte("A"), 10))
			Expect(err).ToNot(HaveOccurred())
			Expect(forward).ToNot(Equal(backward))
		})
	})

	Context("when decoding malformed bytes", func() {
		It("should return a decode error for empty input", func() {
			_, err := Decode([]byte{})
			decodeErr := new(DecodeError)
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Len).To(Equal(0))
		})

		It("should return a decode error for every truncation", func() {
			encoded := testutil.RandomEncodedTransaction(r)
			for i := 0; i < len(encoded); i++ {
				transaction, err := Decode(encoded[:i])
				Expect(err).To(HaveOccurred())
				Expect(err).To(BeAssignableToTypeOf(&DecodeError{}))
				Expect(transaction.Equal(Transaction{})).To(BeTrue())
			}
		})

		It("should return a decode error for trailing bytes", func() {
			encoded := testutil.RandomEncodedTransaction(r)
			_, err := Decode(append(encoded, 0x00))
			Expect(err).To(BeAssignableToTypeOf(&DecodeError{}))
			Expect(errors.Is(err, ErrTrailingBytes)).To(BeTrue())
		})

		It("should return a decode error for lengths beyond the memory quota", func() {
			_, err := Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'A'})
			Expect(err).To(BeAssignableToTypeOf(&DecodeError{}))
		})

		It("should not panic when fuzzing", func() {
			t := reflect.TypeOf(Transaction{})
			loop := func() bool {
				Expect(func() { surgeutil.Fuzz(t) }).ToNot(Panic())
				return true
			}
			Expect(quick.Check(loop, nil)).To(Succeed())
		})

		It("should not panic when decoding random bytes", func() {
			loop := func(data []byte) bool {
				Expect(func() { _, _ = Decode(data) }).ToNot(Panic())
				return true
			}
			Expect(quick.Check(loop, nil)).To(Succeed())
		})
	})

	Context("when comparing transactions", func() {
		It("should treat nil and empty addresses as equal", func() {
			Expect(Transaction{Value: 1}.Equal(New([]byte{}, []byte{}, 1))).To(BeTrue())
		})

		It("should not be equal when the value differs", func() {
			transaction := testutil.RandomTransaction(r)
			other := New(transaction.SenderAddress, transaction.RecipientAddress, transaction.Value+1)
			Expect(transaction.Equal(other)).To(BeFalse())
		})

		It("should not alias the addresses given to New", func() {
			sender := []byte("A")
			transaction := New(sender, []byte("B"), 1)
			sender[0] = 'Z'
			Expect(transaction.SenderAddress).To(Equal([]byte("A")))
		})
	})

	Context("when printing", func() {
		It("should include the value", func() {
			Expect(New([]byte("A"), []byte("B"), 42).String()).To(ContainSubstring("value: 42"))
		})
	})
})
