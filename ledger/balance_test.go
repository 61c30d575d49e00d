package ledger_test

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/renproject/powchain/testutil"
	"github.com/renproject/powchain/tx"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Balances", func() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := context.Background()

	Context("when transfers are mined", func() {
		It("should conserve value across every address", func() {
			ledger := newLedger(testOptions(), "M")
			for i := 0; i < 5; i++ {
				for _, transaction := range testutil.RandomTransactions(r, r.Intn(5)) {
					transaction.Value %= 1 << 32
					Expect(ledger.AddTransaction(transaction)).To(Succeed())
				}
				Expect(ledger.Mine(ctx)).To(Succeed())
			}

			balances, err := ledger.Balances()
			Expect(err).ToNot(HaveOccurred())
			total := int64(0)
			for address, balance := range balances {
				total += balance
				Expect(ledger.BalanceOf(address)).To(Equal(balance))
			}
			Expect(total).To(Equal(int64(0)))
			Expect(balances["M"]).To(Equal(int64(6)))
		})

		It("should report zero for an unknown address", func() {
			ledger := newLedger(testOptions(), "M")
			Expect(ledger.BalanceOf("Z")).To(Equal(int64(0)))
			balances, err := ledger.Balances()
			Expect(err).ToNot(HaveOccurred())
			Expect(balances).ToNot(HaveKey("Z"))
		})

		It("should allow balances to go negative", func() {
			ledger := newLedger(testOptions(), "M")
			Expect(ledger.Submit([]byte("A"), []byte("B"), 10)).To(Succeed())
			Expect(ledger.Submit([]byte("B"), []byte("C"), 4)).To(Succeed())
			Expect(ledger.Mine(ctx)).To(Succeed())

			Expect(ledger.BalanceOf("A")).To(Equal(int64(-10)))
			Expect(ledger.BalanceOf("B")).To(Equal(int64(6)))
			Expect(ledger.BalanceOf("C")).To(Equal(int64(4)))
		})

		It("should not change the balance of a self-transfer", func() {
			ledger := newLedger(testOptions(), "M")
			Expect(ledger.Submit([]byte("A"), []byte("A"), 10)).To(Succeed())
			Expect(ledger.Mine(ctx)).To(Succeed())

			Expect(ledger.BalanceOf("A")).To(Equal(int64(0)))
			balances, err := ledger.Balances()
			Expect(err).ToNot(HaveOccurred())
			Expect(balances["A"]).To(Equal(int64(0)))
		})

		It("should ignore pending transactions", func() {
			ledger := newLedger(testOptions(), "M")
			Expect(ledger.Submit([]byte("A"), []byte("B"), 10)).To(Succeed())
			Expect(ledger.BalanceOf("B")).To(Equal(int64(0)))
		})
	})

	Context("when the chain holds a malformed transaction", func() {
		It("should return a decode error", func() {
			ledger := newLedger(testOptions(), "M")
			Expect(ledger.AddEncoded([]byte{0x00, 0x00, 0x00, 0x05, 'A'})).To(Succeed())
			Expect(ledger.Mine(ctx)).To(Succeed())

			_, err := ledger.BalanceOf("M")
			decodeErr := new(tx.DecodeError)
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Len).To(Equal(5))

			_, err = ledger.Balances()
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
		})
	})
})
