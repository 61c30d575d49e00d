package block_test

import (
	"crypto/sha256"
	"math/rand"
	"testing/quick"
	"time"

	"github.com/renproject/powchain/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/renproject/powchain/block"
)

var _ = Describe("Block", func() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	randomBlock := func() *Block {
		block := NewWithTimestamp(r.Int31(), testutil.RandomBytesSlice(r), Timestamp(r.Uint64()))
		for i := 0; i < r.Intn(5); i++ {
			block.AppendTx(testutil.RandomEncodedTransaction(r))
		}
		return block
	}

	Context("when a block is created", func() {
		It("should be stamped with the current time", func() {
			before := Now()
			block := New(7, []byte("parent"))
			after := Now()
			Expect(block.Timestamp()).To(BeNumerically(">=", before))
			Expect(block.Timestamp()).To(BeNumerically("<=", after))
			Expect(uint64(before)).To(BeNumerically("~", uint64(time.Now().UnixNano()), uint64(time.Minute)))
			Expect(block.Nonce()).To(Equal(int32(7)))
			Expect(block.PreviousHash()).To(Equal([]byte("parent")))
			Expect(block.Txs()).To(BeEmpty())
			Expect(block.Frozen()).To(BeFalse())
		})

		It("should not alias the previous hash", func() {
			previousHash := []byte("parent")
			block := New(0, previousHash)
			previousHash[0] = 'P'
			Expect(block.PreviousHash()).To(Equal([]byte("parent")))
		})

		It("should link the genesis block to 32 zero bytes", func() {
			genesis := Genesis()
			Expect(genesis.Nonce()).To(Equal(int32(0)))
			Expect(genesis.PreviousHash()).To(Equal(make([]byte, 32)))
		})
	})

	Context("when hashing a block", func() {
		It("should hash the fields in a fixed order", func() {
			block := NewWithTimestamp(1, []byte{0xAA, 0xBB}, Timestamp(0x0102))
			block.AppendTx([]byte{0x01})
			block.AppendTx([]byte{0x02, 0x03})

			data := []byte{
				0x00, 0x00, 0x00, 0x01,
				0xAA, 0xBB,
				0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01, 0x02,
				0x01,
				0x02, 0x03,
			}
			Expect(block.Hash()).To(Equal(Hash(sha256.Sum256(data))))
		})

		It("should encode negative nonces as two's complement", func() {
			block := NewWithTimestamp(-1, nil, 0)
			data := append([]byte{0xFF, 0xFF, 0xFF, 0xFF}, make([]byte, 16)...)
			Expect(block.Hash()).To(Equal(Hash(sha256.Sum256(data))))
		})

		It("should be deterministic", func() {
			loop := func() bool {
				block := randomBlock()
				return block.Hash().Equal(block.Hash())
			}
			Expect(quick.Check(loop, nil)).To(Succeed())
		})

		It("should observe a new hash after incrementing the nonce", func() {
			loop := func() bool {
				block := randomBlock()
				before := block.Hash()
				block.IncrementNonce(1)
				return !block.Hash().Equal(before)
			}
			Expect(quick.Check(loop, nil)).To(Succeed())
		})

		It("should observe a new hash after appending a transaction", func() {
			block := randomBlock()
			before := block.Hash()
			block.AppendTx(testutil.RandomEncodedTransaction(r))
			Expect(block.Hash()).ToNot(Equal(before))
		})

		It("should return the hex encoding of the hash", func() {
			hash := Hash{0x00, 0x0F, 0xF0}
			Expect(hash.Hex()[:6]).To(Equal("000ff0"))
			Expect(hash.String()).To(HaveLen(64))
		})
	})

	Context("when comparing blocks", func() {
		It("should be equal when constructed independently with the same content", func() {
			previousHash := testutil.RandomBytesSlice(r)
			tx := testutil.RandomEncodedTransaction(r)
			timestamp := Now()

			first := NewWithTimestamp(3, previousHash, timestamp)
			first.AppendTx(tx)
			second := NewWithTimestamp(3, previousHash, timestamp)
			second.AppendTx(tx)

			Expect(first).ToNot(BeIdenticalTo(second))
			Expect(first.Equal(second)).To(BeTrue())
		})

		It("should not be equal when the timestamps differ", func() {
			first := NewWithTimestamp(0, nil, 1)
			second := NewWithTimestamp(0, nil, 2)
			Expect(first.Equal(second)).To(BeFalse())
		})

		It("should ignore whether a block is frozen", func() {
			block := randomBlock()
			clone := block.Clone()
			block.Freeze()
			Expect(block.Equal(clone)).To(BeTrue())
		})
	})

	Context("when incrementing the nonce", func() {
		It("should add the delta", func() {
			block := NewWithTimestamp(10, nil, 0)
			block.IncrementNonce(5)
			block.IncrementNonce(-3)
			Expect(block.Nonce()).To(Equal(int32(12)))
		})

		It("should wrap on overflow", func() {
			block := NewWithTimestamp(2147483647, nil, 0)
			block.IncrementNonce(1)
			Expect(block.Nonce()).To(Equal(int32(-2147483648)))
		})
	})

	Context("when a block is frozen", func() {
		It("should panic on every mutation", func() {
			block := randomBlock()
			block.Freeze()
			Expect(block.Frozen()).To(BeTrue())
			Expect(func() { block.IncrementNonce(1) }).To(Panic())
			Expect(func() { block.AppendTx([]byte{0x01}) }).To(Panic())
		})

		It("should not be changed through its accessors", func() {
			block := randomBlock()
			block.AppendTx([]byte{0x01, 0x02})
			block.Freeze()
			hash := block.Hash()

			txs := block.Txs()
			txs[0][len(txs[0])-1] ^= 0xFF
			txs[0] = nil
			if previousHash := block.PreviousHash(); len(previousHash) > 0 {
				previousHash[0] ^= 0xFF
			}

			Expect(block.Hash()).To(Equal(hash))
			Expect(block.Txs()).ToNot(Equal(txs))
		})

		It("should return an unfrozen clone", func() {
			block := randomBlock()
			block.Freeze()
			clone := block.Clone()
			Expect(clone.Frozen()).To(BeFalse())
			clone.IncrementNonce(1)
			Expect(clone.Nonce()).To(Equal(block.Nonce() + 1))
		})
	})

	Context("when cloning a block", func() {
		It("should not share transactions", func() {
			block := NewWithTimestamp(0, nil, 0)
			block.AppendTx([]byte{0x01})
			clone := block.Clone()
			clone.Txs()[0][0] = 0x02
			clone.AppendTx([]byte{0x03})
			Expect(block.Txs()).To(Equal(Txs{{0x01}}))
		})
	})
})
