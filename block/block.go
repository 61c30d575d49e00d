package block

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// HashLength is the number of bytes in a content Hash.
const HashLength = sha256.Size

// Hash defines the output of the SHA-256 hashing function over the content of
// a Block.
type Hash [HashLength]byte

// Equal compares one Hash with another.
func (hash Hash) Equal(other Hash) bool {
	return bytes.Equal(hash[:], other[:])
}

// Hex returns the lowercase hexadecimal encoding of the Hash.
func (hash Hash) Hex() string {
	return hex.EncodeToString(hash[:])
}

// String implements the `fmt.Stringer` interface for the Hash type.
func (hash Hash) String() string {
	return hash.Hex()
}

// Timestamp is the number of nanoseconds since the Unix epoch at which a Block
// was constructed.
type Timestamp uint64

// Now returns the current Timestamp.
func Now() Timestamp {
	now := time.Now()
	return Timestamp(uint64(now.Unix())*uint64(time.Second) + uint64(now.Nanosecond()))
}

// Bytes returns the Timestamp as a 128-bit big-endian unsigned integer.
func (timestamp Timestamp) Bytes() [16]byte {
	var data [16]byte
	binary.BigEndian.PutUint64(data[8:], uint64(timestamp))
	return data
}

// Txs defines a wrapper type around a list of encoded transactions.
type Txs [][]byte

// A Block is an ordered batch of encoded transactions, linked to its
// predecessor by the predecessor's content Hash. The nonce is mutated while
// the Block is being sealed; once the Block is frozen it can no longer be
// mutated at all.
type Block struct {
	nonce        int32
	previousHash []byte
	timestamp    Timestamp
	txs          Txs
	frozen       bool
}

// New returns a Block with no transactions, stamped with the current time. The
// previous hash is copied.
func New(nonce int32, previousHash []byte) *Block {
	return NewWithTimestamp(nonce, previousHash, Now())
}

// NewWithTimestamp returns a Block with no transactions and the given
// Timestamp. The previous hash is copied.
func NewWithTimestamp(nonce int32, previousHash []byte, timestamp Timestamp) *Block {
	return &Block{
		nonce:        nonce,
		previousHash: append([]byte{}, previousHash...),
		timestamp:    timestamp,
		txs:          Txs{},
	}
}

// Genesis returns a Block with a zero nonce that links to a previous hash of
// all zeros.
func Genesis() *Block {
	return New(0, make([]byte, HashLength))
}

// Hash returns the content hash of the Block: SHA-256 over the big-endian
// nonce, the previous hash, the big-endian timestamp, and every encoded
// transaction in order. It is recomputed on every call.
func (block *Block) Hash() Hash {
	var nonce [4]byte
	binary.BigEndian.PutUint32(nonce[:], uint32(block.nonce))
	timestamp := block.timestamp.Bytes()

	h := sha256.New()
	h.Write(nonce[:])
	h.Write(block.previousHash)
	h.Write(timestamp[:])
	for _, tx := range block.txs {
		h.Write(tx)
	}

	var hash Hash
	copy(hash[:], h.Sum(nil))
	return hash
}

// Equal returns true if both Blocks have the same content hash.
func (block *Block) Equal(other *Block) bool {
	return block.Hash().Equal(other.Hash())
}

// IncrementNonce adds delta to the nonce, wrapping on overflow.
func (block *Block) IncrementNonce(delta int32) {
	if block.frozen {
		panic("invariant violation: cannot increment the nonce of a frozen block")
	}
	block.nonce += delta
}

// AppendTx appends a copy of an encoded transaction to the Block.
func (block *Block) AppendTx(tx []byte) {
	if block.frozen {
		panic("invariant violation: cannot append transactions to a frozen block")
	}
	block.txs = append(block.txs, append([]byte{}, tx...))
}

// Freeze the Block. Frozen Blocks panic on every mutation.
func (block *Block) Freeze() {
	block.frozen = true
}

// Frozen returns true if the Block has been frozen.
func (block *Block) Frozen() bool {
	return block.frozen
}

// Clone returns an unfrozen deep copy of the Block.
func (block *Block) Clone() *Block {
	return &Block{
		nonce:        block.nonce,
		previousHash: block.PreviousHash(),
		timestamp:    block.timestamp,
		txs:          block.Txs(),
	}
}

// Nonce of the Block.
func (block *Block) Nonce() int32 {
	return block.nonce
}

// PreviousHash returns a copy of the previous hash that the Block links to.
func (block *Block) PreviousHash() []byte {
	return append([]byte{}, block.previousHash...)
}

// Timestamp at which the Block was constructed.
func (block *Block) Timestamp() Timestamp {
	return block.timestamp
}

// Txs returns a deep copy of the encoded transactions in the Block.
func (block *Block) Txs() Txs {
	txs := make(Txs, len(block.txs))
	for i, tx := range block.txs {
		txs[i] = append([]byte{}, tx...)
	}
	return txs
}

// String implements the `fmt.Stringer` interface for the Block type.
func (block *Block) String() string {
	return fmt.Sprintf("Block(Hash=%v,Nonce=%d,Timestamp=%x,Txs=%d)", block.Hash(), block.nonce, uint64(block.timestamp), len(block.txs))
}
