package ledger

import (
	"bytes"
	"fmt"

	"github.com/renproject/powchain/block"
)

// A Query selects the first Block in a chain that matches it. The set of
// Queries is closed: ByIndex, ByPreviousHash, ByBlockHash, ByNonce,
// ByTimestamp, and ByTransaction.
type Query interface {
	isQuery()
}

type (
	// ByIndex matches the Block at a position in the chain.
	ByIndex int
	// ByPreviousHash matches a Block that links to the given hash.
	ByPreviousHash []byte
	// ByBlockHash matches a Block whose content hash is the given hash.
	ByBlockHash []byte
	// ByNonce matches a Block with the given nonce.
	ByNonce int32
	// ByTimestamp matches a Block with the given timestamp.
	ByTimestamp block.Timestamp
	// ByTransaction matches a Block that includes a byte-identical encoded
	// transaction.
	ByTransaction []byte
)

func (ByIndex) isQuery()        {}
func (ByPreviousHash) isQuery() {}
func (ByBlockHash) isQuery()    {}
func (ByNonce) isQuery()        {}
func (ByTimestamp) isQuery()    {}
func (ByTransaction) isQuery()  {}

// A Result is returned by a search. It is either Found, EmptyChain, or the
// not-found Result that corresponds to the Query. Not finding a Block is not
// an error.
type Result interface {
	isResult()
}

// Found is returned when a Block matches the Query. The Block is frozen and
// shared with the chain.
type Found struct {
	Index int
	Block *block.Block
}

// EmptyChain is returned when there are no Blocks to search.
type EmptyChain struct{}

type (
	// IndexNotFound is returned when no Block matches a ByIndex Query.
	IndexNotFound int
	// PreviousHashNotFound is returned when no Block matches a
	// ByPreviousHash Query.
	PreviousHashNotFound []byte
	// BlockHashNotFound is returned when no Block matches a ByBlockHash Query.
	BlockHashNotFound []byte
	// NonceNotFound is returned when no Block matches a ByNonce Query.
	NonceNotFound int32
	// TimestampNotFound is returned when no Block matches a ByTimestamp Query.
	TimestampNotFound block.Timestamp
	// TransactionNotFound is returned when no Block matches a ByTransaction
	// Query.
	TransactionNotFound []byte
)

func (Found) isResult()                {}
func (EmptyChain) isResult()           {}
func (IndexNotFound) isResult()        {}
func (PreviousHashNotFound) isResult() {}
func (BlockHashNotFound) isResult()    {}
func (NonceNotFound) isResult()        {}
func (TimestampNotFound) isResult()    {}
func (TransactionNotFound) isResult()  {}

// Search the chain for the first Block that matches the Query.
func (ledger *Ledger) Search(q Query) Result {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	return SearchBlocks(ledger.chain, q)
}

// SearchBlocks scans the Blocks in order and returns the first one that
// matches the Query. An empty slice always results in EmptyChain, whatever the
// Query.
func SearchBlocks(blocks []*block.Block, q Query) Result {
	if len(blocks) == 0 {
		return EmptyChain{}
	}

	switch q := q.(type) {
	case ByIndex:
		if i := int(q); i >= 0 && i < len(blocks) {
			return Found{Index: i, Block: blocks[i]}
		}
		return IndexNotFound(q)

	case ByPreviousHash:
		if found, ok := find(blocks, func(b *block.Block) bool {
			return bytes.Equal(b.PreviousHash(), q)
		}); ok {
			return found
		}
		return PreviousHashNotFound(q)

	case ByBlockHash:
		if found, ok := find(blocks, func(b *block.Block) bool {
			hash := b.Hash()
			return bytes.Equal(hash[:], q)
		}); ok {
			return found
		}
		return BlockHashNotFound(q)

	case ByNonce:
		if found, ok := find(blocks, func(b *block.Block) bool {
			return b.Nonce() == int32(q)
		}); ok {
			return found
		}
		return NonceNotFound(q)

	case ByTimestamp:
		if found, ok := find(blocks, func(b *block.Block) bool {
			return b.Timestamp() == block.Timestamp(q)
		}); ok {
			return found
		}
		return TimestampNotFound(q)

	case ByTransaction:
		if found, ok := find(blocks, func(b *block.Block) bool {
			for _, tx := range b.Txs() {
				if bytes.Equal(tx, q) {
					return true
				}
			}
			return false
		}); ok {
			return found
		}
		return TransactionNotFound(q)

	default:
		panic(fmt.Errorf("non-exhaustive pattern: %T", q))
	}
}

func find(blocks []*block.Block, match func(*block.Block) bool) (Found, bool) {
	for i, b := range blocks {
		if match(b) {
			return Found{Index: i, Block: b}, true
		}
	}
	return Found{}, false
}
