package powchain

import (
	"context"

	"github.com/renproject/powchain/block"
	"github.com/renproject/powchain/ledger"
	"github.com/renproject/powchain/pow"
	"github.com/renproject/powchain/tx"
)

type (
	Hash                 = block.Hash
	Timestamp            = block.Timestamp
	Block                = block.Block
	Transaction          = tx.Transaction
	Transactions         = tx.Transactions
	DecodeError          = tx.DecodeError
	Pool                 = tx.Pool
	PoolOptions          = tx.PoolOptions
	Sealer               = pow.Sealer
	SealerOptions        = pow.Options
	Ledger               = ledger.Ledger
	Options              = ledger.Options
	Query                = ledger.Query
	Result               = ledger.Result
	ByIndex              = ledger.ByIndex
	ByPreviousHash       = ledger.ByPreviousHash
	ByBlockHash          = ledger.ByBlockHash
	ByNonce              = ledger.ByNonce
	ByTimestamp          = ledger.ByTimestamp
	ByTransaction        = ledger.ByTransaction
	Found                = ledger.Found
	EmptyChain           = ledger.EmptyChain
	IndexNotFound        = ledger.IndexNotFound
	PreviousHashNotFound = ledger.PreviousHashNotFound
	BlockHashNotFound    = ledger.BlockHashNotFound
	NonceNotFound        = ledger.NonceNotFound
	TimestampNotFound    = ledger.TimestampNotFound
	TransactionNotFound  = ledger.TransactionNotFound
)

var (
	ErrDuplicate            = tx.ErrDuplicate
	ErrMiningTimeout        = pow.ErrMiningTimeout
	ErrPreviousHashMismatch = ledger.ErrPreviousHashMismatch
	ErrBrokenLink           = ledger.ErrBrokenLink
	ErrDifficulty           = ledger.ErrDifficulty
)

// DefaultOptions returns the default options for a Ledger.
func DefaultOptions() Options {
	return ledger.DefaultOptions()
}

// New Ledger that credits mining rewards to the miner address.
func New(ctx context.Context, options Options, minerAddress string) (*Ledger, error) {
	return ledger.New(ctx, options, minerAddress)
}
