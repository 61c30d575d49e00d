package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/renproject/powchain/block"
	"github.com/renproject/powchain/pow"
	"github.com/renproject/powchain/tx"
)

const (
	// MiningSender is the sender of every mining reward.
	MiningSender = "THE BLOCKCHAIN"

	// MiningReward is the value credited to the miner for every mined Block.
	MiningReward uint64 = 1
)

// ErrPreviousHashMismatch is returned when a Block would not link to the
// current tail of the chain.
var ErrPreviousHashMismatch = errors.New("previous hash does not match the tail of the chain")

// A Ledger is an append-only chain of Blocks together with the Pool of
// transactions waiting to be included in the next Block. It starts with a
// genesis Block, so the chain is never empty. A Ledger is safe for concurrent
// use. Every mutation holds the write lock for its whole duration, so draining
// the Pool, sealing, and appending happen as one step.
type Ledger struct {
	opts Options

	mu           sync.RWMutex
	pool         *tx.Pool
	sealer       *pow.Sealer
	chain        []*block.Block
	minerAddress string
}

// New returns a Ledger whose mining rewards are credited to the miner address.
// The genesis Block is appended without being sealed, and then, unless
// disabled by the options, one Block is mined. An error is only possible when
// the Sealer is bounded or the context is done before that Block is sealed.
func New(ctx context.Context, opts Options, minerAddress string) (*Ledger, error) {
	opts.setZerosToDefaults()

	genesis := block.Genesis()
	genesis.Freeze()

	ledger := &Ledger{
		opts:         opts,
		pool:         tx.NewPool(opts.TxPoolOpts),
		sealer:       pow.New(opts.SealerOpts),
		chain:        []*block.Block{genesis},
		minerAddress: minerAddress,
	}
	if opts.SkipInitialMining {
		return ledger, nil
	}
	if err := ledger.Mine(ctx); err != nil {
		return nil, fmt.Errorf("mining first block: %w", err)
	}
	return ledger, nil
}

// MinerAddress returns the address that receives mining rewards.
func (ledger *Ledger) MinerAddress() string {
	return ledger.minerAddress
}

// Difficulty returns the difficulty target used to seal Blocks.
func (ledger *Ledger) Difficulty() int {
	return ledger.sealer.Difficulty()
}

// AddTransaction encodes the Transaction and adds it to the Pool. A
// transaction that is byte-identical to a pending one is rejected with
// tx.ErrDuplicate, unless the Pool allows duplicates.
func (ledger *Ledger) AddTransaction(transaction tx.Transaction) error {
	encoded, err := tx.Encode(transaction)
	if err != nil {
		return err
	}
	return ledger.AddEncoded(encoded)
}

// AddEncoded adds an already encoded transaction to the Pool. The bytes are not
// decoded until they are needed, so malformed bytes are only reported by the
// operations that decode them (BalanceOf, Balances, and Dump).
func (ledger *Ledger) AddEncoded(encoded []byte) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if err := ledger.pool.Add(encoded); err != nil {
		return fmt.Errorf("adding transaction: %w", err)
	}
	return nil
}

// Submit a transfer of value from the sender to the recipient.
func (ledger *Ledger) Submit(sender, recipient []byte, value uint64) error {
	return ledger.AddTransaction(tx.New(sender, recipient, value))
}

// CreateBlock drains the Pool into a new Block, seals it, and appends it to
// the chain. The nonce only seeds the search. The previous hash must be the
// content hash of the current tail, otherwise ErrPreviousHashMismatch is
// returned and the Pool is left untouched. If sealing fails, the drained
// transactions are put back into the Pool and nothing is appended.
func (ledger *Ledger) CreateBlock(ctx context.Context, nonce int32, previousHash []byte) (string, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	return ledger.createBlock(ctx, nonce, previousHash)
}

// SealPendingBlock seals every pending transaction into a new Block that links
// to the current tail.
func (ledger *Ledger) SealPendingBlock(ctx context.Context) (string, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	tail := ledger.lastBlock().Hash()
	return ledger.createBlock(ctx, 0, tail[:])
}

// Mine adds a mining reward for the miner address to the Pool and seals every
// pending transaction into a new Block. The reward is always admitted, even if
// an identical transaction is pending. If sealing fails, the reward is removed
// again.
func (ledger *Ledger) Mine(ctx context.Context) error {
	reward, err := tx.Encode(tx.New([]byte(MiningSender), []byte(ledger.minerAddress), MiningReward))
	if err != nil {
		return err
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	ledger.pool.Push(reward)
	tail := ledger.lastBlock().Hash()
	if _, err := ledger.createBlock(ctx, 0, tail[:]); err != nil {
		ledger.pool.Remove(reward)
		return err
	}
	return nil
}

// LastBlock returns the tail of the chain.
func (ledger *Ledger) LastBlock() *block.Block {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	return ledger.lastBlock()
}

// Block returns the Block at the given position in the chain. It panics if the
// position is out of range; use Search with ByIndex to look up a position that
// might not exist.
func (ledger *Ledger) Block(i int) *block.Block {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	if i < 0 || i >= len(ledger.chain) {
		panic(fmt.Errorf("index out of range for the chain: index=%v, len=%v", i, len(ledger.chain)))
	}
	return ledger.chain[i]
}

// Len returns the number of Blocks in the chain, including genesis.
func (ledger *Ledger) Len() int {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	return len(ledger.chain)
}

// Blocks returns a copy of the chain. The Blocks themselves are frozen and
// shared.
func (ledger *Ledger) Blocks() []*block.Block {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	return append([]*block.Block{}, ledger.chain...)
}

// Pending returns a copy of the encoded transactions in the Pool.
func (ledger *Ledger) Pending() [][]byte {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	return ledger.pool.Pending()
}

func (ledger *Ledger) lastBlock() *block.Block {
	return ledger.chain[len(ledger.chain)-1]
}

func (ledger *Ledger) createBlock(ctx context.Context, nonce int32, previousHash []byte) (string, error) {
	tail := ledger.lastBlock().Hash()
	if !bytes.Equal(previousHash, tail[:]) {
		return "", fmt.Errorf("%w: expected=%v, got=%x", ErrPreviousHashMismatch, tail, previousHash)
	}

	b := block.New(nonce, previousHash)
	txs := ledger.pool.Drain()
	for _, encoded := range txs {
		b.AppendTx(encoded)
	}

	proof, err := ledger.sealer.Seal(ctx, b)
	if err != nil {
		ledger.pool.Requeue(txs)
		return "", fmt.Errorf("sealing block at index=%v: %w", len(ledger.chain), err)
	}

	b.Freeze()
	ledger.chain = append(ledger.chain, b)
	ledger.opts.Logger.Infof("✅ appended block=%v at index=%v with txs=%v", proof, len(ledger.chain)-1, len(txs))
	return proof, nil
}
