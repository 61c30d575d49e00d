package tx

import (
	"bytes"
	"errors"
	"sync"

	"golang.org/x/crypto/sha3"
)

// ErrDuplicate is returned when a byte-identical entry is already pending.
var ErrDuplicate = errors.New("duplicate transaction")

// A Pool is the First-In, First-Out staging area of encoded Transactions that
// are waiting to be included in the next Block. It is safe for concurrent use.
type Pool struct {
	opts PoolOptions

	entriesMu *sync.Mutex
	entries   [][]byte
	counts    map[[32]byte]int
}

// NewPool returns an empty Pool.
func NewPool(opts PoolOptions) *Pool {
	opts.setZerosToDefaults()
	return &Pool{
		opts:      opts,
		entriesMu: new(sync.Mutex),
		entries:   [][]byte{},
		counts:    map[[32]byte]int{},
	}
}

// Add an encoded Transaction to the end of the Pool. Unless the Pool allows
// duplicates, an entry that is byte-identical to a pending one is rejected
// with ErrDuplicate.
func (pool *Pool) Add(encoded []byte) error {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	key := sha3.Sum256(encoded)
	if pool.counts[key] > 0 && !pool.opts.AllowDuplicates {
		pool.opts.Logger.Debugf("rejected duplicate entry=%x", key[:8])
		return ErrDuplicate
	}
	pool.push(key, encoded)
	return nil
}

// Push an encoded Transaction to the end of the Pool without checking for
// duplicates.
func (pool *Pool) Push(encoded []byte) {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	pool.push(sha3.Sum256(encoded), encoded)
}

// Remove the most recently added entry that is byte-identical to the given
// one. It returns false when there is no such entry.
func (pool *Pool) Remove(encoded []byte) bool {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	key := sha3.Sum256(encoded)
	if pool.counts[key] == 0 {
		return false
	}
	for i := len(pool.entries) - 1; i >= 0; i-- {
		if bytes.Equal(pool.entries[i], encoded) {
			pool.entries = append(pool.entries[:i], pool.entries[i+1:]...)
			pool.decrement(key)
			return true
		}
	}
	return false
}

// Drain returns every pending entry, in the order they were added, and leaves
// the Pool empty. Both happen in one step with respect to other callers.
func (pool *Pool) Drain() [][]byte {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	entries := pool.entries
	pool.entries = [][]byte{}
	pool.counts = map[[32]byte]int{}
	return entries
}

// Requeue puts previously drained entries back at the front of the Pool, in
// their original order. Entries are not checked for duplicates.
func (pool *Pool) Requeue(entries [][]byte) {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	requeued := make([][]byte, 0, len(entries)+len(pool.entries))
	for _, entry := range entries {
		requeued = append(requeued, entry)
		pool.counts[sha3.Sum256(entry)]++
	}
	pool.entries = append(requeued, pool.entries...)
}

// Contains returns true if a byte-identical entry is pending.
func (pool *Pool) Contains(encoded []byte) bool {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	return pool.counts[sha3.Sum256(encoded)] > 0
}

// Len returns the number of pending entries.
func (pool *Pool) Len() int {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	return len(pool.entries)
}

// Pending returns a copy of the pending entries, in order.
func (pool *Pool) Pending() [][]byte {
	pool.entriesMu.Lock()
	defer pool.entriesMu.Unlock()

	pending := make([][]byte, len(pool.entries))
	for i, entry := range pool.entries {
		pending[i] = append([]byte{}, entry...)
	}
	return pending
}

func (pool *Pool) push(key [32]byte, encoded []byte) {
	pool.entries = append(pool.entries, append([]byte{}, encoded...))
	pool.counts[key]++
}

func (pool *Pool) decrement(key [32]byte) {
	if pool.counts[key] <= 1 {
		delete(pool.counts, key)
		return
	}
	pool.counts[key]--
}
