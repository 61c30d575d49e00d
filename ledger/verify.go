package ledger

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/renproject/powchain/block"
)

var (
	// ErrBrokenLink is returned when a Block does not link to the content
	// hash of its predecessor.
	ErrBrokenLink = errors.New("broken link")

	// ErrDifficulty is returned when a sealed Block does not meet the
	// difficulty target.
	ErrDifficulty = errors.New("difficulty target not met")
)

// Verify the integrity of the chain. The genesis Block must link to a hash of
// all zeros, and every other Block must link to the content hash of its
// predecessor and meet the difficulty target. Genesis is never sealed, so it
// is not checked against the difficulty target.
func (ledger *Ledger) Verify() error {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	if len(ledger.chain) == 0 {
		return nil
	}
	if genesis := ledger.chain[0]; !bytes.Equal(genesis.PreviousHash(), make([]byte, block.HashLength)) {
		return fmt.Errorf("%w: genesis links to %x", ErrBrokenLink, genesis.PreviousHash())
	}
	for i := 1; i < len(ledger.chain); i++ {
		current, previous := ledger.chain[i], ledger.chain[i-1]
		if previousHash := previous.Hash(); !bytes.Equal(current.PreviousHash(), previousHash[:]) {
			return fmt.Errorf("%w: block=%v links to %x, expected %v", ErrBrokenLink, i, current.PreviousHash(), previousHash)
		}
		if !ledger.sealer.Verify(current) {
			return fmt.Errorf("%w: block=%v has hash %v", ErrDifficulty, i, current.Hash())
		}
	}
	return nil
}
