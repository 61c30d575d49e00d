package pow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/renproject/powchain/block"
	"golang.org/x/sync/errgroup"
)

// ErrMiningTimeout is returned when no nonce satisfying the difficulty target
// was found within the maximum number of attempts.
var ErrMiningTimeout = errors.New("mining timeout")

// checkInterval is the number of attempts between checks of the context.
const checkInterval = 1024

// MeetsDifficulty returns true if the first difficulty characters of the hex
// encoding of the hash are all '0'.
func MeetsDifficulty(hash block.Hash, difficulty int) bool {
	if difficulty > 2*len(hash) {
		return false
	}
	for i := 0; i < difficulty; i++ {
		nibble := hash[i/2] >> 4
		if i%2 == 1 {
			nibble = hash[i/2] & 0x0F
		}
		if nibble != 0 {
			return false
		}
	}
	return true
}

// A Sealer seals Blocks by searching for a nonce that makes the content hash
// meet a difficulty target. Nonces are tried in order, starting from the nonce
// that the Block already has and incrementing by one. With more than one
// worker, the trials are striped across goroutines and the lowest successful
// trial wins, so the result is the same as searching with one worker.
type Sealer struct {
	opts Options
}

// New returns a Sealer. It panics if the difficulty cannot be met by a
// 256-bit hash.
func New(opts Options) *Sealer {
	opts.setZerosToDefaults()
	if opts.Difficulty < 0 || opts.Difficulty > 2*block.HashLength {
		panic(fmt.Errorf("pre-condition violation: difficulty=%v must be between 0 and %v", opts.Difficulty, 2*block.HashLength))
	}
	if opts.Workers < 0 {
		panic(fmt.Errorf("pre-condition violation: workers=%v must not be negative", opts.Workers))
	}
	return &Sealer{opts: opts}
}

// Difficulty returns the difficulty target of the Sealer.
func (sealer *Sealer) Difficulty() int {
	return sealer.opts.Difficulty
}

// Seal the Block by incrementing its nonce until its content hash meets the
// difficulty target, and return the hex encoding of that hash as the proof.
// The Block must not be frozen. If sealing fails, the nonce of the Block is
// left unchanged and ErrMiningTimeout, or the error of the context, is
// returned.
func (sealer *Sealer) Seal(ctx context.Context, b *block.Block) (string, error) {
	start := time.Now()

	var attempts int64
	var err error
	if sealer.opts.Workers > 1 {
		attempts, err = sealer.sealParallel(ctx, b)
	} else {
		attempts, err = sealer.sealSequential(ctx, b)
	}
	if err != nil {
		sealer.opts.Logger.Warnf("gave up sealing after %v (%v)", time.Since(start), err)
		return "", err
	}

	proof := b.Hash().Hex()
	sealer.opts.Logger.Debugf("⛏ sealed nonce=%v after attempts=%v in %v, proof=%v", b.Nonce(), attempts+1, time.Since(start), proof)
	return proof, nil
}

// Verify returns true if the Block meets the difficulty target of the Sealer.
func (sealer *Sealer) Verify(b *block.Block) bool {
	return MeetsDifficulty(b.Hash(), sealer.opts.Difficulty)
}

func (sealer *Sealer) sealSequential(ctx context.Context, b *block.Block) (int64, error) {
	for trial := int64(0); ; trial++ {
		if sealer.opts.MaxAttempts > 0 && trial >= sealer.opts.MaxAttempts {
			b.IncrementNonce(-int32(trial))
			return trial, ErrMiningTimeout
		}
		if trial%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				b.IncrementNonce(-int32(trial))
				return trial, err
			}
		}
		if MeetsDifficulty(b.Hash(), sealer.opts.Difficulty) {
			return trial, nil
		}
		b.IncrementNonce(1)
	}
}

// sealParallel assigns trial i to worker i mod n. A worker stops once its next
// trial is beyond the lowest successful trial found so far, which guarantees
// that every trial below the winner has been tried.
func (sealer *Sealer) sealParallel(ctx context.Context, b *block.Block) (int64, error) {
	workers := int64(sealer.opts.Workers)
	best := int64(math.MaxInt64)

	var g errgroup.Group
	for w := int64(0); w < workers; w++ {
		w := w
		candidate := b.Clone()
		candidate.IncrementNonce(int32(w))
		g.Go(func() error {
			for trial := w; trial < atomic.LoadInt64(&best); trial += workers {
				if sealer.opts.MaxAttempts > 0 && trial >= sealer.opts.MaxAttempts {
					return nil
				}
				// A done context may stop a worker before it tries every
				// trial below the best one.
				if (trial/workers)%checkInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if MeetsDifficulty(candidate.Hash(), sealer.opts.Difficulty) {
					storeMin(&best, trial)
					return nil
				}
				candidate.IncrementNonce(int32(workers))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if best == math.MaxInt64 {
		return sealer.opts.MaxAttempts, ErrMiningTimeout
	}
	b.IncrementNonce(int32(best))
	return best, nil
}

func storeMin(addr *int64, value int64) {
	for {
		current := atomic.LoadInt64(addr)
		if value >= current || atomic.CompareAndSwapInt64(addr, current, value) {
			return
		}
	}
}
