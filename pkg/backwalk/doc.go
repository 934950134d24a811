// Package backwalk implements the backward point-iteration engine used to
// undo a flawed deterministic key-expansion scheme on secp256k1.
//
// The flawed scheme expands a seed public key P0 into derived keys
// P_i = P0 + i*G by repeated generator addition and hashes each point into
// an address. Given one derived point, this package walks the sequence
// backward, one generator subtraction per step, re-deriving the address
// digest after every step so an external comparator can test it against a
// table of candidate seed addresses.
//
// Each search lane keeps a compact state (deltaX, tmp, lambda) instead of
// full coordinates:
//
//	deltaX = x - Gx
//	tmp    = 1/deltaX
//	lambda = slope of the forward addition that produced the point,
//	         i.e. the slope of the line through G and -P
//
// The point is reconstructed as x = deltaX + Gx, y = -Gy - lambda*deltaX,
// and because the subtraction slope of the next backward step is exactly
// -lambda, a single modular inversion per step keeps the state rolling.
//
// # Usage
//
//	lane, err := backwalk.SeedLane(target)
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < steps; i++ {
//	    if err := lane.Step(1); err != nil {
//	        return err
//	    }
//	    if table.Contains(lane.Digest()) {
//	        // match: the current point is a seed public key
//	    }
//	}
//
// Lanes are independent: running many lanes concurrently is safe as long as
// each lane is stepped from a single goroutine. The package performs no I/O
// and decides nothing about when to stop; that is the caller's concern.
package backwalk
