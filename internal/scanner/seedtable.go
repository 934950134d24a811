package scanner

import (
	"encoding/binary"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"seedwalk/pkg/backwalk"
)

// SeedTable maps the address of every candidate seed public key s*G to its
// seed scalar s. It is built once, then shared read-only by all lanes.
type SeedTable struct {
	addrs map[backwalk.Address]uint64
}

// BuildSeedTable derives the address of s*G for every s in [lo, hi). The
// first point costs one scalar multiplication; the rest are produced
// incrementally with a single generator addition each. A lo of 0 is bumped
// to 1 since 0*G has no address.
func BuildSeedTable(lo, hi uint64) (*SeedTable, error) {
	if lo == 0 {
		lo = 1
	}
	if hi <= lo {
		return nil, fmt.Errorf("scanner: empty seed range [%d, %d)", lo, hi)
	}

	t := &SeedTable{addrs: make(map[backwalk.Address]uint64, hi-lo)}
	hasher := backwalk.NewAddressHasher()
	p := pointFromScalar(lo)
	for s := lo; ; s++ {
		t.addrs[hasher.Derive(p)] = s
		if s+1 == hi {
			break
		}
		next, err := backwalk.AddGenerator(p)
		if err != nil {
			// The incremental chord degenerates when p is G itself (s = 1,
			// where adding G is a doubling); step over it with the ladder.
			next = pointFromScalar(s + 1)
		}
		p = next
	}
	return t, nil
}

// Lookup returns the seed scalar whose address is addr, if any.
func (t *SeedTable) Lookup(addr backwalk.Address) (uint64, bool) {
	s, ok := t.addrs[addr]
	return s, ok
}

// Len returns the number of candidate seeds in the table.
func (t *SeedTable) Len() int {
	return len(t.addrs)
}

// pointFromScalar computes k*G via the curve library. k must be non-zero
// modulo the group order.
func pointFromScalar(k uint64) *backwalk.Point {
	var kb [8]byte
	binary.BigEndian.PutUint64(kb[:], k)
	var s secp256k1.ModNScalar
	s.SetByteSlice(kb[:])

	var j secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s, &j)
	j.ToAffine()
	j.X.Normalize()
	j.Y.Normalize()
	return backwalk.NewPoint(&j.X, &j.Y)
}
