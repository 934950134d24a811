package backwalk

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// LaneState holds one search lane's compact encoding of its current point
// plus the lane's externally visible digest output slot. One instance exists
// per lane, created by the driver via SeedLane and mutated in place by Step.
// Lanes never share state; stepping different lanes concurrently is safe.
type LaneState struct {
	deltaX secp256k1.FieldVal // x - Gx
	tmp    secp256k1.FieldVal // 1/deltaX, cached for the next step
	lambda secp256k1.FieldVal // slope of the forward addition that produced the point
	digest Address
	hasher *AddressHasher
	seeded bool
}

// SeedLane builds a lane's compact state from a full point, normally the
// target point recovered from an on-chain signature. The digest output slot
// is primed with p's own address so the caller can test the starting point
// before the first Step. Seeding at x = Gx is rejected.
func SeedLane(p *Point) (*LaneState, error) {
	l := &LaneState{hasher: NewAddressHasher()}

	l.deltaX.Add2(&p.X, &negGenX).Normalize()
	if l.deltaX.IsZero() {
		return nil, &DegenerateStepError{X: p.X.String()}
	}
	l.tmp.Set(&l.deltaX).Inverse()
	l.tmp.Normalize()

	// lambda = (-y - Gy) / (x - Gx), the slope of the line through G and -P.
	var t secp256k1.FieldVal
	t.NegateVal(&p.Y, 1).Add(&negGenY).Normalize()
	l.lambda.Mul2(&t, &l.tmp).Normalize()

	l.digest = l.hasher.Derive(p)
	l.seeded = true
	return l, nil
}

// Point reconstructs the lane's current full point from its compact state:
// x = deltaX + Gx, y = -Gy - lambda*deltaX.
func (l *LaneState) Point() (*Point, error) {
	if !l.seeded {
		return nil, &InconsistentStateError{Reason: "lane not seeded"}
	}
	var p Point
	var t secp256k1.FieldVal
	p.X.Add2(&l.deltaX, &genX).Normalize()
	t.Mul2(&l.lambda, &l.deltaX)
	p.Y.NegateVal(&t, 1).Add(&negGenY).Normalize()
	return &p, nil
}

// Step advances the lane exactly one step backward: it reconstructs the
// current point, subtracts the generator using the cached inverse, persists
// the new compact triple, and re-derives the digest output slot from the new
// point. The whole step costs one modular inversion and one permutation.
//
// iterationsPerCall is accepted for compatibility with batching drivers, but
// one call always performs exactly one backward step; a caller that wants a
// batch invokes Step that many times.
//
// When the new point's x-coordinate collides with the generator's (the walk
// stepped onto G itself), Step derives the digest for that final point, then
// invalidates the lane and returns a DegenerateStepError; later calls return
// an InconsistentStateError. A failed lane never disturbs other lanes.
func (l *LaneState) Step(iterationsPerCall int) error {
	_ = iterationsPerCall

	p, err := l.Point()
	if err != nil {
		return err
	}
	r := subtractGeneratorWithInverse(p, &l.tmp)
	l.digest = l.hasher.Derive(r)

	l.deltaX.Add2(&r.X, &negGenX).Normalize()
	if l.deltaX.IsZero() {
		l.seeded = false
		return &DegenerateStepError{X: r.X.String()}
	}
	l.tmp.Set(&l.deltaX).Inverse()
	l.tmp.Normalize()

	var t secp256k1.FieldVal
	t.NegateVal(&r.Y, 1).Add(&negGenY).Normalize()
	l.lambda.Mul2(&t, &l.tmp).Normalize()
	return nil
}

// Digest returns the lane's output slot: the address digest of the point
// reached by the most recent Step (or of the seed point before any Step).
func (l *LaneState) Digest() Address {
	return l.digest
}
