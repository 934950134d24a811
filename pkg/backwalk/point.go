package backwalk

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Point is an affine point on the secp256k1 curve. Both coordinates are
// always held in normalized (fully reduced) form.
type Point struct {
	X, Y secp256k1.FieldVal
}

// NewPoint returns the point with the given affine coordinates. The inputs
// must be normalized; they are copied, not aliased.
func NewPoint(x, y *secp256k1.FieldVal) *Point {
	var p Point
	p.X.Set(x)
	p.Y.Set(y)
	return &p
}

// Equal reports whether p and q are the same point.
func (p *Point) Equal(q *Point) bool {
	return p.X.Equals(&q.X) && p.Y.Equals(&q.Y)
}

// SubtractGenerator computes p - G as p + (-G) with the standard affine
// chord formula. It returns a DegenerateStepError when p.x equals the
// generator's x-coordinate, i.e. p = G or p = -G; callers walking a lane
// normally guarantee the sequence stays clear of that case.
func SubtractGenerator(p *Point) (*Point, error) {
	var dx secp256k1.FieldVal
	dx.Add2(&p.X, &negGenX).Normalize()
	if dx.IsZero() {
		return nil, &DegenerateStepError{X: p.X.String()}
	}
	dx.Inverse()
	dx.Normalize()
	return subtractGeneratorWithInverse(p, &dx), nil
}

// AddGenerator computes p + G. It is the forward primitive of the expansion
// scheme being reversed; the scanner uses it to enumerate seed public keys
// incrementally. Degenerate semantics match SubtractGenerator.
func AddGenerator(p *Point) (*Point, error) {
	var dx, num, slope secp256k1.FieldVal
	dx.Add2(&p.X, &negGenX).Normalize()
	if dx.IsZero() {
		return nil, &DegenerateStepError{X: p.X.String()}
	}
	dx.Inverse()
	dx.Normalize()

	// slope through P and G: (y - Gy) / (x - Gx)
	num.Add2(&p.Y, &negGenY).Normalize()
	slope.Mul2(&num, &dx).Normalize()
	return completeChord(p, &slope), nil
}

// subtractGeneratorWithInverse is SubtractGenerator with the inversion of
// (p.x - Gx) already done by the caller. The lane stepper uses it with the
// cached per-lane inverse so a whole backward step costs one inversion.
func subtractGeneratorWithInverse(p *Point, dxInv *secp256k1.FieldVal) *Point {
	var num, slope secp256k1.FieldVal

	// slope through P and -G: (y - (-Gy)) / (x - Gx)
	num.Add2(&p.Y, &genY).Normalize()
	slope.Mul2(&num, dxInv).Normalize()
	return completeChord(p, &slope)
}

// completeChord finishes an affine chord addition through p and a point with
// the generator's x-coordinate:
//
//	newX = slope^2 - p.x - Gx
//	newY = slope*(p.x - newX) - p.y
func completeChord(p *Point, slope *secp256k1.FieldVal) *Point {
	var out Point
	var negX, negY, t secp256k1.FieldVal

	negX.NegateVal(&p.X, 1)
	out.X.SquareVal(slope).Add(&negGenX).Add(&negX).Normalize()

	t.NegateVal(&out.X, 1).Add(&p.X).Normalize()
	t.Mul(slope)
	negY.NegateVal(&p.Y, 1)
	out.Y.Add2(&t, &negY).Normalize()
	return &out
}
