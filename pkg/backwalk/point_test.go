package backwalk

import (
	"encoding/binary"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

// pointFromScalar computes k*G with the curve library's reference scalar
// multiplication, independently of the chord arithmetic under test.
func pointFromScalar(t *testing.T, k uint64) *Point {
	t.Helper()
	require.NotZero(t, k, "scalar must be non-zero")

	var kb [8]byte
	binary.BigEndian.PutUint64(kb[:], k)
	var s secp256k1.ModNScalar
	s.SetByteSlice(kb[:])

	var j secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s, &j)
	j.ToAffine()
	j.X.Normalize()
	j.Y.Normalize()
	return NewPoint(&j.X, &j.Y)
}

func TestGeneratorConstants(t *testing.T) {
	g := pointFromScalar(t, 1)
	require.True(t, g.X.Equals(&genX), "genX disagrees with 1*G")
	require.True(t, g.Y.Equals(&genY), "genY disagrees with 1*G")

	var sum secp256k1.FieldVal
	sum.Add2(&genX, &negGenX).Normalize()
	require.True(t, sum.IsZero(), "negGenX is not the field negation of genX")

	sum.Add2(&genY, &negGenY).Normalize()
	require.True(t, sum.IsZero(), "negGenY is not the field negation of genY")
}

func TestSubtractGeneratorWalksBack(t *testing.T) {
	for k := uint64(2); k <= 10; k++ {
		p := pointFromScalar(t, k)
		got, err := SubtractGenerator(p)
		require.NoError(t, err, "k=%d", k)

		want := pointFromScalar(t, k-1)
		require.True(t, got.Equal(want), "k=%d: (k*G) - G != (k-1)*G", k)
	}
}

func TestAddSubtractRoundTrip(t *testing.T) {
	for _, k := range []uint64{2, 3, 17, 1000003, 0xdeadbeef, 1<<32 - 1} {
		p := pointFromScalar(t, k)

		fwd, err := AddGenerator(p)
		require.NoError(t, err, "k=%d", k)
		back, err := SubtractGenerator(fwd)
		require.NoError(t, err, "k=%d", k)

		require.Equal(t, p.X.Bytes(), back.X.Bytes(), "k=%d: x not exactly recovered", k)
		require.Equal(t, p.Y.Bytes(), back.Y.Bytes(), "k=%d: y not exactly recovered", k)
	}
}

func TestSubtractGeneratorDegenerate(t *testing.T) {
	g := pointFromScalar(t, 1)
	_, err := SubtractGenerator(g)
	var degenerate *DegenerateStepError
	require.ErrorAs(t, err, &degenerate, "subtracting G from G must be rejected")

	negG := NewPoint(&genX, &negGenY)
	_, err = SubtractGenerator(negG)
	require.ErrorAs(t, err, &degenerate, "subtracting G from -G must be rejected")

	_, err = AddGenerator(g)
	require.ErrorAs(t, err, &degenerate, "adding G to G is a doubling, not a chord")
}
