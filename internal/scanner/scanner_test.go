package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"seedwalk/pkg/backwalk"
)

func TestBuildSeedTable(t *testing.T) {
	table, err := BuildSeedTable(1, 5)
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())

	hasher := backwalk.NewAddressHasher()
	for s := uint64(1); s < 5; s++ {
		got, ok := table.Lookup(hasher.Derive(pointFromScalar(s)))
		require.True(t, ok, "seed %d missing", s)
		require.Equal(t, s, got)
	}

	_, err = BuildSeedTable(7, 7)
	require.Error(t, err, "empty range must be rejected")
}

func TestScanRecoversKey(t *testing.T) {
	// Target is the 25th expansion of seed 15: priv = 40.
	target := pointFromScalar(40)

	result, err := Scan(context.Background(), target, Config{
		SeedLo:   2,
		SeedHi:   16,
		MaxSteps: 64,
		Span:     8,
		Workers:  4,
	})
	require.NoError(t, err)
	require.NotNil(t, result, "scan should find the seed")

	var wantKey [32]byte
	wantKey[31] = 40
	require.Equal(t, wantKey, result.PrivateKey)
	require.Equal(t, uint64(40), result.Seed+result.Depth)
	require.True(t, result.Verified)
}

func TestScanTargetIsSeed(t *testing.T) {
	target := pointFromScalar(5)

	result, err := Scan(context.Background(), target, Config{
		SeedLo:   2,
		SeedHi:   10,
		MaxSteps: 4,
		Workers:  1,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, uint64(5), result.Seed)
	require.Equal(t, uint64(0), result.Depth)
	require.True(t, result.Verified)
}

// A lane that walks back onto G retires with a degenerate step, but the
// digest of that final point must still be harvested.
func TestScanHarvestsDegenerateLane(t *testing.T) {
	target := pointFromScalar(4)

	result, err := Scan(context.Background(), target, Config{
		SeedLo:   1,
		SeedHi:   2, // only seed 1, i.e. G itself
		MaxSteps: 8,
		Span:     8,
		Workers:  1,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, uint64(1), result.Seed)
	require.Equal(t, uint64(3), result.Depth)

	var wantKey [32]byte
	wantKey[31] = 4
	require.Equal(t, wantKey, result.PrivateKey)
}

func TestScanNoMatch(t *testing.T) {
	target := pointFromScalar(1000000)

	result, err := Scan(context.Background(), target, Config{
		SeedLo:   2,
		SeedHi:   16,
		MaxSteps: 100,
		Workers:  2,
	})
	require.NoError(t, err)
	require.Nil(t, result, "no seed within 100 steps of 1000000*G")
}

func TestScanCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Scan(ctx, pointFromScalar(1000000), Config{
		SeedLo:   2,
		SeedHi:   16,
		MaxSteps: 1 << 20,
		Workers:  2,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, result)
}

func TestScanRejectsZeroMaxSteps(t *testing.T) {
	_, err := Scan(context.Background(), pointFromScalar(5), Config{SeedLo: 1, SeedHi: 2})
	require.Error(t, err)
}
