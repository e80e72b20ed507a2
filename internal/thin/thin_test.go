package thin_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nestris-org/botfit/internal/thin"
)

func ident(v int) float64 { return float64(v) }

func isSubsequence(sub, full []int) bool {
	i := 0
	for _, v := range full {
		if i < len(sub) && sub[i] == v {
			i++
		}
	}
	return i == len(sub)
}

func expectedLen(n int, p float64) int {
	count := int(math.RoundToEven(float64(n) * p))
	if count <= 0 || n <= 1 {
		return n
	}
	keep := n - count
	if keep < 2 {
		keep = 2
	}
	return keep
}

func TestRemoveFractionClusters(t *testing.T) {
	trophies := []int{1, 2, 3, 10, 11, 12}

	out := thin.RemoveFraction(trophies, 1.0/6, ident)
	require.Equal(t, []int{1, 3, 10, 11, 12}, out, "an element inside a cluster goes, not the outlier gap")
	require.Equal(t, []int{1, 2, 3, 10, 11, 12}, trophies, "input must not be modified")

	require.Equal(t, []int{1, 10, 12}, thin.RemoveFraction(trophies, 0.5, ident))
}

func TestDisruption(t *testing.T) {
	require.Equal(t, 2.0, thin.Disruption(1, 2, 3))
	require.Equal(t, 8.0, thin.Disruption(2, 3, 10))
	require.Equal(t, 8.0, thin.Disruption(3, 10, 11))
	require.Equal(t, 2.0, thin.Disruption(10, 11, 12))
}

func TestRemoveFractionDegenerate(t *testing.T) {
	in := []int{1, 5, 9}
	require.Equal(t, in, thin.RemoveFraction(in, 0, ident))
	require.Equal(t, in, thin.RemoveFraction(in, 0.1, ident), "count rounding to zero is a no-op")

	require.Equal(t, []int{7}, thin.RemoveFraction([]int{7}, 1, ident))
	require.Empty(t, thin.RemoveFraction([]int{}, 0.5, ident))

	require.Equal(t, []int{1, 16}, thin.RemoveFraction([]int{1, 2, 4, 8, 16}, 1, ident))
	require.Equal(t, []int{1, 2}, thin.RemoveFraction([]int{1, 2}, 1, ident))
}

func TestRemoveFractionRoundsHalfToEven(t *testing.T) {
	// 5 * 0.5 = 2.5 rounds to 2.
	require.Len(t, thin.RemoveFraction([]int{1, 2, 3, 4, 5}, 0.5, ident), 3)
	// 7 * 0.5 = 3.5 rounds to 4.
	require.Len(t, thin.RemoveFraction([]int{1, 2, 3, 4, 5, 6, 7}, 0.5, ident), 3)
}

func TestRemoveFractionTiesLowestIndex(t *testing.T) {
	require.Equal(t, []int{0, 2, 3, 4}, thin.RemoveFraction([]int{0, 1, 2, 3, 4}, 0.2, ident))
}

func TestRemoveFractionRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := rnd.Intn(40)
		in := make([]int, n)
		for i := range in {
			in[i] = rnd.Intn(200)
		}
		sort.Ints(in)
		p := rnd.Float64()

		out := thin.RemoveFraction(in, p, ident)
		require.Len(t, out, expectedLen(n, p), "trial %d: n=%d p=%g", trial, n, p)
		require.True(t, isSubsequence(out, in), "trial %d: output must keep order", trial)
		if n >= 2 {
			require.Equal(t, in[0], out[0], "trial %d: first kept", trial)
			require.Equal(t, in[n-1], out[len(out)-1], "trial %d: last kept", trial)
		}
	}
}
