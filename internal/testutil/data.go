package testutil

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

// RandomFloats returns n values in [0,1) from a seeded generator.
// The same seed always yields the same slice.
func RandomFloats(n int, seed uint64) []float64 {
	r := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()
	}
	return out
}

// RandomInts returns n values in [0, limit) from a seeded generator.
func RandomInts(n, limit int, seed uint64) []int {
	r := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]int, n)
	for i := range out {
		out[i] = r.IntN(limit)
	}
	return out
}

// Ascending returns 0, 1, ..., n-1.
func Ascending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Descending returns n-1, n-2, ..., 0.
func Descending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

// AssertPermutation fails the test unless got holds the same multiset of
// values as want.
func AssertPermutation[E cmp.Ordered](t testing.TB, want, got []E) bool {
	t.Helper()
	w := slices.Clone(want)
	g := slices.Clone(got)
	slices.Sort(w)
	slices.Sort(g)
	return assert.Equal(t, w, g, "output is not a permutation of the input")
}

// AssertSorted fails the test unless a is non-decreasing.
func AssertSorted[E cmp.Ordered](t testing.TB, a []E) bool {
	t.Helper()
	for i := 0; i+1 < len(a); i++ {
		if cmp.Less(a[i+1], a[i]) {
			return assert.Failf(t, "not sorted", "a[%d]=%v > a[%d]=%v", i, a[i], i+1, a[i+1])
		}
	}
	return true
}
