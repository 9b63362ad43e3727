// Package kernel holds the single-threaded pieces of the parallel quicksort:
// insertion sort for short ranges, the median-of-three partition step, and
// Split, which partitions one range and offers its long sub-ranges to a
// hand-off callback.
//
// Elements are compared with cmp.Less, so NaN orders before every other
// float and the ordering is total.
package kernel

import "cmp"

// DefaultCutoff is the range length at or below which insertion sort is used.
const DefaultCutoff = 10

// HandOff is offered each sub-range longer than the cutoff. It reports
// whether the sub-range was accepted; a refused sub-range is sorted by the
// caller of Split before Split returns.
type HandOff func(first, last int) bool

// InsertionSort sorts a in place.
func InsertionSort[E cmp.Ordered](a []E) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && cmp.Less(a[j], a[j-1]); j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}

// Partition splits a around a median-of-three pivot and returns p such that
// every element of a[:p] is <= the pivot and every element of a[p:] is >= it.
// len(a) must be at least 2; the result is in [1, len(a)-1], so neither side
// is empty.
func Partition[E cmp.Ordered](a []E) int {
	first, middle, last := 0, len(a)/2, len(a)-1

	// Order a[first] <= a[middle] <= a[last]. The outer two then act as
	// sentinels for the scans below.
	if cmp.Less(a[middle], a[first]) {
		a[first], a[middle] = a[middle], a[first]
	}
	if cmp.Less(a[last], a[middle]) {
		a[middle], a[last] = a[last], a[middle]
	}
	if cmp.Less(a[middle], a[first]) {
		a[first], a[middle] = a[middle], a[first]
	}

	pivot := a[middle]
	i, j := 1, len(a)-2
	for {
		for cmp.Less(a[i], pivot) {
			i++
		}
		for cmp.Less(pivot, a[j]) {
			j--
		}
		if i >= j {
			return i
		}
		a[i], a[j] = a[j], a[i]
		i++
		j--
	}
}

// Split sorts a[first:last] as far as it can without recursing into long
// sub-ranges. Ranges at or below cutoff are insertion-sorted. Longer ranges
// are partitioned once; each side at or below cutoff is sorted inline and
// each longer side is offered to handOff exactly once, falling back to Sort
// when refused. Split returns the number of sub-ranges handOff accepted.
func Split[E cmp.Ordered](a []E, first, last, cutoff int, handOff HandOff) int {
	if last-first <= cutoff || last-first < 2 {
		InsertionSort(a[first:last])
		return 0
	}

	p := first + Partition(a[first:last])

	accepted := 0
	for _, r := range [2][2]int{{first, p}, {p, last}} {
		lo, hi := r[0], r[1]
		switch {
		case hi-lo <= cutoff:
			InsertionSort(a[lo:hi])
		case handOff(lo, hi):
			accepted++
		default:
			Sort(a[lo:hi], cutoff)
		}
	}
	return accepted
}

// Sort is a sequential quicksort using Partition and the insertion-sort
// cutoff. It recurses into the shorter side and loops on the longer one.
func Sort[E cmp.Ordered](a []E, cutoff int) {
	cutoff = max(cutoff, 1)
	for len(a) > cutoff {
		p := Partition(a)
		if p < len(a)-p {
			Sort(a[:p], cutoff)
			a = a[p:]
		} else {
			Sort(a[p:], cutoff)
			a = a[:p]
		}
	}
	InsertionSort(a)
}

// IsSorted reports whether a is non-decreasing. When it is not, it also
// returns the first index i with a[i+1] < a[i].
func IsSorted[E cmp.Ordered](a []E) (int, bool) {
	for i := 0; i+1 < len(a); i++ {
		if cmp.Less(a[i+1], a[i]) {
			return i, false
		}
	}
	return -1, true
}
