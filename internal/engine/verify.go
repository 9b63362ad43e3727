package engine

import (
	"cmp"

	"github.com/roach88/poolsort/internal/kernel"
)

// Verify scans a once and returns an ordering violation for the first
// adjacent pair with a[i] > a[i+1].
func Verify[E cmp.Ordered](a []E) error {
	if i, ok := kernel.IsSorted(a); !ok {
		return NewOrderingError("", i, a[i], a[i+1])
	}
	return nil
}
