package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// assertGolden compares got against testdata/golden/<name>.golden.
// Run with -update to regenerate.
func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}
