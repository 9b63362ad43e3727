// Package dataset produces and serializes the arrays handed to the sort
// engine: seeded random input and a plain text format with one value per
// line.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
)

// Generate returns n pseudo-random values in [0,1). The same seed always
// yields the same values.
func Generate(n int, seed uint64) []float64 {
	r := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()
	}
	return out
}

// Read parses whitespace-separated floating point values.
func Read(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var out []float64
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(out)+1, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	return out, nil
}

// Write emits one value per line using the shortest representation that
// parses back to the same float64.
func Write(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for _, v := range values {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write values: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return nil
}
