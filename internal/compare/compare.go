// Package compare explains how the fingerprints of several images differ,
// row by row.
package compare

import (
	"fmt"

	"ImageGrouper/internal/dhash"
)

// Files fingerprints every path and records which rows of the side x side
// bit grid are not identical across all of them.
func Files(paths []string, opts dhash.Options) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("need at least 1 file")
	}
	side := opts.Side
	if side <= 0 {
		side = dhash.DefaultSide
		opts.Side = side
	}

	res := &Result{
		Side:    side,
		Paths:   paths,
		Bits:    make([]dhash.Bits, len(paths)),
		Digests: make([]string, len(paths)),
	}
	for i, p := range paths {
		bits, err := dhash.File(p, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		res.Bits[i] = bits
		res.Digests[i] = bits.Hex()
	}

	res.DifferingRows = make([]int, 0)
	for row := 0; row < side; row++ {
		ref := res.Row(0, row)
		for i := 1; i < len(paths); i++ {
			if res.Row(i, row) != ref {
				res.DifferingRows = append(res.DifferingRows, row)
				break
			}
		}
	}
	return res, nil
}
