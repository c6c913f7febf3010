package compare

import "ImageGrouper/internal/dhash"

type Result struct {
	Side          int
	Paths         []string
	Bits          []dhash.Bits
	Digests       []string
	DifferingRows []int
}

// Identical reports whether every image produced the same fingerprint.
func (r *Result) Identical() bool {
	return len(r.DifferingRows) == 0
}

// Row returns row r of image i as 0/1 characters.
func (r *Result) Row(i, row int) string {
	s := r.Bits[i].String()
	return s[row*r.Side : (row+1)*r.Side]
}
