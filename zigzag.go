package dctscale

import (
	"sync"

	"github.com/pkg/errors"
)

// ScanRank returns the position of (i, j) in the zigzag scan of an n x n grid.
//
// Diagonals are visited by increasing i+j. Positions below the anti-diagonal
// take the rank of their 180 degree rotation counted from the end; on the
// remaining diagonals the count of all earlier positions is a triangular
// number, and the walk goes down odd diagonals and up even ones.
//
// ScanRank returns -1 unless 0 <= i < n and 0 <= j < n.
func ScanRank(i, j, n int) int {
	if i < 0 || j < 0 || n <= i || n <= j {
		return -1
	}
	return scanRank(i, j, n)
}

func scanRank(i, j, n int) int {
	if i+j >= n {
		return n*n - 1 - scanRank(n-1-i, n-1-j, n)
	}
	d := i + j
	k := d * (d + 1) / 2
	if d&1 == 1 {
		return k + i
	}
	return k + j
}

// ScanIndex holds the scan permutation of an n x n grid.
// A ScanIndex is immutable and shared; see NewScanIndex.
type ScanIndex struct {
	n       int
	forward []int // row-major position -> scan rank
	inverse []int // scan rank -> row-major position
}

var scanIndexCache sync.Map // int -> *ScanIndex

// NewScanIndex returns the scan permutation for side length n, building it on first use.
func NewScanIndex(n int) (*ScanIndex, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "zigzag size %d", n)
	}
	if z, ok := scanIndexCache.Load(n); ok {
		return z.(*ScanIndex), nil
	}
	z, _ := scanIndexCache.LoadOrStore(n, buildScanIndex(n))
	return z.(*ScanIndex), nil
}

func buildScanIndex(n int) *ScanIndex {
	forward := make([]int, n*n)
	inverse := make([]int, n*n)
	for i := 0; i < n; i += 1 {
		for j := 0; j < n; j += 1 {
			p := i*n + j
			r := scanRank(i, j, n)
			forward[p] = r
			inverse[r] = p
		}
	}
	return &ScanIndex{n: n, forward: forward, inverse: inverse}
}

func (z *ScanIndex) Size() int {
	return z.n
}

// ForwardPermutation returns, for each row-major position p = i*n+j, its scan rank.
func (z *ScanIndex) ForwardPermutation() []int {
	return append([]int(nil), z.forward...)
}

// InversePermutation returns, for each scan rank, its row-major position.
func (z *ScanIndex) InversePermutation() []int {
	return append([]int(nil), z.inverse...)
}

// ToScanOrder reorders a row-major block src into scan order.
func (z *ScanIndex) ToScanOrder(dst, src []float64) error {
	if err := z.checkLen(dst, src); err != nil {
		return errors.WithStack(err)
	}
	for r, p := range z.inverse {
		dst[r] = src[p]
	}
	return nil
}

// FromScanOrder places a scan ordered vector src back into row-major order.
func (z *ScanIndex) FromScanOrder(dst, src []float64) error {
	if err := z.checkLen(dst, src); err != nil {
		return errors.WithStack(err)
	}
	for p, r := range z.forward {
		dst[p] = src[r]
	}
	return nil
}

func (z *ScanIndex) checkLen(dst, src []float64) error {
	size := z.n * z.n
	if len(src) != size || len(dst) != size {
		return errors.Wrapf(ErrShapeMismatch, "zigzag %dx%d: src=%d dst=%d", z.n, z.n, len(src), len(dst))
	}
	return nil
}

// Zigzag flattens a square matrix into scan order. It returns nil when matrix is not square.
func Zigzag[T Real](matrix [][]T) []T {
	n := len(matrix)
	if n < 1 {
		return nil
	}
	for _, row := range matrix {
		if len(row) != n {
			return nil
		}
	}
	z, _ := NewScanIndex(n)

	result := make([]T, n*n)
	for r, p := range z.inverse {
		result[r] = matrix[p/n][p%n]
	}
	return result
}

// Unzigzag is the inverse of Zigzag. It returns nil when len(data) != stride*stride.
func Unzigzag[T Real](data []T, stride int) [][]T {
	if stride < 1 || len(data) != stride*stride {
		return nil
	}
	z, _ := NewScanIndex(stride)

	result := make([][]T, stride)
	for i := 0; i < stride; i += 1 {
		result[i] = make([]T, stride)
		for j := 0; j < stride; j += 1 {
			result[i][j] = data[z.forward[i*stride+j]]
		}
	}
	return result
}
