package dctscale

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

// WalshTransform computes the orthonormal Walsh-Hadamard transform of in, in place.
// Coefficients are left in sequency order: index k holds the basis function
// with k sign changes. len(in) must be a power of two, otherwise in is left untouched.
func WalshTransform[T Float](in []T) {
	n := len(in)
	if isPow2(n) != true {
		return
	}
	walshForward(in, sequencyOrder(n))
}

// WalshInvert is the inverse of WalshTransform.
func WalshInvert[T Float](in []T) {
	n := len(in)
	if isPow2(n) != true {
		return
	}
	walshInverse(in, sequencyOrder(n))
}

func walshForward[T Float](in []T, order []int) {
	n := len(in)
	fwht(in, n)

	natural := make([]T, n)
	copy(natural, in)
	scale := T(1.0 / math.Sqrt(float64(n)))
	for w, h := range order {
		in[w] = natural[h] * scale
	}
}

func walshInverse[T Float](in []T, order []int) {
	n := len(in)

	natural := make([]T, n)
	for w, h := range order {
		natural[h] = in[w]
	}
	fwht(natural, n)

	scale := T(1.0 / math.Sqrt(float64(n)))
	for i, v := range natural {
		in[i] = v * scale
	}
}

func fwht[T Float](in []T, n int) {
	if n < 2 {
		return
	}

	half := n / 2

	fwht(in[:half], half)
	fwht(in[half:], half)

	for i := 0; i < half; i += 1 {
		a := in[i]
		b := in[i+half]
		in[i] = a + b
		in[i+half] = a - b
	}
}

// sequencyOrder maps sequency index w to the natural Hadamard row that holds it:
// bit reversal of the Gray code of w.
func sequencyOrder(n int) []int {
	width := bits.Len(uint(n)) - 1
	order := make([]int, n)
	for w := 0; w < n; w += 1 {
		gray := uint(w ^ (w >> 1))
		order[w] = int(bits.Reverse(gray) >> (bits.UintSize - width))
	}
	return order
}

func isPow2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Hadamard is the orthonormal separable Walsh-Hadamard transform of n x n
// blocks in sequency order. Its DC scaling matches DCT, so it can stand in
// for it in an Interpolator.
type Hadamard struct {
	n     int
	order []int
}

var _ BlockTransform = (*Hadamard)(nil)

func NewHadamard(n int) (*Hadamard, error) {
	if isPow2(n) != true {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "hadamard size %d is not a power of two", n)
	}
	return &Hadamard{n: n, order: sequencyOrder(n)}, nil
}

func (h *Hadamard) Size() int {
	return h.n
}

func (h *Hadamard) Forward(dst, src []float64) {
	h.apply(dst, src, walshForward[float64])
}

func (h *Hadamard) Inverse(dst, src []float64) {
	h.apply(dst, src, walshInverse[float64])
}

func (h *Hadamard) apply(dst, src []float64, fn func([]float64, []int)) {
	n := h.n
	copy(dst, src)
	for i := 0; i < n; i += 1 {
		fn(dst[i*n:(i+1)*n], h.order)
	}

	col := make([]float64, n)
	for j := 0; j < n; j += 1 {
		for i := 0; i < n; i += 1 {
			col[i] = dst[i*n+j]
		}
		fn(col, h.order)
		for i := 0; i < n; i += 1 {
			dst[i*n+j] = col[i]
		}
	}
}
