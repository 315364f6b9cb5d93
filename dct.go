package dctscale

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DCT is the orthonormal 2D Type-II DCT of n x n blocks.
//
// The 1D basis (scipy norm='ortho'):
//
//	C[k][i] = scale(k) * cos(pi * k * (2i+1) / (2n))
//	scale(0) = sqrt(1/n), scale(k>0) = sqrt(2/n)
//
// Forward applies C along every row and then every column (C X C^T);
// Inverse is the Type-III DCT (C^T Y C).
type DCT struct {
	n     int
	basis *mat.Dense
}

var _ BlockTransform = (*DCT)(nil)

func NewDCT(n int) (*DCT, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "dct size %d", n)
	}

	data := make([]float64, n*n)
	scale0 := math.Sqrt(1.0 / float64(n))
	scaleK := math.Sqrt(2.0 / float64(n))
	for k := 0; k < n; k += 1 {
		scale := scaleK
		if k == 0 {
			scale = scale0
		}
		for i := 0; i < n; i += 1 {
			data[k*n+i] = scale * math.Cos(math.Pi*float64(k)*float64(2*i+1)/(2.0*float64(n)))
		}
	}
	return &DCT{n: n, basis: mat.NewDense(n, n, data)}, nil
}

func (d *DCT) Size() int {
	return d.n
}

// Forward writes the DCT-II coefficients of the row-major block src into dst.
func (d *DCT) Forward(dst, src []float64) {
	x := mat.NewDense(d.n, d.n, src)

	var rows mat.Dense
	rows.Mul(x, d.basis.T())

	out := mat.NewDense(d.n, d.n, dst)
	out.Mul(d.basis, &rows)
}

// Inverse writes the samples reconstructed from the row-major coefficients src into dst.
func (d *DCT) Inverse(dst, src []float64) {
	y := mat.NewDense(d.n, d.n, src)

	var cols mat.Dense
	cols.Mul(d.basis.T(), y)

	out := mat.NewDense(d.n, d.n, dst)
	out.Mul(&cols, d.basis)
}
