package reservoir

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// matrixInverse inverts a, trying a Cholesky factorisation first and
// falling back to LU for matrices that are not positive definite.
func matrixInverse(a *mat.Dense) (*mat.Dense, error) {
	n, c := a.Dims()
	if n != c {
		return nil, errors.New("matrix is not square")
	}
	if isSymmetric(a) {
		sym := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				sym.SetSym(i, j, a.At(i, j))
			}
		}
		var chol mat.Cholesky
		if chol.Factorize(sym) {
			var inv mat.SymDense
			if err := chol.InverseTo(&inv); err == nil {
				return mat.DenseCopyOf(&inv), nil
			}
		}
	}

	var ia mat.Dense
	if err := ia.Inverse(a); err != nil {
		return nil, err
	}
	return &ia, nil
}

func matrixDiag(v float64, n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, v)
	}
	return d
}

func isSymmetric(a *mat.Dense) bool {
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if a.At(i, j) != a.At(j, i) {
				return false
			}
		}
	}
	return true
}
