package linalgs

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// LeastSquares solves min_x ||Ax - b||^2 for this map via QR on the
// materialized matrix.
func (m *Map) LeastSquares(b *mat.VecDense) (*mat.VecDense, error) {
	if b.Len() != m.dimOut {
		return nil, fmt.Errorf("%w: observation of length %d for %s", ErrShape, b.Len(), m)
	}
	var qr mat.QR
	qr.Factorize(m.Dense())
	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err != nil {
		return nil, fmt.Errorf("linalgs: least squares: %w", err)
	}
	return &x, nil
}

// Eigs computes the k eigenvalue/eigenvector pairs of largest magnitude of
// this operator. Vectors are returned column-wise as complex slices.
func (m *Map) Eigs(k int) ([]complex128, [][]complex128, error) {
	if !m.IsOperator() {
		return nil, nil, fmt.Errorf("%w: eigs of %s", ErrNotOperator, m)
	}
	if k < 1 || k > m.dimIn {
		return nil, nil, fmt.Errorf("%w: %d pairs from %s", ErrShape, k, m)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m.Dense(), mat.EigenRight); !ok {
		return nil, nil, fmt.Errorf("linalgs: eigendecomposition failed for %s", m)
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ma := real(values[a])*real(values[a]) + imag(values[a])*imag(values[a])
		mb := real(values[b])*real(values[b]) + imag(values[b])*imag(values[b])
		switch {
		case ma > mb:
			return -1
		case ma < mb:
			return 1
		}
		return 0
	})

	retValues := make([]complex128, k)
	retVectors := make([][]complex128, k)
	for i := range k {
		idx := order[i]
		retValues[i] = values[idx]
		column := make([]complex128, m.dimIn)
		for row := range m.dimIn {
			column[row] = vectors.At(row, idx)
		}
		retVectors[i] = column
	}
	return retValues, retVectors, nil
}
