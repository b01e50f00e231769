package linalgs

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape reports a vector or map whose dimensions do not fit the
	// operation.
	ErrShape = errors.New("linalgs: shape mismatch")

	// ErrNotOperator reports an operator-only method called on a map whose
	// domain and codomain differ.
	ErrNotOperator = errors.New("linalgs: not an operator")
)

// ApplyFunc linearly maps a vector to a vector.
type ApplyFunc func(v *mat.VecDense) *mat.VecDense

// Map is a generalized linear map from R^dimIn to R^dimOut, defined by an
// apply function and its adjoint. It satisfies f(a*x + b*y) = a*f(x) +
// b*f(y); nothing enforces that, callers must supply genuinely linear
// functions.
type Map struct {
	apply   ApplyFunc
	adjoint ApplyFunc
	dimIn   int
	dimOut  int

	// materialized dense form, built on demand
	dense func() *mat.Dense
}

// NewMap builds a linear map from an apply function and its adjoint. A nil
// adjoint is derived from the materialized matrix, which costs dimIn
// applications of apply the first time it is needed.
func NewMap(apply ApplyFunc, adjoint ApplyFunc, dimIn int, dimOut int) *Map {
	m := &Map{
		apply:  apply,
		dimIn:  dimIn,
		dimOut: dimOut,
	}
	m.dense = sync.OnceValue(m.materialize)
	if adjoint != nil {
		m.adjoint = adjoint
	} else {
		m.adjoint = func(v *mat.VecDense) *mat.VecDense {
			w := mat.NewVecDense(m.dimIn, nil)
			w.MulVec(m.dense().T(), v)
			return w
		}
	}
	return m
}

// FromDense builds a linear map from a dense matrix.
func FromDense(a *mat.Dense) *Map {
	rows, cols := a.Dims()
	return NewMap(
		func(v *mat.VecDense) *mat.VecDense {
			w := mat.NewVecDense(rows, nil)
			w.MulVec(a, v)
			return w
		},
		func(v *mat.VecDense) *mat.VecDense {
			w := mat.NewVecDense(cols, nil)
			w.MulVec(a.T(), v)
			return w
		},
		cols,
		rows,
	)
}

// Identity builds the identity operator on R^dim.
func Identity(dim int) *Map {
	id := func(v *mat.VecDense) *mat.VecDense {
		w := mat.NewVecDense(v.Len(), nil)
		w.CopyVec(v)
		return w
	}
	return NewMap(id, id, dim, dim)
}

// DimIn returns the dimension of the domain.
func (m *Map) DimIn() int {
	return m.dimIn
}

// DimOut returns the dimension of the codomain.
func (m *Map) DimOut() int {
	return m.dimOut
}

// IsOperator reports whether domain and codomain coincide.
func (m *Map) IsOperator() bool {
	return m.dimIn == m.dimOut
}

// Apply maps v to its image.
func (m *Map) Apply(v *mat.VecDense) (*mat.VecDense, error) {
	if v.Len() != m.dimIn {
		return nil, fmt.Errorf("%w: applying %s to vector of length %d", ErrShape, m, v.Len())
	}
	w := m.apply(v)
	if w.Len() != m.dimOut {
		return nil, fmt.Errorf("%w: %s produced vector of length %d", ErrShape, m, w.Len())
	}
	return w, nil
}

// Adjoint returns the adjoint map.
func (m *Map) Adjoint() *Map {
	return NewMap(m.adjoint, m.apply, m.dimOut, m.dimIn)
}

// Compose returns this map composed after b, mapping x to m(b(x)).
func (m *Map) Compose(b *Map) (*Map, error) {
	if b.dimOut != m.dimIn {
		return nil, fmt.Errorf("%w: composing %s after %s", ErrShape, m, b)
	}
	return NewMap(
		func(v *mat.VecDense) *mat.VecDense {
			return m.apply(b.apply(v))
		},
		func(v *mat.VecDense) *mat.VecDense {
			return b.adjoint(m.adjoint(v))
		},
		b.dimIn,
		m.dimOut,
	), nil
}

// Scale returns this map scaled by k.
func (m *Map) Scale(k float64) *Map {
	scale := func(apply ApplyFunc) ApplyFunc {
		return func(v *mat.VecDense) *mat.VecDense {
			w := apply(v)
			w.ScaleVec(k, w)
			return w
		}
	}
	return NewMap(scale(m.apply), scale(m.adjoint), m.dimIn, m.dimOut)
}

// Neg returns this map negated.
func (m *Map) Neg() *Map {
	return m.Scale(-1)
}

// Add returns the sum of this map and b.
func (m *Map) Add(b *Map) (*Map, error) {
	if m.dimIn != b.dimIn || m.dimOut != b.dimOut {
		return nil, fmt.Errorf("%w: adding %s and %s", ErrShape, m, b)
	}
	add := func(f, g ApplyFunc) ApplyFunc {
		return func(v *mat.VecDense) *mat.VecDense {
			w := f(v)
			w.AddVec(w, g(v))
			return w
		}
	}
	return NewMap(add(m.apply, b.apply), add(m.adjoint, b.adjoint), m.dimIn, m.dimOut), nil
}

// Sub returns the difference of this map and b.
func (m *Map) Sub(b *Map) (*Map, error) {
	return m.Add(b.Neg())
}

// Pow returns this operator repeated n times. n of zero gives the identity.
func (m *Map) Pow(n int) (*Map, error) {
	if !m.IsOperator() {
		return nil, fmt.Errorf("%w: pow of %s", ErrNotOperator, m)
	}
	ret := Identity(m.dimIn)
	for range n {
		composed, err := ret.Compose(m)
		if err != nil {
			return nil, err
		}
		ret = composed
	}
	return ret, nil
}

// Dense materializes this map by applying it to the standard basis. The
// result is cached.
func (m *Map) Dense() *mat.Dense {
	return m.dense()
}

func (m *Map) materialize() *mat.Dense {
	a := mat.NewDense(m.dimOut, m.dimIn, nil)
	for j := range m.dimIn {
		e := mat.NewVecDense(m.dimIn, nil)
		e.SetVec(j, 1)
		w := m.apply(e)
		for i := range m.dimOut {
			a.Set(i, j, w.AtVec(i))
		}
	}
	return a
}

func (m *Map) String() string {
	return fmt.Sprintf("<Map: %d -> %d>", m.dimIn, m.dimOut)
}
