// Package linalg provides the small set of dense-vector and lower-triangular
// matrix operations the sampler core needs: element-wise arithmetic on
// parameter vectors and the Cholesky factorization of a covariance matrix.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a dense vector of real-valued parameter coordinates.
type Vector []float64

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// Add returns v + w element-wise. Panics if the lengths differ.
func (v Vector) Add(w Vector) Vector {
	if len(v) != len(w) {
		panic("linalg: length mismatch")
	}
	r := v.Clone()
	floats.Add(r, w)
	return r
}

// Sub returns v - w element-wise. Panics if the lengths differ.
func (v Vector) Sub(w Vector) Vector {
	if len(v) != len(w) {
		panic("linalg: length mismatch")
	}
	r := v.Clone()
	floats.Sub(r, w)
	return r
}

// Scale returns c*v.
func (v Vector) Scale(c float64) Vector {
	r := v.Clone()
	floats.Scale(c, r)
	return r
}

// InfNorm returns the infinity norm (max absolute element) of v, 0 for an
// empty vector.
func (v Vector) InfNorm() float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, math.Inf(1))
}

// Less reports whether v is element-wise strictly less than w. Panics if the
// lengths differ.
func (v Vector) Less(w Vector) bool {
	if len(v) != len(w) {
		panic("linalg: length mismatch")
	}
	for i := range v {
		if !(v[i] < w[i]) {
			return false
		}
	}
	return true
}
