package linalg

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestCholeskyRoundTrip(t *testing.T) {
	for _, test := range []struct {
		Name string
		A    [][]float64
	}{
		{
			Name: "Identity3",
			A: [][]float64{
				{1, 0, 0},
				{0, 1, 0},
				{0, 0, 1},
			},
		},
		{
			Name: "Correlated",
			A: [][]float64{
				{1, 0.7, 0},
				{0.7, 4, -1.5},
				{0, -1.5, 2.25},
			},
		},
	} {
		n := len(test.A)
		a := NewSymmetricMatrix(n)
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				a.SetSym(i, j, test.A[i][j])
			}
		}
		l, failed := Cholesky(a)
		if failed != 0 {
			t.Errorf("Case %s: Cholesky failed at row %d", test.Name, failed-1)
			continue
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var sum float64
				for k := 0; k < n; k++ {
					sum += l.At(i, k) * l.At(j, k)
				}
				if !scalar.EqualWithinAbs(sum, test.A[i][j], 1e-9) {
					t.Errorf("Case %s: L*Lt[%d,%d] = %v, want %v", test.Name, i, j, sum, test.A[i][j])
				}
			}
		}
	}
}

func TestCholeskyFailure(t *testing.T) {
	a := NewSymmetricMatrix(2)
	a.SetSym(0, 0, 1)
	a.SetSym(1, 0, 2)
	a.SetSym(1, 1, 1) // not positive definite: pivot at row 1 is 1 - 4 < 0
	_, failed := Cholesky(a)
	if failed == 0 {
		t.Errorf("expected Cholesky failure on non-positive-definite matrix")
	}
}

func TestVectorArithmetic(t *testing.T) {
	v := Vector{1, 2, 3}
	w := Vector{1, 1, 1}
	if got := v.Add(w); !floats.Equal(got, []float64{2, 3, 4}) {
		t.Errorf("Add: got %v", got)
	}
	if got := v.Sub(w); !floats.Equal(got, []float64{0, 1, 2}) {
		t.Errorf("Sub: got %v", got)
	}
	if got := v.Scale(2); !floats.Equal(got, []float64{2, 4, 6}) {
		t.Errorf("Scale: got %v", got)
	}
	if got := (Vector{-1, 2, -5}).InfNorm(); got != 5 {
		t.Errorf("InfNorm: got %v, want 5", got)
	}
}

func TestDiagFallback(t *testing.T) {
	l := Diag([]float64{1, 2, 3})
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = float64(i + 1)
			}
			if l.At(i, j) != want {
				t.Errorf("Diag[%d,%d] = %v, want %v", i, j, l.At(i, j), want)
			}
		}
	}
}
