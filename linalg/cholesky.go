package linalg

import "math"

// Cholesky computes the lower-triangular factor L of the symmetric
// positive-definite matrix A such that A = L*Lᵀ, reading only the lower
// triangle of A.
//
// It implements the classical column (Cholesky–Crout) algorithm: for
// each column k, the diagonal pivot q = A_kk - sum_{j<k} L_kj^2 must be
// strictly positive. If it is not, the decomposition has failed at row k
// and Cholesky returns (L, 1+k), where L is the partially filled matrix
// computed so far and should be discarded by the caller in favor of a
// degraded fallback (see Diag).
func Cholesky(a *SymmetricMatrix) (l *LowerTriangular, failedRow int) {
	n := a.Dim()
	l = NewLowerTriangular(n)
	for k := 0; k < n; k++ {
		var sum float64
		for j := 0; j < k; j++ {
			sum += l.At(k, j) * l.At(k, j)
		}
		q := a.At(k, k) - sum
		if q <= 0 {
			return l, 1 + k
		}
		lkk := math.Sqrt(q)
		l.Set(k, k, lkk)
		for i := k + 1; i < n; i++ {
			var s float64
			for j := 0; j < k; j++ {
				s += l.At(i, j) * l.At(k, j)
			}
			l.Set(i, k, (a.At(i, k)-s)/lkk)
		}
	}
	return l, 0
}
