package linalg

// LowerTriangular is a dense n*n lower-triangular matrix stored row-major;
// entries above the diagonal are always zero and are never read or written
// by the methods below.
type LowerTriangular struct {
	n    int
	data []float64
}

// NewLowerTriangular allocates a zeroed n*n lower-triangular matrix.
func NewLowerTriangular(n int) *LowerTriangular {
	if n < 0 {
		panic("linalg: negative dimension")
	}
	return &LowerTriangular{n: n, data: make([]float64, n*n)}
}

// Dim returns the matrix dimension.
func (l *LowerTriangular) Dim() int {
	if l == nil {
		return 0
	}
	return l.n
}

// At returns L[i,j]. Returns 0 for j > i without panicking, matching the
// implicit zero above the diagonal.
func (l *LowerTriangular) At(i, j int) float64 {
	if j > i {
		return 0
	}
	return l.data[i*l.n+j]
}

// Set stores L[i,j] = v. Panics if j > i.
func (l *LowerTriangular) Set(i, j int, v float64) {
	if j > i {
		panic("linalg: write above lower-triangular diagonal")
	}
	l.data[i*l.n+j] = v
}

// MulVec returns L*x.
func (l *LowerTriangular) MulVec(x Vector) Vector {
	if len(x) != l.n {
		panic("linalg: length mismatch")
	}
	r := make(Vector, l.n)
	for i := 0; i < l.n; i++ {
		var sum float64
		for j := 0; j <= i; j++ {
			sum += l.At(i, j) * x[j]
		}
		r[i] = sum
	}
	return r
}

// Clone returns a deep copy of l.
func (l *LowerTriangular) Clone() *LowerTriangular {
	if l == nil {
		return nil
	}
	c := &LowerTriangular{n: l.n, data: make([]float64, len(l.data))}
	copy(c.data, l.data)
	return c
}

// Diag builds the lower-triangular matrix diag(d), used as the degraded
// fallback when a Cholesky decomposition fails.
func Diag(d []float64) *LowerTriangular {
	l := NewLowerTriangular(len(d))
	for i, v := range d {
		l.Set(i, i, v)
	}
	return l
}

// SymmetricMatrix is a dense symmetric n*n matrix; only the lower triangle
// is read by Cholesky.
type SymmetricMatrix struct {
	n    int
	data []float64
}

// NewSymmetricMatrix allocates a zeroed n*n symmetric matrix.
func NewSymmetricMatrix(n int) *SymmetricMatrix {
	if n < 0 {
		panic("linalg: negative dimension")
	}
	return &SymmetricMatrix{n: n, data: make([]float64, n*n)}
}

// Dim returns the matrix dimension.
func (s *SymmetricMatrix) Dim() int {
	if s == nil {
		return 0
	}
	return s.n
}

// At returns A[i,j], mirroring across the diagonal so callers may index in
// either order.
func (s *SymmetricMatrix) At(i, j int) float64 {
	if j > i {
		i, j = j, i
	}
	return s.data[i*s.n+j]
}

// SetSym stores A[i,j] = A[j,i] = v.
func (s *SymmetricMatrix) SetSym(i, j int, v float64) {
	if j > i {
		i, j = j, i
	}
	s.data[i*s.n+j] = v
}
