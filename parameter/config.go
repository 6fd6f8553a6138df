package parameter

import (
	"fmt"
	"log"

	"github.com/mkleesiek/versatile-mcmc/linalg"
	"github.com/mkleesiek/versatile-mcmc/rand"
)

// Config is an ordered collection of Parameters sharing one global error
// scaling factor and one joint unit-lower-triangular correlation matrix.
// It is the source of the covariance matrix and Cholesky factor that the
// proposal kernels and randomized start points draw from.
type Config struct {
	params       []Parameter
	errorScaling float64
	correlation  [][]float64 // lower triangle only, correlation[i][j] for j < i
	logger       *log.Logger
}

// NewConfig returns an empty Config with errorScaling 1.0.
func NewConfig(logger *log.Logger) *Config {
	if logger == nil {
		logger = log.Default()
	}
	return &Config{errorScaling: 1, logger: logger}
}

// Add appends p, growing the correlation matrix to accommodate it.
// Correlations for the new parameter default to 0 with every existing one.
func (c *Config) Add(p Parameter) int {
	idx := len(c.params)
	c.params = append(c.params, p)
	c.correlation = append(c.correlation, make([]float64, idx))
	return idx
}

// Len returns the number of parameters.
func (c *Config) Len() int { return len(c.params) }

// Parameters returns the ordered parameter slice. Callers must not mutate
// it in place; use SetParameter to replace an entry.
func (c *Config) Parameters() []Parameter {
	return c.params
}

// Parameter returns the i-th parameter.
func (c *Config) Parameter(i int) Parameter {
	return c.params[i]
}

// SetParameter replaces the i-th parameter.
func (c *Config) SetParameter(i int, p Parameter) {
	c.params[i] = p
}

// ErrorScaling returns the global error-scaling factor.
func (c *Config) ErrorScaling() float64 { return c.errorScaling }

// SetErrorScaling sets the global error-scaling factor.
func (c *Config) SetErrorScaling(s float64) { c.errorScaling = s }

// SetCorrelation sets the correlation between parameters i and j, clamped
// to [-1, +1]. Arguments are canonicalized so i is always the larger
// index; setting i == j is a no-op (the diagonal is implicitly 1).
func (c *Config) SetCorrelation(i, j int, r float64) {
	if i == j {
		return
	}
	if j > i {
		i, j = j, i
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	c.correlation[i][j] = r
}

// GetCorrelationFactor returns the correlation between i and j. An
// out-of-range (i, j) logs a warning and returns 0 rather than panicking,
// mirroring the original implementation's tolerant accessor.
func (c *Config) GetCorrelationFactor(i, j int) float64 {
	if i == j {
		return 1
	}
	if j > i {
		i, j = j, i
	}
	if i < 0 || i >= len(c.params) || j < 0 {
		c.logger.Printf("parameter: correlation index (%d,%d) out of range", i, j)
		return 0
	}
	return c.correlation[i][j]
}

// errors returns the per-parameter scaled error vector E_i = errorScaling
// * absError_i.
func (c *Config) errors() linalg.Vector {
	e := make(linalg.Vector, len(c.params))
	for i, p := range c.params {
		e[i] = c.errorScaling * p.absError
	}
	return e
}

// GetCovarianceMatrix returns Sigma_ij = C_ij * E_i * E_j.
func (c *Config) GetCovarianceMatrix() *linalg.SymmetricMatrix {
	n := len(c.params)
	e := c.errors()
	sigma := linalg.NewSymmetricMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			corr := 1.0
			if i != j {
				corr = c.correlation[i][j]
			}
			sigma.SetSym(i, j, corr*e[i]*e[j])
		}
	}
	return sigma
}

// GetCholeskyDecomp returns the lower Cholesky factor of the covariance
// matrix. If the decomposition fails (non-positive pivot), it degrades
// gracefully to diag(E) and logs a warning; sampling continues with an
// uncorrelated proposal rather than aborting.
func (c *Config) GetCholeskyDecomp() *linalg.LowerTriangular {
	sigma := c.GetCovarianceMatrix()
	l, failedRow := linalg.Cholesky(sigma)
	if failedRow != 0 {
		c.logger.Printf("parameter: covariance Cholesky decomposition failed at row %d, degrading to diagonal errors", failedRow-1)
		return linalg.Diag(c.errors())
	}
	return l
}

// GetStartValues returns the start vector. When randomized is true, it
// instead draws one multivariate-normal sample centered on the starts
// with the joint covariance, then clamps the result to each parameter's
// limits.
func (c *Config) GetStartValues(randomized bool, gen *rand.Generator) linalg.Vector {
	starts := make(linalg.Vector, len(c.params))
	for i, p := range c.params {
		starts[i] = p.start
	}
	if !randomized {
		return starts
	}
	v := gen.MultivariateNormal(starts, c.GetCholeskyDecomp())
	c.ConstrainToLimits(v)
	return v
}

// ConstrainToLimits clamps every element of v into its parameter's limits,
// in place.
func (c *Config) ConstrainToLimits(v linalg.Vector) {
	c.checkLen(v)
	for i, p := range c.params {
		p.ConstrainToLimits(&v[i])
	}
}

// ReflectFromLimits applies Parameter.ReflectFromLimits element-wise,
// returning false if any element double-crossed its limits.
func (c *Config) ReflectFromLimits(v linalg.Vector) bool {
	c.checkLen(v)
	ok := true
	for i, p := range c.params {
		if !p.ReflectFromLimits(&v[i]) {
			ok = false
		}
	}
	return ok
}

// InsideLimits reports whether every element of v respects its
// parameter's limits.
func (c *Config) InsideLimits(v linalg.Vector) bool {
	c.checkLen(v)
	for i, p := range c.params {
		if !p.InsideLimits(v[i]) {
			return false
		}
	}
	return true
}

func (c *Config) checkLen(v linalg.Vector) {
	if len(v) != len(c.params) {
		panic(fmt.Sprintf("parameter: vector length %d does not match parameter count %d", len(v), len(c.params)))
	}
}

// Clone returns a deep copy of c, sharing no backing storage with the
// original.
func (c *Config) Clone() *Config {
	clone := &Config{
		params:       append([]Parameter(nil), c.params...),
		errorScaling: c.errorScaling,
		logger:       c.logger,
	}
	clone.correlation = make([][]float64, len(c.correlation))
	for i, row := range c.correlation {
		clone.correlation[i] = append([]float64(nil), row...)
	}
	return clone
}

// Names returns the parameter names in order, used by writers to build
// column headers.
func (c *Config) Names() []string {
	names := make([]string, len(c.params))
	for i, p := range c.params {
		names[i] = p.name
	}
	return names
}
