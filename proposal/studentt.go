package proposal

import (
	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/linalg"
	"github.com/mkleesiek/versatile-mcmc/parameter"
	"github.com/mkleesiek/versatile-mcmc/rand"
)

// StudentT is a multivariate Student-T(Nu) transition kernel, same shape
// as Normal but with heavier-tailed noise. It is symmetric, so Transition
// always returns 1.0.
type StudentT struct {
	Nu float64
	l  *linalg.LowerTriangular
}

// NewStudentT returns a StudentT proposal with nu degrees of freedom and
// no cached Cholesky factor; call UpdateParameterConfig before Transition.
func NewStudentT(nu float64) *StudentT {
	if nu <= 0 {
		panic("proposal: StudentT requires nu > 0")
	}
	return &StudentT{Nu: nu}
}

// Clone returns a deep copy sharing no state with the original.
func (p *StudentT) Clone() Proposal {
	return &StudentT{Nu: p.Nu, l: p.l.Clone()}
}

// UpdateParameterConfig caches pc's Cholesky factor.
func (p *StudentT) UpdateParameterConfig(pc *parameter.Config) {
	p.l = pc.GetCholeskyDecomp()
}

// Transition draws next.Values = prev.Values + L*noise with noise i.i.d.
// Student-T(Nu), and returns 1.0 (symmetric kernel).
func (p *StudentT) Transition(prev, next *vmcmc.Sample, gen *rand.Generator) float64 {
	if p.l == nil {
		panic("proposal: StudentT.UpdateParameterConfig was never called")
	}
	zero := make(linalg.Vector, p.l.Dim())
	step := gen.MultivariateStudentT(p.Nu, zero, p.l)
	next.Values = prev.Values.Add(step)
	return 1.0
}
