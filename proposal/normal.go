package proposal

import (
	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/linalg"
	"github.com/mkleesiek/versatile-mcmc/parameter"
	"github.com/mkleesiek/versatile-mcmc/rand"
)

// Normal is a multivariate-normal transition kernel: next = prev +
// MultivariateNormal(0, Sigma), driven by the parameter Config's Cholesky
// factor. It is symmetric, so Transition always returns 1.0.
type Normal struct {
	l *linalg.LowerTriangular
}

// NewNormal returns a Normal proposal with no cached Cholesky factor; call
// UpdateParameterConfig before Transition.
func NewNormal() *Normal {
	return &Normal{}
}

// Clone returns a deep copy sharing no state with the original.
func (p *Normal) Clone() Proposal {
	return &Normal{l: p.l.Clone()}
}

// UpdateParameterConfig caches pc's Cholesky factor.
func (p *Normal) UpdateParameterConfig(pc *parameter.Config) {
	p.l = pc.GetCholeskyDecomp()
}

// Transition draws next.Values = prev.Values + L*noise with noise ~
// N(0, I), and returns 1.0 (symmetric kernel).
func (p *Normal) Transition(prev, next *vmcmc.Sample, gen *rand.Generator) float64 {
	if p.l == nil {
		panic("proposal: Normal.UpdateParameterConfig was never called")
	}
	zero := make(linalg.Vector, p.l.Dim())
	step := gen.MultivariateNormal(zero, p.l)
	next.Values = prev.Values.Add(step)
	return 1.0
}
