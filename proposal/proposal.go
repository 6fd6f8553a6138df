// Package proposal implements the transition kernels the Metropolis core
// draws candidate points from: multivariate normal and multivariate
// Student-T, both driven by a parameter Config's Cholesky factor.
package proposal

import (
	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/parameter"
	"github.com/mkleesiek/versatile-mcmc/rand"
)

// Proposal is the transition-kernel contract. Transition writes the
// candidate point into next.Values given the current point prev, and
// returns the Metropolis-Hastings asymmetry ratio q(prev|next)/q(next|prev)
// (1.0 for symmetric kernels). Proposals MUST NOT apply limit reflection
// themselves; that is the sampler's responsibility.
type Proposal interface {
	// Clone returns a deep, independent copy, used to give each tempered
	// chain its own cached Cholesky factor.
	Clone() Proposal
	// UpdateParameterConfig caches the Cholesky factor of pc's covariance
	// for use by Transition.
	UpdateParameterConfig(pc *parameter.Config)
	// Transition draws next.Values given prev and the generator gen, and
	// returns the asymmetry ratio.
	Transition(prev, next *vmcmc.Sample, gen *rand.Generator) float64
}
