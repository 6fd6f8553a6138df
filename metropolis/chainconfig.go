package metropolis

import (
	"math"

	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/parameter"
	"github.com/mkleesiek/versatile-mcmc/proposal"
	"github.com/mkleesiek/versatile-mcmc/rand"
)

// ChainConfig is one logical chain slot expanded into one tempered Chain,
// rescaled parameter.Config, and cloned proposal.Proposal per beta, plus
// the per-adjacent-pair parallel-tempering swap counters.
type ChainConfig struct {
	chains    []*vmcmc.Chain
	configs   []*parameter.Config
	proposals []proposal.Proposal
	gens      []*rand.Generator

	proposedSwaps []int
	acceptedSwaps []int
}

func newChainConfig(betas []float64, basePC *parameter.Config, protoProposal proposal.Proposal) *ChainConfig {
	nBeta := len(betas)
	cc := &ChainConfig{
		chains:        make([]*vmcmc.Chain, nBeta),
		configs:       make([]*parameter.Config, nBeta),
		proposals:     make([]proposal.Proposal, nBeta),
		gens:          make([]*rand.Generator, nBeta),
		proposedSwaps: make([]int, nBeta-1),
		acceptedSwaps: make([]int, nBeta-1),
	}
	for b, beta := range betas {
		pc := basePC.Clone()
		if beta < 1 {
			// Hotter chain (beta < 1) => larger proposal spread: the
			// scaling is errorScaling/sqrt(beta).
			pc.SetErrorScaling(pc.ErrorScaling() / math.Sqrt(beta))
		}
		cc.chains[b] = vmcmc.NewChain()
		cc.configs[b] = pc
		prop := protoProposal.Clone()
		prop.UpdateParameterConfig(pc)
		cc.proposals[b] = prop
		cc.gens[b] = rand.New()
	}
	return cc
}

// Chain returns the tempered chain at beta-index b.
func (cc *ChainConfig) Chain(b int) *vmcmc.Chain { return cc.chains[b] }

// ColdChain returns the beta=1.0 chain (beta-index 0), the canonical
// sampled output of this chain set.
func (cc *ChainConfig) ColdChain() *vmcmc.Chain { return cc.chains[0] }

// NumBetas returns the number of tempered chains in this set.
func (cc *ChainConfig) NumBetas() int { return len(cc.chains) }

// SwapAcceptanceRate returns the acceptance rate of the adjacent pair
// (b, b+1). Returns 0 if no swaps have been proposed yet.
func (cc *ChainConfig) SwapAcceptanceRate(b int) float64 {
	if cc.proposedSwaps[b] == 0 {
		return 0
	}
	return float64(cc.acceptedSwaps[b]) / float64(cc.proposedSwaps[b])
}

// PooledSwapAcceptanceRate returns the acceptance rate across every
// adjacent pair of betas in this chain set.
func (cc *ChainConfig) PooledSwapAcceptanceRate() float64 {
	var proposed, accepted int
	for b := range cc.proposedSwaps {
		proposed += cc.proposedSwaps[b]
		accepted += cc.acceptedSwaps[b]
	}
	if proposed == 0 {
		return 0
	}
	return float64(accepted) / float64(proposed)
}
