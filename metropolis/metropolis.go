// Package metropolis implements the Metropolis-Hastings sampler with
// parallel tempering: chain-set management, per-temperature chain
// advancement, the MH acceptance ratio, and the parallel-tempering swap
// protocol. Sampler embeds vmcmc.Algorithm and satisfies its Sampler hook
// interface.
package metropolis

import (
	"log"
	"sort"

	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/proposal"
)

const defaultPTFrequency = 200

// Sampler is the Metropolis-Hastings-with-parallel-tempering core. Embed
// vmcmc.Algorithm's setters (SetParameterConfig, SetLikelihood, ...)
// configure the target; Sampler's own setters configure tempering.
type Sampler struct {
	*vmcmc.Algorithm

	numberOfChains int
	betas          []float64
	ptFrequency    float64
	protoProposal  proposal.Proposal
	randomizeStart bool
	multiThreading bool

	chainConfigs []*ChainConfig

	logger *log.Logger
}

// New returns a Sampler with the defaults of §4.G: 1 chain, betas {1.0},
// ptFrequency 200, a multivariate-normal prototype proposal, multi-
// threading enabled.
func New() *Sampler {
	s := &Sampler{
		Algorithm:      vmcmc.NewAlgorithm(),
		numberOfChains: 1,
		betas:          []float64{1.0},
		ptFrequency:    defaultPTFrequency,
		protoProposal:  proposal.NewNormal(),
		multiThreading: true,
		logger:         log.Default(),
	}
	s.Algorithm.Bind(s)
	return s
}

// SetNumberOfChains sets the number of logical chain slots; each slot
// expands into one chain per beta. Minimum 1.
func (s *Sampler) SetNumberOfChains(n int) {
	if n < 1 {
		n = 1
	}
	s.numberOfChains = n
}

// SetBetas normalizes betas to {1.0} union {b : b < 1.0} (discarding any
// other value >= 1.0), sorts the result in strictly decreasing order, and
// adopts it as the tempering ladder. An empty result after normalization
// still yields {1.0}.
func (s *Sampler) SetBetas(betas []float64) {
	set := map[float64]struct{}{1.0: {}}
	for _, b := range betas {
		if b < 1.0 {
			set[b] = struct{}{}
		}
	}
	normalized := make([]float64, 0, len(set))
	for b := range set {
		normalized = append(normalized, b)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(normalized)))
	s.betas = normalized
}

// Betas returns the normalized, decreasing tempering ladder. Betas()[0]
// is always 1.0, the cold chain.
func (s *Sampler) Betas() []float64 {
	return s.betas
}

// SetPTFrequency sets the expected number of steps per parallel-tempering
// swap attempt, per chain set.
func (s *Sampler) SetPTFrequency(f float64) {
	s.ptFrequency = f
}

// SetProposalFunction sets the prototype proposal cloned into every
// tempered chain of every chain set.
func (s *Sampler) SetProposalFunction(p proposal.Proposal) {
	s.protoProposal = p
}

// SetRandomizeStartPoint toggles per-chain random start-point
// perturbation (drawn from the multivariate-normal start distribution).
func (s *Sampler) SetRandomizeStartPoint(randomize bool) {
	s.randomizeStart = randomize
}

// SetMultiThreading enables or disables concurrent chain advancement.
func (s *Sampler) SetMultiThreading(enabled bool) {
	s.multiThreading = enabled
}

// NumberOfChains implements vmcmc.Sampler: the number of cold chains
// exposed to writers and diagnostics, one per chain set.
func (s *Sampler) NumberOfChains() int {
	return s.numberOfChains
}

// GetChain implements vmcmc.Sampler: the cold (beta=1.0) chain of chain
// set c.
func (s *Sampler) GetChain(c int) *vmcmc.Chain {
	return s.chainConfigs[c].ColdChain()
}

// ChainConfig returns the c-th chain set, exposing its full tempered
// ladder and swap statistics.
func (s *Sampler) ChainConfig(c int) *ChainConfig {
	return s.chainConfigs[c]
}

// SwapAcceptanceRate returns the parallel-tempering swap acceptance rate
// of chain set iChainConfig. If iBeta >= 0, it is the rate for the
// adjacent pair (iBeta, iBeta+1); otherwise it is the pooled rate across
// every adjacent pair.
func (s *Sampler) SwapAcceptanceRate(iChainConfig, iBeta int) float64 {
	cc := s.chainConfigs[iChainConfig]
	if iBeta < 0 {
		return cc.PooledSwapAcceptanceRate()
	}
	return cc.SwapAcceptanceRate(iBeta)
}

// SamplerInitialize implements vmcmc.Sampler: constructs one ChainConfig
// per logical chain slot, seeding each tempered chain with a starting
// sample.
func (s *Sampler) SamplerInitialize() error {
	pc := s.Algorithm.ParameterConfig()
	s.chainConfigs = make([]*ChainConfig, s.numberOfChains)
	for c := 0; c < s.numberOfChains; c++ {
		cc := newChainConfig(s.betas, pc, s.protoProposal)
		start := pc.GetStartValues(s.randomizeStart, cc.gens[0])
		startSample := vmcmc.NewSample(start)
		s.Algorithm.Evaluate(startSample)
		startSample.Accepted = true
		for b := range s.betas {
			cc.chains[b].Append(startSample.Clone())
		}
		s.chainConfigs[c] = cc
	}
	return nil
}
