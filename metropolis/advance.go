package metropolis

import (
	"math"
	"sync"

	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/rand"
	"github.com/mkleesiek/versatile-mcmc/stats"
)

// Advance implements vmcmc.Sampler: it advances every (chain set, beta)
// chain by nSteps steps. When multi-threading is enabled, every pair is
// an independent task touching only its own chain, parameter config
// clone, and proposal clone, joined by a WaitGroup barrier; the barrier
// is also the point at which each chain set's parallel-tempering swap is
// attempted, so swaps always see the post-advance state of every chain.
// With multi-threading disabled, pairs run sequentially in deterministic
// (chain set, beta) order.
func (s *Sampler) Advance(nSteps int) error {
	if nSteps <= 0 {
		return nil
	}
	if s.multiThreading {
		var wg sync.WaitGroup
		for _, cc := range s.chainConfigs {
			for b := range s.betas {
				wg.Add(1)
				go func(cc *ChainConfig, b int) {
					defer wg.Done()
					s.advanceChain(cc, b, nSteps)
				}(cc, b)
			}
		}
		wg.Wait()
	} else {
		for _, cc := range s.chainConfigs {
			for b := range s.betas {
				s.advanceChain(cc, b, nSteps)
			}
		}
	}

	for _, cc := range s.chainConfigs {
		s.maybeSwap(cc, nSteps)
	}
	return nil
}

// advanceChain runs nSteps of the Metropolis-Hastings step on a single
// tempered chain, exclusively owning cc.chains[b], cc.configs[b],
// cc.proposals[b], and cc.gens[b].
func (s *Sampler) advanceChain(cc *ChainConfig, b int, nSteps int) {
	chain := cc.chains[b]
	pc := cc.configs[b]
	prop := cc.proposals[b]
	gen := cc.gens[b]
	beta := s.betas[b]

	for step := 0; step < nSteps; step++ {
		prev := chain.Last()

		next := prev.Clone()
		next.IncrementGeneration()
		next.Reset()

		asymmetry := prop.Transition(prev, next, gen)
		pc.ReflectFromLimits(next.Values)

		var mhRatio float64
		if s.Algorithm.Evaluate(next) {
			mhRatio = asymmetry * next.Prior / prev.Prior *
				math.Exp(beta*(prev.NegLogLikelihood-next.NegLogLikelihood))
			if mhRatio > 1 {
				mhRatio = 1
			}
		}

		if gen.Bool(mhRatio) {
			next.Accepted = true
			chain.Append(next)
		} else {
			rejected := prev.Clone()
			rejected.IncrementGeneration()
			rejected.Accepted = false
			chain.Append(rejected)
		}
	}
}

// maybeSwap proposes one parallel-tempering swap for cc with probability
// nSteps/ptFrequency, clamped to [0,1].
func (s *Sampler) maybeSwap(cc *ChainConfig, nSteps int) {
	if cc.NumBetas() < 2 {
		return
	}
	p := float64(nSteps) / s.ptFrequency
	if p > 1 {
		p = 1
	} else if p < 0 {
		p = 0
	}
	gen := cc.gens[0]
	if !gen.Bool(p) {
		return
	}
	s.attemptSwap(cc, gen)
}

// attemptSwap picks a uniformly random adjacent beta pair (c, c+1) and
// swaps their last samples with MH-style acceptance probability
// min(1, exp(beta_c*(nll_c-nll_w) + beta_w*(nll_w-nll_c))).
func (s *Sampler) attemptSwap(cc *ChainConfig, gen *rand.Generator) {
	nBeta := cc.NumBetas()
	c := gen.UniformInt(0, nBeta-2)
	w := c + 1

	colderChain, warmerChain := cc.chains[c], cc.chains[w]
	colderSample, warmerSample := colderChain.Last(), warmerChain.Last()
	betaC, betaW := s.betas[c], s.betas[w]

	r := math.Exp(betaC*(colderSample.NegLogLikelihood-warmerSample.NegLogLikelihood) +
		betaW*(warmerSample.NegLogLikelihood-colderSample.NegLogLikelihood))
	if r > 1 {
		r = 1
	}

	cc.proposedSwaps[c]++
	if gen.Bool(r) {
		colderSamples := colderChain.Samples()
		warmerSamples := warmerChain.Samples()
		colderSamples[len(colderSamples)-1] = warmerSample
		warmerSamples[len(warmerSamples)-1] = colderSample
		cc.acceptedSwaps[c]++
	}
}

// Finalize implements vmcmc.Sampler: it computes ChainStatistics for
// every cold chain, logs mode/mean/median/variance/error/RMS/
// autocorrelation time/confidence interval per parameter, and the
// Gelman-Rubin statistic over the second half of each run.
func (s *Sampler) Finalize() error {
	names := s.Algorithm.ParameterConfig().Names()
	chainStats := make([]*stats.ChainStatistics, s.numberOfChains)
	for c := 0; c < s.numberOfChains; c++ {
		cs := stats.New(s.GetChain(c), s.logger)
		cs.SelectPercentageRange(0.5, 1.0)
		chainStats[c] = cs
	}

	for c, cs := range chainStats {
		mode := cs.Mode()
		mean := cs.Mean()
		variance := cs.Variance()
		errs := cs.Error()
		rms := cs.RMS()
		tau := cs.AutocorrelationTime()
		for p, name := range names {
			left, right := cs.ConfidenceInterval(p, mean[p], 0.68)
			s.logger.Printf(
				"metropolis: chain %d param %s: mode=%v mean=%v median=%v variance=%v error=%v rms=%v autocorrTime=%v CI68=[%v,%v]",
				c, name, modeValue(mode), mean[p], cs.Median(p), variance[p], errs[p], rms[p], tau[p], left, right)
		}
		s.logger.Printf("metropolis: chain %d acceptance rate = %v", c, cs.AcceptanceRate())
	}

	if len(chainStats) >= 2 {
		css := stats.NewChainSetStatistics(chainStats)
		s.logger.Printf("metropolis: Gelman-Rubin R-hat = %v", css.GelmanRubin())
	}
	return nil
}

func modeValue(mode *vmcmc.Sample) string {
	if mode == nil {
		return "<no samples>"
	}
	return mode.String()
}
