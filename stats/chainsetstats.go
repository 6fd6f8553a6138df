package stats

import "github.com/mkleesiek/versatile-mcmc/linalg"

// ChainSetStatistics aggregates a list of ChainStatistics, one per chain
// of a parallel run, and computes cross-chain diagnostics (Gelman-Rubin).
type ChainSetStatistics struct {
	Chains []*ChainStatistics
}

// NewChainSetStatistics wraps chains for cross-chain diagnostics.
func NewChainSetStatistics(chains []*ChainStatistics) *ChainSetStatistics {
	return &ChainSetStatistics{Chains: chains}
}

// GelmanRubin returns the potential-scale-reduction statistic R-hat,
// maximized over parameters, across the wrapped chains. It requires at
// least 2 chains, each with a windowed length of at least 10 samples;
// otherwise it returns 0 without touching any chain's cache.
func (css *ChainSetStatistics) GelmanRubin() float64 {
	m := len(css.Chains)
	if m < 2 {
		return 0
	}
	for _, cs := range css.Chains {
		if cs.Len() < 10 {
			return 0
		}
	}
	dims := css.Chains[0].Dims()
	n := css.Chains[0].Len()

	means := make([]linalg.Vector, m)
	variances := make([]linalg.Vector, m)
	for i, cs := range css.Chains {
		means[i] = cs.Mean()
		variances[i] = cs.Variance()
	}

	var maxR float64
	for p := 0; p < dims; p++ {
		var grandMean float64
		for i := 0; i < m; i++ {
			grandMean += means[i][p]
		}
		grandMean /= float64(m)

		var b, w float64
		for i := 0; i < m; i++ {
			d := means[i][p] - grandMean
			b += d * d
			w += variances[i][p]
		}
		b /= float64(m - 1)
		w /= float64(m)

		v := (float64(n-1)/float64(n))*w + b + b/float64(m)
		if w == 0 {
			continue
		}
		r := v / w
		if r > maxR {
			maxR = r
		}
	}
	return maxR
}
