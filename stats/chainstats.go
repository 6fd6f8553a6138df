// Package stats computes the post-run chain diagnostics: mode, mean,
// median, variance, RMS, covariance, correlation, Cholesky, autocorrelation
// (and autocorrelation time), acceptance rate, confidence interval, and,
// across chains, the Gelman-Rubin statistic.
package stats

import (
	"log"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/linalg"
)

// autocorrConvergenceThreshold and autocorrConvergenceRun are the
// empirically tuned cutoffs for truncating the autocorrelation-time sum:
// the series stops once the infinity norm of rho(lag) drops below the
// threshold for this many consecutive lags.
const (
	autocorrConvergenceThreshold = 0.01
	autocorrConvergenceRun       = 3
)

// ChainStatistics wraps a single chain with a selected window
// [startIndex, endIndex) and lazily computes and caches the quantities
// derived from it. It never owns the chain; the embedding Algorithm does.
type ChainStatistics struct {
	chain *vmcmc.Chain
	start int
	end   int // exclusive

	logger *log.Logger

	cache statsCache
}

type statsCache struct {
	valid       bool
	mean        linalg.Vector
	variance    linalg.Vector
	rms         linalg.Vector
	covariance  *linalg.SymmetricMatrix
	correlation *linalg.SymmetricMatrix
	cholesky    *linalg.LowerTriangular
	mode        *vmcmc.Sample
}

// New returns a ChainStatistics over the full window of chain.
func New(chain *vmcmc.Chain, logger *log.Logger) *ChainStatistics {
	if logger == nil {
		logger = log.Default()
	}
	cs := &ChainStatistics{chain: chain, logger: logger}
	cs.SelectRange(0, -1)
	return cs
}

// Len returns the number of samples in the selected window.
func (cs *ChainStatistics) Len() int {
	return cs.end - cs.start
}

// Dims returns the parameter dimensionality, 0 for an empty chain.
func (cs *ChainStatistics) Dims() int {
	if cs.chain.Len() == 0 {
		return 0
	}
	return len(cs.chain.At(0).Values)
}

// resolveIndex turns a possibly-negative index (counting from the tail,
// -1 == end of chain) into an absolute chain index.
func (cs *ChainStatistics) resolveIndex(i int) int {
	n := cs.chain.Len()
	if i < 0 {
		i = n + i + 1
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}

// SelectRange adjusts the selected window to [start, end), invalidating
// the cache. Negative indices count from the tail (-1 == end of chain).
func (cs *ChainStatistics) SelectRange(start, end int) {
	cs.start = cs.resolveIndex(start)
	cs.end = cs.resolveIndex(end)
	if cs.end < cs.start {
		cs.end = cs.start
	}
	cs.cache = statsCache{}
}

// SelectPercentageRange adjusts the selected window to the [p0, p1]
// fraction (each in [0,1]) of the full chain length.
func (cs *ChainStatistics) SelectPercentageRange(p0, p1 float64) {
	n := cs.chain.Len()
	cs.SelectRange(int(p0*float64(n)), int(p1*float64(n)))
}

func (cs *ChainStatistics) window() []*vmcmc.Sample {
	return cs.chain.Samples()[cs.start:cs.end]
}

func (cs *ChainStatistics) column(p int) []float64 {
	w := cs.window()
	col := make([]float64, len(w))
	for i, s := range w {
		col[i] = s.Values[p]
	}
	return col
}

func (cs *ChainStatistics) ensureMeanVarianceRMS() {
	if cs.cache.valid {
		return
	}
	dims := cs.Dims()
	cs.cache.mean = make(linalg.Vector, dims)
	cs.cache.variance = make(linalg.Vector, dims)
	cs.cache.rms = make(linalg.Vector, dims)
	for p := 0; p < dims; p++ {
		col := cs.column(p)
		if len(col) == 0 {
			continue
		}
		cs.cache.mean[p] = stat.Mean(col, nil)
		if len(col) > 1 {
			cs.cache.variance[p] = stat.Variance(col, nil)
		}
		var sumSq float64
		for _, v := range col {
			sumSq += v * v
		}
		cs.cache.rms[p] = math.Sqrt(sumSq / float64(len(col)))
	}
	cs.cache.valid = true
}

// Mean returns the per-parameter mean over the selected window, the zero
// vector for an empty window.
func (cs *ChainStatistics) Mean() linalg.Vector {
	cs.ensureMeanVarianceRMS()
	return cs.cache.mean
}

// Variance returns the per-parameter sample variance (N-1 denominator)
// over the selected window, the zero vector for an empty window.
func (cs *ChainStatistics) Variance() linalg.Vector {
	cs.ensureMeanVarianceRMS()
	return cs.cache.variance
}

// Error returns the per-parameter standard error (sqrt(variance)).
func (cs *ChainStatistics) Error() linalg.Vector {
	v := cs.Variance()
	e := make(linalg.Vector, len(v))
	for i, vi := range v {
		e[i] = math.Sqrt(vi)
	}
	return e
}

// RMS returns the per-parameter root-mean-square over the selected
// window, the zero vector for an empty window.
func (cs *ChainStatistics) RMS() linalg.Vector {
	cs.ensureMeanVarianceRMS()
	return cs.cache.rms
}

// Mode returns the windowed sample minimizing NegLogLikelihood, or nil
// for an empty window.
func (cs *ChainStatistics) Mode() *vmcmc.Sample {
	if cs.cache.mode != nil {
		return cs.cache.mode
	}
	w := cs.window()
	if len(w) == 0 {
		return nil
	}
	best := w[0]
	for _, s := range w[1:] {
		if s.NegLogLikelihood < best.NegLogLikelihood {
			best = s
		}
	}
	cs.cache.mode = best
	return best
}

// Median returns the median of parameter p over the selected window
// (0 for an empty window).
func (cs *ChainStatistics) Median(p int) float64 {
	col := cs.column(p)
	if len(col) == 0 {
		return 0
	}
	sorted := append([]float64(nil), col...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func (cs *ChainStatistics) ensureCovariance() {
	if cs.cache.covariance != nil {
		return
	}
	dims := cs.Dims()
	cov := linalg.NewSymmetricMatrix(dims)
	if cs.Len() > 1 {
		mean := cs.Mean()
		for i := 0; i < dims; i++ {
			ci := cs.column(i)
			for j := 0; j <= i; j++ {
				cj := cs.column(j)
				var sum float64
				for k := range ci {
					sum += (ci[k] - mean[i]) * (cj[k] - mean[j])
				}
				cov.SetSym(i, j, sum/float64(cs.Len()-1))
			}
		}
	}
	cs.cache.covariance = cov
}

// Covariance returns the windowed sample covariance matrix (lower
// triangle populated symmetrically), the zero matrix for a window of
// fewer than 2 samples.
func (cs *ChainStatistics) Covariance() *linalg.SymmetricMatrix {
	cs.ensureCovariance()
	return cs.cache.covariance
}

// Correlation returns the windowed sample correlation matrix (unit
// diagonal), the zero matrix for a window of fewer than 2 samples.
func (cs *ChainStatistics) Correlation() *linalg.SymmetricMatrix {
	if cs.cache.correlation != nil {
		return cs.cache.correlation
	}
	cov := cs.Covariance()
	errs := cs.Error()
	dims := cs.Dims()
	corr := linalg.NewSymmetricMatrix(dims)
	for i := 0; i < dims; i++ {
		for j := 0; j <= i; j++ {
			if i == j {
				if errs[i] > 0 {
					corr.SetSym(i, j, 1)
				}
				continue
			}
			if errs[i] == 0 || errs[j] == 0 {
				continue
			}
			corr.SetSym(i, j, cov.At(i, j)/(errs[i]*errs[j]))
		}
	}
	cs.cache.correlation = corr
	return corr
}

// Cholesky returns the lower Cholesky factor of the windowed covariance
// matrix. On decomposition failure it logs a warning and returns the zero
// matrix, rather than halting the caller.
func (cs *ChainStatistics) Cholesky() *linalg.LowerTriangular {
	if cs.cache.cholesky != nil {
		return cs.cache.cholesky
	}
	l, failedRow := linalg.Cholesky(cs.Covariance())
	if failedRow != 0 {
		cs.logger.Printf("stats: covariance Cholesky decomposition failed at row %d, returning zero matrix", failedRow-1)
		l = linalg.NewLowerTriangular(cs.Dims())
	}
	cs.cache.cholesky = l
	return l
}

// Autocorrelation returns rho(lag) per parameter over the selected
// window.
func (cs *ChainStatistics) Autocorrelation(lag int) linalg.Vector {
	dims := cs.Dims()
	rho := make(linalg.Vector, dims)
	n := cs.Len()
	if lag >= n {
		return rho
	}
	mean := cs.Mean()
	variance := cs.Variance()
	for p := 0; p < dims; p++ {
		if variance[p] == 0 {
			continue
		}
		col := cs.column(p)
		var sum float64
		for t := 0; t < n-lag; t++ {
			sum += (col[t] - mean[p]) * (col[t+lag] - mean[p])
		}
		rho[p] = sum / (float64(n-lag) * variance[p])
	}
	return rho
}

// AutocorrelationTime returns 1 + 2*sum_{lag=1..} rho(lag) per parameter,
// truncating the sum once the infinity norm of rho(lag) drops below
// autocorrConvergenceThreshold for autocorrConvergenceRun consecutive
// lags, or once lag reaches the window length.
func (cs *ChainStatistics) AutocorrelationTime() linalg.Vector {
	dims := cs.Dims()
	tau := make(linalg.Vector, dims)
	for p := range tau {
		tau[p] = 1
	}
	n := cs.Len()
	belowRun := 0
	for lag := 1; lag < n; lag++ {
		rho := cs.Autocorrelation(lag)
		for p, r := range rho {
			tau[p] += 2 * r
		}
		if rho.InfNorm() < autocorrConvergenceThreshold {
			belowRun++
			if belowRun >= autocorrConvergenceRun {
				break
			}
		} else {
			belowRun = 0
		}
	}
	return tau
}

// AcceptanceRate returns the fraction of windowed samples, excluding the
// first, with Accepted == true. 0 for an empty or single-sample window.
func (cs *ChainStatistics) AcceptanceRate() float64 {
	w := cs.window()
	if len(w) <= 1 {
		return 0
	}
	var accepted int
	for _, s := range w[1:] {
		if s.Accepted {
			accepted++
		}
	}
	return float64(accepted) / float64(len(w)-1)
}

// ConfidenceInterval sorts the windowed samples by parameter p, starts at
// the sample whose parameter-p value equals center (the middle one by
// position if several tie on center, else the one nearest center), and
// extends alternately one slot left and one slot right (stopping at either
// end) until floor(N*level) samples are gathered. It returns the smallest
// and largest parameter-p values of that run.
func (cs *ChainStatistics) ConfidenceInterval(p int, center, level float64) (left, right float64) {
	col := cs.column(p)
	n := len(col)
	if n == 0 {
		return 0, 0
	}
	type indexed struct {
		v   float64
		idx int
	}
	sorted := make([]indexed, n)
	for i, v := range col {
		sorted[i] = indexed{v, i}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].v < sorted[j].v })

	centerPos := -1
	var matches []int
	for i, s := range sorted {
		if s.v == center {
			matches = append(matches, i)
		}
	}
	if len(matches) > 0 {
		centerPos = matches[len(matches)/2]
	} else {
		// Fall back to the position nearest center.
		best := 0
		bestDist := math.Inf(1)
		for i, s := range sorted {
			d := math.Abs(s.v - center)
			if d < bestDist {
				bestDist, best = d, i
			}
		}
		centerPos = best
	}

	target := int(float64(n) * level)
	lo, hi := centerPos, centerPos
	gathered := 1
	for gathered < target && (lo > 0 || hi < n-1) {
		if lo > 0 {
			lo--
			gathered++
		}
		if gathered >= target {
			break
		}
		if hi < n-1 {
			hi++
			gathered++
		}
	}
	return sorted[lo].v, sorted[hi].v
}
