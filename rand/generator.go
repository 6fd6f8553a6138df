// Package rand implements the sampler's thread-local random source: a
// 32-bit Mersenne Twister engine (Engine, in engine.go) per worker, drawn
// from a process-wide atomic seed counter, plus the uniform/normal/
// Student-T/Poisson/discrete/multivariate draw primitives the proposal
// kernels and parameter model need.
package rand

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mkleesiek/versatile-mcmc/linalg"
)

// seedCounter is the process-wide, increment-on-read seed source described
// in the concurrency model: the only unavoidable piece of global mutable
// state in the package.
var seedCounter uint64

// Seed (re-)initializes the process-wide seed counter. Seed(0) draws a
// nondeterministic starting value from the wall clock; any other value is
// used verbatim, which is what makes Determinism (identical seed, single
// goroutine) reproducible end to end.
func Seed(s uint64) {
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	atomic.StoreUint64(&seedCounter, s)
}

// nextSeed returns the current counter value and atomically advances it,
// i.e. the "allocate on first use, seeded with the current counter value,
// then increment" rule of §4.A.
func nextSeed() uint64 {
	return atomic.AddUint64(&seedCounter, 1) - 1
}

func init() {
	Seed(0)
}

// Dist1D is a univariate distribution capable of producing i.i.d. draws,
// satisfied directly by gonum's distuv.Normal, distuv.StudentsT, etc.
type Dist1D interface {
	Rand() float64
}

// Generator is a single-owner pseudo-random draw source: exactly one
// Engine, never shared across goroutines without its own synchronization.
// Callers that dispatch per-(chainSet, beta) worker goroutines should
// construct one Generator per worker up front via New and keep it for that
// worker's lifetime; this is mode (a) of §5's two RNG operating modes.
type Generator struct {
	engine *Engine
}

// New allocates a Generator seeded from the next value of the process-wide
// seed counter.
func New() *Generator {
	return &Generator{engine: NewEngine(nextSeed())}
}

// NewFromSeed allocates a Generator seeded directly with seed, bypassing
// the process-wide counter. Used by tests that need a fixed, named seed.
func NewFromSeed(seed uint64) *Generator {
	return &Generator{engine: NewEngine(seed)}
}

// Source returns the underlying golang.org/x/exp/rand-compatible source, for wiring
// into gonum distributions that need one directly.
func (g *Generator) Source() *Engine {
	return g.engine
}

// Float64 returns a uniform draw in [0, 1).
func (g *Generator) Float64() float64 {
	return float64(g.engine.Uint64()>>11) / (1 << 53)
}

// Uniform draws from [min, max). The optional minIncl/maxIncl flags (in
// that order) are accepted for interface parity with callers that ask for
// a specific boundary inclusivity; for a continuous distribution the
// boundary itself has probability zero, so they do not alter the draw.
func (g *Generator) Uniform(min, max float64, inclusivity ...bool) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: g.engine}.Rand()
}

// UniformInt draws a uniformly distributed integer in [a, b], inclusive on
// both ends.
func (g *Generator) UniformInt(a, b int) int {
	if b < a {
		panic("rand: empty integer range")
	}
	span := uint64(b-a) + 1
	return a + int(g.engine.Uint64()%span)
}

// Bool returns true with probability p, clamped: p <= 0 always returns
// false, p >= 1 always returns true.
func (g *Generator) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.Float64() < p
}

// Normal draws from N(mu, sigma^2).
func (g *Generator) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: g.engine}.Rand()
}

// StudentT draws from a Student-T distribution with nu degrees of freedom,
// centered at zero with unit scale.
func (g *Generator) StudentT(nu float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu, Src: g.engine}.Rand()
}

// Exponential draws from an exponential distribution with mean tau (rate
// 1/tau).
func (g *Generator) Exponential(tau float64) float64 {
	return distuv.Exponential{Rate: 1 / tau, Src: g.engine}.Rand()
}

// Poisson draws an integer-valued Poisson(mu) sample.
func (g *Generator) Poisson(mu float64) int64 {
	return int64(distuv.Poisson{Lambda: mu, Src: g.engine}.Rand())
}

// PoissonFloat draws a float64-valued Poisson(mu) sample, substituting a
// Normal(mu, sqrt(mu)) approximation when mu exceeds half of uint64's
// range (where the Poisson inversion method becomes numerically unstable).
func (g *Generator) PoissonFloat(mu float64) float64 {
	if mu > float64(math.MaxUint64)/2 {
		return g.Normal(mu, math.Sqrt(mu))
	}
	return distuv.Poisson{Lambda: mu, Src: g.engine}.Rand()
}

// Discrete draws an index in [0, len(weights)) with probability
// proportional to weights[i].
func (g *Generator) Discrete(weights []float64) int {
	if len(weights) == 0 {
		panic("rand: empty weights")
	}
	c := distuv.NewCategorical(weights, g.engine)
	return int(c.Rand())
}

// FromMultiVariateDistribution draws a correlated vector as mean + L*noise,
// where noise is a vector of i.i.d. draws from dist and L is the Cholesky
// factor of the target covariance (L*Lᵀ = Σ). This is the "standard" of
// the two mathematically-equivalent-for-diagonal-L conventions named in the
// spec; see SPEC_FULL.md for the rationale.
func (g *Generator) FromMultiVariateDistribution(dist Dist1D, mean linalg.Vector, l *linalg.LowerTriangular) linalg.Vector {
	noise := make(linalg.Vector, len(mean))
	for i := range noise {
		noise[i] = dist.Rand()
	}
	return mean.Add(l.MulVec(noise))
}

// MultivariateNormal draws mean + L*noise with noise drawn from N(0,1),
// the standard-normal instance of FromMultiVariateDistribution used by
// randomized start points and the Normal proposal kernel.
func (g *Generator) MultivariateNormal(mean linalg.Vector, l *linalg.LowerTriangular) linalg.Vector {
	return g.FromMultiVariateDistribution(standardNormal{g}, mean, l)
}

// MultivariateStudentT draws mean + L*noise with noise drawn from a
// zero-centered, unit-scale Student-T(nu), used by the Student-T proposal
// kernel.
func (g *Generator) MultivariateStudentT(nu float64, mean linalg.Vector, l *linalg.LowerTriangular) linalg.Vector {
	return g.FromMultiVariateDistribution(studentTNoise{g, nu}, mean, l)
}

type standardNormal struct{ g *Generator }

func (s standardNormal) Rand() float64 { return s.g.Normal(0, 1) }

type studentTNoise struct {
	g  *Generator
	nu float64
}

func (s studentTNoise) Rand() float64 { return s.g.StudentT(s.nu) }

// Pool is a registry of Generators keyed by a caller-supplied token (e.g. a
// worker or chain-set*beta index), used when goroutine identity isn't a
// stable key: each distinct token gets exactly one lazily-allocated
// Generator, allocated at most once and reused for the registry's
// lifetime. This realizes the "thread-local" allocation-on-first-use
// pattern of §4.A/§9 without relying on real thread-local storage, which
// Go does not offer.
type Pool struct {
	generators sync.Map // map[any]*Generator
}

// Get returns the Generator registered for token, allocating one seeded
// from the process-wide counter on first use.
func (p *Pool) Get(token any) *Generator {
	if g, ok := p.generators.Load(token); ok {
		return g.(*Generator)
	}
	g, _ := p.generators.LoadOrStore(token, New())
	return g.(*Generator)
}
