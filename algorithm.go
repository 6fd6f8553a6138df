package vmcmc

import (
	"log"
	"math"
	"reflect"

	"github.com/pkg/errors"

	"github.com/mkleesiek/versatile-mcmc/linalg"
	"github.com/mkleesiek/versatile-mcmc/parameter"
)

// TargetFunc scores a parameter vector. It is the canonical, type-erased
// form that SetPrior/SetLikelihood/SetNegLogLikelihood adapt any N-ary
// float64 callable into, by indexing the first N slots of the vector.
type TargetFunc func(values linalg.Vector) float64

// Writer is the external collaborator the core streams newly appended
// samples (accepted steps and rejected re-emissions alike) to. Initialize is called once before the first cycle, Write once per
// (chain, cycle) after each Advance, and Finalize once after the run
// completes. Implementations MUST tolerate Write being called with
// startIndex == chain.Len() (no new samples since the last call).
type Writer interface {
	Initialize(numberOfChains int, pc *parameter.Config) error
	Write(chainIndex int, chain *Chain, startIndex int) error
	Finalize() error
}

// Sampler is the hook surface a concrete algorithm (e.g. metropolis.Sampler)
// implements and registers with an embedded Algorithm via Algorithm.Bind.
// Go has no virtual dispatch through embedding, so Algorithm.Run drives the
// loop and calls back into these hooks instead of being subclassed.
type Sampler interface {
	// NumberOfChains returns the number of logical sampled chains exposed
	// to writers and diagnostics (e.g. the cold chain of each chain set).
	NumberOfChains() int
	// GetChain returns the i-th sampled chain.
	GetChain(i int) *Chain
	// SamplerInitialize performs algorithm-specific setup once Algorithm's
	// own validation has passed.
	SamplerInitialize() error
	// Advance runs nSteps of sampling across every chain.
	Advance(nSteps int) error
	// Finalize computes and logs the algorithm's diagnostics once sampling
	// has completed.
	Finalize() error
}

// Algorithm is the base all concrete samplers embed. It owns the target
// function, the run loop, and writer fan-out; component-specific behavior
// (chain management, the MH step, parallel tempering) lives behind the
// Sampler interface.
type Algorithm struct {
	hooks Sampler

	parameterConfig *parameter.Config

	prior            TargetFunc
	likelihood       TargetFunc
	negLogLikelihood TargetFunc

	totalLength int
	cycleLength int

	writers []Writer

	prevLengths []int

	Logger *log.Logger
}

// NewAlgorithm returns an Algorithm with a uniform (always-1) prior and no
// target function set. Bind must be called once, by the embedding
// sampler's constructor, before Run.
func NewAlgorithm() *Algorithm {
	return &Algorithm{
		prior:  func(linalg.Vector) float64 { return 1 },
		Logger: log.Default(),
	}
}

// Bind registers the concrete sampler implementing the Sampler hooks.
// Must be called exactly once, typically from the embedding type's
// constructor with itself as the argument.
func (a *Algorithm) Bind(hooks Sampler) {
	a.hooks = hooks
}

// SetParameterConfig sets the parameter model sampling draws from.
func (a *Algorithm) SetParameterConfig(pc *parameter.Config) {
	a.parameterConfig = pc
}

// ParameterConfig returns the configured parameter model.
func (a *Algorithm) ParameterConfig() *parameter.Config {
	return a.parameterConfig
}

// SetTotalLength sets the number of steps each chain will advance over
// the full run.
func (a *Algorithm) SetTotalLength(n int) {
	a.totalLength = n
}

// SetCycleLength sets the number of steps advanced between writer
// fan-out/progress-logging barriers. 0 requests an automatic default.
func (a *Algorithm) SetCycleLength(n int) {
	a.cycleLength = n
}

// AddWriter registers w to receive newly appended samples after each
// cycle.
func (a *Algorithm) AddWriter(w Writer) {
	a.writers = append(a.writers, w)
}

// SetPrior sets the prior-probability target function. fn may be a
// func(linalg.Vector) float64 or any func(float64, float64, ...) float64
// whose arity N matches (a prefix of) the parameter count; it is adapted
// by indexing the first N values. Orthogonal to SetLikelihood/
// SetNegLogLikelihood.
func (a *Algorithm) SetPrior(fn any) {
	a.prior = adaptTargetFunc(fn)
}

// SetLikelihood sets the likelihood target function, clearing any
// previously set negative-log-likelihood (they are mutually exclusive).
func (a *Algorithm) SetLikelihood(fn any) {
	a.likelihood = adaptTargetFunc(fn)
	a.negLogLikelihood = nil
}

// SetNegLogLikelihood sets the negative-log-likelihood target function,
// clearing any previously set likelihood.
func (a *Algorithm) SetNegLogLikelihood(fn any) {
	a.negLogLikelihood = adaptTargetFunc(fn)
	a.likelihood = nil
}

// adaptTargetFunc type-erases any N-ary float64 callable into a
// TargetFunc by indexing the vector's first N slots, per the variadic
// target-function-adaptation design note.
func adaptTargetFunc(fn any) TargetFunc {
	if f, ok := fn.(TargetFunc); ok {
		return f
	}
	if f, ok := fn.(func(linalg.Vector) float64); ok {
		return f
	}
	if f, ok := fn.(func([]float64) float64); ok {
		return func(v linalg.Vector) float64 { return f(v) }
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		panic("vmcmc: target function must be a func")
	}
	rt := rv.Type()
	if rt.IsVariadic() || rt.NumOut() != 1 || rt.Out(0).Kind() != reflect.Float64 {
		panic("vmcmc: target function must return exactly one float64")
	}
	n := rt.NumIn()
	for i := 0; i < n; i++ {
		if rt.In(i).Kind() != reflect.Float64 {
			panic("vmcmc: target function arguments must all be float64")
		}
	}
	return func(values linalg.Vector) float64 {
		if len(values) < n {
			panic("vmcmc: parameter count mismatch with target function arity")
		}
		args := make([]reflect.Value, n)
		for i := 0; i < n; i++ {
			args[i] = reflect.ValueOf(values[i])
		}
		return rv.Call(args)[0].Float()
	}
}

// EvaluatePrior computes the prior at values.
func (a *Algorithm) EvaluatePrior(values linalg.Vector) float64 {
	return a.prior(values)
}

// EvaluateLikelihood computes the likelihood at values, converting from
// the negative-log-likelihood target function if that's the one set.
func (a *Algorithm) EvaluateLikelihood(values linalg.Vector) float64 {
	if a.likelihood != nil {
		return a.likelihood(values)
	}
	return math.Exp(-a.negLogLikelihood(values))
}

// EvaluateNegLogLikelihood computes the negative log-likelihood at values,
// converting from the likelihood target function if that's the one set.
func (a *Algorithm) EvaluateNegLogLikelihood(values linalg.Vector) float64 {
	if a.negLogLikelihood != nil {
		return a.negLogLikelihood(values)
	}
	return -math.Log(a.likelihood(values))
}

// Evaluate scores sample in place: it resets the sample's derived fields,
// rejects out-of-limits values and zero-prior points by returning false
// (leaving the sample at its reset defaults), and otherwise populates
// Prior, Likelihood, and NegLogLikelihood and returns true.
func (a *Algorithm) Evaluate(sample *Sample) bool {
	sample.Reset()
	if a.parameterConfig != nil && !a.parameterConfig.InsideLimits(sample.Values) {
		return false
	}
	prior := a.EvaluatePrior(sample.Values)
	if prior == 0 {
		return false
	}
	sample.Prior = prior
	sample.Likelihood = a.EvaluateLikelihood(sample.Values)
	sample.NegLogLikelihood = a.EvaluateNegLogLikelihood(sample.Values)
	return true
}

// Initialize validates the algorithm's configuration and delegates to the
// bound sampler's setup. It is also called by Run, but exposed for tests.
func (a *Algorithm) Initialize() error {
	if a.hooks == nil {
		panic("vmcmc: Algorithm.Bind was never called")
	}
	if a.likelihood == nil && a.negLogLikelihood == nil {
		return errors.New("vmcmc: no likelihood or negative-log-likelihood target function set")
	}
	if a.parameterConfig == nil || a.parameterConfig.Len() == 0 {
		return errors.New("vmcmc: parameter config is empty or unset")
	}
	if a.cycleLength <= 0 {
		a.cycleLength = a.totalLength / 100
	}
	if a.cycleLength < 1 {
		a.cycleLength = 1
	}
	if a.cycleLength > a.totalLength {
		a.cycleLength = a.totalLength
	}
	if err := a.hooks.SamplerInitialize(); err != nil {
		return errors.Wrap(err, "vmcmc: sampler initialization failed")
	}
	n := a.hooks.NumberOfChains()
	a.prevLengths = make([]int, n)
	for _, w := range a.writers {
		if err := w.Initialize(n, a.parameterConfig); err != nil {
			a.Logger.Printf("vmcmc: writer initialize failed: %v", err)
		}
	}
	return nil
}

// Run drives the full sampling loop: Initialize, then Advance in cycles
// of at most cycleLength steps with writer fan-out and progress logging
// after each cycle, then Finalize.
func (a *Algorithm) Run() error {
	if err := a.Initialize(); err != nil {
		return err
	}
	nCycles := a.totalLength / a.cycleLength
	logEvery := nCycles / 20 // every 5%
	if logEvery < 1 {
		logEvery = 1
	}
	for iCycle := 0; iCycle <= nCycles; iCycle++ {
		nSteps := a.cycleLength
		if iCycle == nCycles {
			nSteps = a.totalLength % a.cycleLength
			if nSteps == 0 {
				continue
			}
		}
		if err := a.hooks.Advance(nSteps); err != nil {
			return errors.Wrap(err, "vmcmc: advance failed")
		}
		a.fanOutToWriters()
		if iCycle%logEvery == 0 {
			a.logProgress(iCycle, nCycles)
		}
	}
	return a.finalize()
}

func (a *Algorithm) fanOutToWriters() {
	n := a.hooks.NumberOfChains()
	for i := 0; i < n; i++ {
		chain := a.hooks.GetChain(i)
		start := a.prevLengths[i]
		for _, w := range a.writers {
			if err := w.Write(i, chain, start); err != nil {
				a.Logger.Printf("vmcmc: writer failed for chain %d: %v", i, err)
			}
		}
		a.prevLengths[i] = chain.Len()
	}
}

func (a *Algorithm) logProgress(iCycle, nCycles int) {
	n := a.hooks.NumberOfChains()
	for i := 0; i < n; i++ {
		chain := a.hooks.GetChain(i)
		if last := chain.Last(); last != nil {
			a.Logger.Printf("vmcmc: cycle %d/%d chain %d: %s", iCycle, nCycles, i, last)
		}
	}
}

func (a *Algorithm) finalize() error {
	for _, w := range a.writers {
		if err := w.Finalize(); err != nil {
			a.Logger.Printf("vmcmc: writer finalize failed: %v", err)
		}
	}
	return a.hooks.Finalize()
}
