package vmcmc

import (
	"math"
	"testing"

	"github.com/mkleesiek/versatile-mcmc/linalg"
	"github.com/mkleesiek/versatile-mcmc/parameter"
)

// fakeSampler is a minimal Sampler used to exercise Algorithm's run loop
// without pulling in the metropolis package (which embeds Algorithm and
// would make this an import cycle).
type fakeSampler struct {
	*Algorithm
	chain       *Chain
	advanceCalls []int
	finalized   bool
}

func newFakeSampler() *fakeSampler {
	fs := &fakeSampler{Algorithm: NewAlgorithm(), chain: NewChain()}
	fs.Bind(fs)
	return fs
}

func (fs *fakeSampler) NumberOfChains() int { return 1 }
func (fs *fakeSampler) GetChain(i int) *Chain {
	if i != 0 {
		panic("out of range")
	}
	return fs.chain
}
func (fs *fakeSampler) SamplerInitialize() error {
	fs.chain.Append(NewSample(linalg.Vector{0}))
	return nil
}
func (fs *fakeSampler) Advance(nSteps int) error {
	fs.advanceCalls = append(fs.advanceCalls, nSteps)
	for i := 0; i < nSteps; i++ {
		fs.chain.Append(NewSample(linalg.Vector{0}))
	}
	return nil
}
func (fs *fakeSampler) Finalize() error {
	fs.finalized = true
	return nil
}

func TestAlgorithmRunCompletesAllSteps(t *testing.T) {
	fs := newFakeSampler()
	pc := parameter.NewConfig(nil)
	pc.Add(parameter.New("x", 0, 1))
	fs.SetParameterConfig(pc)
	fs.SetLikelihood(func(v linalg.Vector) float64 { return 1 })
	fs.SetTotalLength(37)
	fs.SetCycleLength(10)

	if err := fs.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !fs.finalized {
		t.Errorf("Finalize hook was never called")
	}
	// 1 starting sample + 37 advanced steps.
	if fs.chain.Len() != 38 {
		t.Errorf("chain length = %d, want 38", fs.chain.Len())
	}
	var total int
	for _, n := range fs.advanceCalls {
		total += n
	}
	if total != 37 {
		t.Errorf("advanced %d steps total, want 37", total)
	}
}

func TestAlgorithmInitializeRequiresTargetFunction(t *testing.T) {
	fs := newFakeSampler()
	pc := parameter.NewConfig(nil)
	pc.Add(parameter.New("x", 0, 1))
	fs.SetParameterConfig(pc)
	fs.SetTotalLength(10)

	if err := fs.Initialize(); err == nil {
		t.Errorf("expected error when no target function is set")
	}
}

func TestAlgorithmEvaluateRejectsZeroPrior(t *testing.T) {
	fs := newFakeSampler()
	pc := parameter.NewConfig(nil)
	pc.Add(parameter.New("x", 0, 1).WithLimits(-1, 1))
	fs.SetParameterConfig(pc)
	fs.SetLikelihood(func(v linalg.Vector) float64 { return 1 })
	fs.SetPrior(func(v linalg.Vector) float64 {
		if v[0] > 0 {
			return 0
		}
		return 1
	})

	s := NewSample(linalg.Vector{0.5})
	if fs.Evaluate(s) {
		t.Errorf("Evaluate should reject a zero-prior point")
	}

	s2 := NewSample(linalg.Vector{-0.5})
	if !fs.Evaluate(s2) {
		t.Errorf("Evaluate should accept a nonzero-prior, in-limits point")
	}
	if s2.NegLogLikelihood != 0 {
		t.Errorf("NegLogLikelihood = %v, want 0 for likelihood 1", s2.NegLogLikelihood)
	}
}

func TestAlgorithmEvaluateRejectsOutOfLimits(t *testing.T) {
	fs := newFakeSampler()
	pc := parameter.NewConfig(nil)
	pc.Add(parameter.New("x", 0, 1).WithLimits(-1, 1))
	fs.SetParameterConfig(pc)
	fs.SetLikelihood(func(v linalg.Vector) float64 { return 1 })

	s := NewSample(linalg.Vector{5})
	if fs.Evaluate(s) {
		t.Errorf("Evaluate should reject an out-of-limits point")
	}
}

func TestAdaptTargetFuncVariadicArity(t *testing.T) {
	fs := newFakeSampler()
	pc := parameter.NewConfig(nil)
	pc.Add(parameter.New("x", 0, 1))
	pc.Add(parameter.New("y", 0, 1))
	fs.SetParameterConfig(pc)
	fs.SetLikelihood(func(x, y float64) float64 { return x*x + y*y })

	got := fs.EvaluateLikelihood(linalg.Vector{3, 4})
	if got != 25 {
		t.Errorf("adapted 2-ary likelihood(3,4) = %v, want 25", got)
	}
}

func TestEvaluateNegLogLikelihoodRoundTrip(t *testing.T) {
	fs := newFakeSampler()
	fs.SetNegLogLikelihood(func(v linalg.Vector) float64 { return 0.5 * v[0] * v[0] })
	got := fs.EvaluateLikelihood(linalg.Vector{2})
	want := math.Exp(-2)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("EvaluateLikelihood = %v, want %v", got, want)
	}
}
