package parameter

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/mkleesiek/versatile-mcmc/rand"
)

func newTestConfig() *Config {
	c := NewConfig(nil)
	c.Add(New("x", 0, 1))
	c.Add(New("y", 0, 2))
	c.Add(New("z", 0, 1.5))
	c.SetErrorScaling(1)
	c.SetCorrelation(1, 0, 0.7)
	c.SetCorrelation(2, 1, -0.5)
	return c
}

func TestSetCorrelationClamps(t *testing.T) {
	c := newTestConfig()
	c.SetCorrelation(1, 0, 2.0)
	if got := c.GetCorrelationFactor(1, 0); got != 1.0 {
		t.Errorf("correlation clamp high: got %v, want 1.0", got)
	}
	c.SetCorrelation(1, 0, -5.0)
	if got := c.GetCorrelationFactor(1, 0); got != -1.0 {
		t.Errorf("correlation clamp low: got %v, want -1.0", got)
	}
	// Canonicalized regardless of argument order.
	if c.GetCorrelationFactor(0, 1) != c.GetCorrelationFactor(1, 0) {
		t.Errorf("correlation lookup not symmetric")
	}
}

func TestCholeskyKnownValues(t *testing.T) {
	c := newTestConfig()
	l := c.GetCholeskyDecomp()
	if !scalar.EqualWithinAbs(l.At(1, 1), 1.42829, 1e-4) {
		t.Errorf("L[1,1] = %v, want 1.42829", l.At(1, 1))
	}
	if !scalar.EqualWithinAbs(l.At(2, 1), -1.05021, 1e-4) {
		t.Errorf("L[2,1] = %v, want -1.05021", l.At(2, 1))
	}
}

func TestConstrainToLimits(t *testing.T) {
	c := NewConfig(nil)
	c.Add(New("p", 0, 1).WithLimits(-1, 1))
	v := []float64{5}
	c.ConstrainToLimits(v)
	if v[0] != 1 {
		t.Errorf("ConstrainToLimits: got %v, want 1", v[0])
	}
}

func TestGetStartValuesRandomizedRespectsLimits(t *testing.T) {
	c := NewConfig(nil)
	c.Add(New("p", 0, 10).WithLimits(-1, 1))
	gen := rand.NewFromSeed(11)
	for i := 0; i < 200; i++ {
		v := c.GetStartValues(true, gen)
		if v[0] < -1 || v[0] > 1 {
			t.Fatalf("randomized start %v outside limits", v[0])
		}
	}
}

func TestGetStartValuesDeterministicWithoutRandomization(t *testing.T) {
	c := newTestConfig()
	v := c.GetStartValues(false, nil)
	if !floats.Equal(v, []float64{0, 0, 0}) {
		t.Errorf("non-randomized start = %v, want zeros", v)
	}
}
