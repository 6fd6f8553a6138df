package rand

import (
	"math"
	"testing"

	"github.com/mkleesiek/versatile-mcmc/linalg"
)

func TestEngineDeterministic(t *testing.T) {
	e1 := NewEngine(42)
	e2 := NewEngine(42)
	for i := 0; i < 1000; i++ {
		a, b := e1.Uint32(), e2.Uint32()
		if a != b {
			t.Fatalf("draw %d diverged: %v != %v", i, a, b)
		}
	}
}

func TestEngineDifferentSeedsDiverge(t *testing.T) {
	e1 := NewEngine(1)
	e2 := NewEngine(2)
	same := 0
	for i := 0; i < 100; i++ {
		if e1.Uint32() == e2.Uint32() {
			same++
		}
	}
	if same > 1 {
		t.Errorf("engines seeded differently agreed on %d/100 draws", same)
	}
}

func TestEngineFloat64Range(t *testing.T) {
	g := NewFromSeed(99)
	for i := 0; i < 10000; i++ {
		u := g.Float64()
		if u < 0 || u >= 1 {
			t.Fatalf("Float64() = %v, out of [0,1)", u)
		}
	}
}

func TestGeneratorBool(t *testing.T) {
	g := NewFromSeed(1)
	if g.Bool(0) {
		t.Error("Bool(0) should always be false")
	}
	if !g.Bool(1) {
		t.Error("Bool(1) should always be true")
	}
	if g.Bool(-5) {
		t.Error("Bool(negative) should always be false")
	}
}

func TestGeneratorUniformIntRange(t *testing.T) {
	g := NewFromSeed(7)
	for i := 0; i < 1000; i++ {
		v := g.UniformInt(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("UniformInt(3,5) produced %d, out of range", v)
		}
	}
}

func TestFromMultiVariateDistributionDiagonal(t *testing.T) {
	g := NewFromSeed(3)
	l := linalg.Diag([]float64{2, 3})
	mean := linalg.Vector{10, -5}
	var sumX, sumY float64
	const trials = 20000
	for i := 0; i < trials; i++ {
		v := g.MultivariateNormal(mean, l)
		sumX += v[0]
		sumY += v[1]
	}
	meanX, meanY := sumX/trials, sumY/trials
	if math.Abs(meanX-10) > 0.1 || math.Abs(meanY+5) > 0.15 {
		t.Errorf("mean = (%v, %v), want near (10, -5)", meanX, meanY)
	}
}
