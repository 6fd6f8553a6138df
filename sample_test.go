package vmcmc

import (
	"math"
	"testing"

	"github.com/mkleesiek/versatile-mcmc/linalg"
)

func TestSampleResetDefaults(t *testing.T) {
	s := NewSample(linalg.Vector{1, 2, 3})
	if s.Likelihood != 0 || s.Prior != 0 || s.Accepted {
		t.Errorf("reset sample has non-default derived fields: %+v", s)
	}
	if !math.IsInf(s.NegLogLikelihood, -1) {
		t.Errorf("reset sample NegLogLikelihood = %v, want -Inf", s.NegLogLikelihood)
	}
}

func TestSampleAddResetsDerivedFields(t *testing.T) {
	s := NewSample(linalg.Vector{1, 2})
	s.Likelihood = 5
	s.NegLogLikelihood = 3
	s.Prior = 7
	s.Accepted = true

	other := NewSample(linalg.Vector{10, 10})
	s.Add(other)

	if s.Values[0] != 11 || s.Values[1] != 12 {
		t.Errorf("Add values = %v, want (11, 12)", s.Values)
	}
	if s.Likelihood != 0 {
		t.Errorf("Add did not reset Likelihood: %v", s.Likelihood)
	}
	if !math.IsInf(s.NegLogLikelihood, -1) {
		t.Errorf("Add did not reset NegLogLikelihood: %v", s.NegLogLikelihood)
	}
	if s.Accepted {
		t.Errorf("Add did not reset Accepted")
	}
}

func TestSampleString(t *testing.T) {
	s := NewSample(linalg.Vector{1, 2, 3, 4})
	got := s.String()
	want := "[4](1, 2, 3, 4) 0 (0, -inf)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSampleIncrementGeneration(t *testing.T) {
	s := NewSample(linalg.Vector{0})
	s.Generation = 4
	s.IncrementGeneration()
	if s.Generation != 5 {
		t.Errorf("Generation = %d, want 5", s.Generation)
	}
}
