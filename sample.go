// Package vmcmc implements the core Metropolis-Hastings-with-parallel-
// tempering MCMC library: the sample/chain data model and the Algorithm
// base class that target-function wiring, the run loop, and writer
// fan-out are built on. The tempered sampler itself lives in the sibling
// metropolis package, which embeds Algorithm.
package vmcmc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mkleesiek/versatile-mcmc/linalg"
)

// Sample is one point in parameter space together with the target-function
// values last evaluated there. The default (reset) state is Likelihood=0,
// NegLogLikelihood=-Inf, Prior=0, Accepted=false. The default
// NegLogLikelihood of -Inf compares lower than that of any scored sample.
type Sample struct {
	Generation       uint64
	Values           linalg.Vector
	Likelihood       float64
	NegLogLikelihood float64
	Prior            float64
	Accepted         bool
}

// NewSample returns a Sample at generation 0 holding values, in the
// default (unscored) state.
func NewSample(values linalg.Vector) *Sample {
	s := &Sample{Values: values}
	s.Reset()
	return s
}

// Reset restores the default derived-field state (Likelihood, NegLog
// Likelihood, Prior, Accepted) while preserving Values and Generation.
func (s *Sample) Reset() {
	s.Likelihood = 0
	s.NegLogLikelihood = math.Inf(-1)
	s.Prior = 0
	s.Accepted = false
}

// IncrementGeneration is the only in-place mutator used inside the
// sampler's per-step hot path.
func (s *Sample) IncrementGeneration() {
	s.Generation++
}

// Clone returns a deep copy of s.
func (s *Sample) Clone() *Sample {
	c := *s
	c.Values = s.Values.Clone()
	return &c
}

// Add adds other's Values into s's Values element-wise and resets s's
// derived fields (Likelihood, NegLogLikelihood, Prior, Accepted). This
// supports averaging Samples across chains in diagnostics without
// silently carrying stale target-function values forward.
func (s *Sample) Add(other *Sample) {
	s.Values = s.Values.Add(other.Values)
	s.Reset()
}

// Scale multiplies s's Values by c in place and resets s's derived fields,
// for the same reason as Add.
func (s *Sample) Scale(c float64) {
	s.Values = s.Values.Scale(c)
	s.Reset()
}

// String renders the sample as
// "[dim](v0, v1, ...) prior (likelihood, negLogLikelihood)", the reference
// textual form used in progress and diagnostics log lines.
func (s *Sample) String() string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = formatFloat(v)
	}
	return fmt.Sprintf("[%d](%s) %s (%s, %s)", len(s.Values), strings.Join(parts, ", "),
		formatFloat(s.Prior), formatFloat(s.Likelihood), formatFloat(s.NegLogLikelihood))
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
