// Package parameter models the sampler's parameter space: named,
// bounded scalar parameters and the joint Config (errors, correlation,
// covariance, Cholesky factor) built from them.
package parameter

import "math"

// Parameter describes one coordinate of the sampled space: its name,
// starting value, absolute error (prior to the Config's global error
// scaling), optional limits, and whether it is held fixed.
type Parameter struct {
	name     string
	start    float64
	absError float64
	lower    float64
	upper    float64
	hasLower bool
	hasUpper bool
	fixed    bool
}

// New constructs a Parameter with no limits. Use WithLimits to add them.
func New(name string, start, absError float64) Parameter {
	return Parameter{name: name, start: start, absError: absError}
}

// WithLimits returns a copy of p with the given lower/upper limits.
// Non-finite values (NaN, +-Inf) are canonicalized to "no limit" per the
// spec's Option<f64> convention; callers must never encode "unbounded" as
// NaN or +-Inf and expect it to compare as a limit.
func (p Parameter) WithLimits(lower, upper float64) Parameter {
	if !math.IsInf(lower, 0) && !math.IsNaN(lower) {
		p.lower, p.hasLower = lower, true
	} else {
		p.hasLower = false
	}
	if !math.IsInf(upper, 0) && !math.IsNaN(upper) {
		p.upper, p.hasUpper = upper, true
	} else {
		p.hasUpper = false
	}
	if p.hasLower && p.hasUpper && p.lower > p.upper {
		panic("parameter: lower limit exceeds upper limit")
	}
	if (p.hasLower && p.start < p.lower) || (p.hasUpper && p.start > p.upper) {
		panic("parameter: start value outside declared limits")
	}
	return p
}

// Fixed returns a copy of p marked fixed (held constant during sampling).
func (p Parameter) Fixed(fixed bool) Parameter {
	p.fixed = fixed
	return p
}

// GetName returns the parameter's name.
func (p Parameter) GetName() string { return p.name }

// GetStart returns the parameter's starting value.
func (p Parameter) GetStart() float64 { return p.start }

// GetAbsoluteError returns the parameter's (unscaled) absolute error.
func (p Parameter) GetAbsoluteError() float64 { return p.absError }

// GetLowerLimit returns the lower limit and whether one is set.
func (p Parameter) GetLowerLimit() (float64, bool) { return p.lower, p.hasLower }

// GetUpperLimit returns the upper limit and whether one is set.
func (p Parameter) GetUpperLimit() (float64, bool) { return p.upper, p.hasUpper }

// IsFixed reports whether the parameter is held fixed.
func (p Parameter) IsFixed() bool { return p.fixed }

// InsideLimits reports whether v respects both declared limits (parameters
// without a given limit are unconstrained on that side).
func (p Parameter) InsideLimits(v float64) bool {
	if p.hasLower && v < p.lower {
		return false
	}
	if p.hasUpper && v > p.upper {
		return false
	}
	return true
}

// ConstrainToLimits clamps *v into [lower, upper], leaving it untouched on
// any side with no declared limit.
func (p Parameter) ConstrainToLimits(v *float64) {
	if p.hasLower && *v < p.lower {
		*v = p.lower
	}
	if p.hasUpper && *v > p.upper {
		*v = p.upper
	}
}

// ReflectFromLimits mirrors *v back into the feasible region by the amount
// it exceeded the crossed limit (a one-shot reflection, not a loop): if *v
// crossed the lower limit, *v = lower + (lower - *v); if it crossed the
// upper limit, *v = upper - (*v - upper). Returns false if the reflected
// value still violates the opposite limit (double-crossing), in which case
// *v is left at the one-shot reflected value regardless.
func (p Parameter) ReflectFromLimits(v *float64) bool {
	if p.hasLower && *v < p.lower {
		*v = p.lower + (p.lower - *v)
	} else if p.hasUpper && *v > p.upper {
		*v = p.upper - (*v - p.upper)
	} else {
		return true
	}
	return p.InsideLimits(*v)
}
