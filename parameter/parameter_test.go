package parameter

import "testing"

func TestReflectFromLimitsSingleCrossing(t *testing.T) {
	p := New("p", 0, 1).WithLimits(-1, 1)

	v := 1.5
	if ok := p.ReflectFromLimits(&v); !ok || v != 0.5 {
		t.Errorf("reflect(1.5) = (%v, %v), want (0.5, true)", v, ok)
	}

	v = 3.5
	if ok := p.ReflectFromLimits(&v); ok || v != -1.5 {
		t.Errorf("reflect(3.5) = (%v, %v), want (-1.5, false)", v, ok)
	}
}

func TestReflectFromLimitsInvariant(t *testing.T) {
	p := New("p", 0, 1).WithLimits(-2, 3)
	for _, v := range []float64{-10, -2.5, -2, -1, 0, 1, 3, 3.1, 4, 20} {
		got := v
		ok := p.ReflectFromLimits(&got)
		if !ok && p.InsideLimits(got) {
			t.Errorf("reflect(%v) returned false but result %v is inside limits", v, got)
		}
		if ok && !p.InsideLimits(got) {
			t.Errorf("reflect(%v) returned true but result %v is outside limits", v, got)
		}
	}
}

func TestConstrainToLimitsNoOpWithoutLimits(t *testing.T) {
	p := New("unbounded", 5, 1)
	v := 1e9
	p.ConstrainToLimits(&v)
	if v != 1e9 {
		t.Errorf("ConstrainToLimits altered an unbounded parameter: %v", v)
	}
}

func TestNonFiniteLimitsCanonicalizeToUnbounded(t *testing.T) {
	p := New("p", 0, 1).WithLimits(nfNaN(), nfInf())
	if _, ok := p.GetLowerLimit(); ok {
		t.Errorf("NaN lower limit should canonicalize to unbounded")
	}
	if _, ok := p.GetUpperLimit(); ok {
		t.Errorf("+Inf upper limit should canonicalize to unbounded")
	}
}

func nfNaN() float64 { var z float64; return z / z }
func nfInf() float64 { var z float64; return 1 / z }
