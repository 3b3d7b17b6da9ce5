// Package smoothing implements the adaptive low-pass filter bank that
// stabilizes raw keypoints before gestures are read from them.
//
// Each scalar signal runs its own one-euro filter: the cutoff frequency
// grows with the signal's filtered speed, so fast joints lag less while
// still joints are smoothed harder.
package smoothing

import (
	"math"
	"time"
)

// Filter is a single adaptive one-pole low-pass filter. The zero value is
// not usable; build one with NewFilter.
type Filter struct {
	minCutoff float64
	beta      float64
	dCutoff   float64

	initialized bool
	prevValue   float64
	prevDeriv   float64
	prevTime    time.Time
}

// NewFilter returns a filter with the given minimum cutoff (Hz), speed
// coefficient and derivative cutoff (Hz).
func NewFilter(minCutoff, beta, dCutoff float64) Filter {
	return Filter{minCutoff: minCutoff, beta: beta, dCutoff: dCutoff}
}

// Apply feeds sample v taken at t and returns the filtered value.
// The second result is false when t does not advance past the previous
// sample; the previous filtered value is returned and state is untouched.
func (f *Filter) Apply(v float64, t time.Time) (float64, bool) {
	if !f.initialized {
		f.initialized = true
		f.prevValue = v
		f.prevDeriv = 0
		f.prevTime = t
		return v, true
	}

	dt := t.Sub(f.prevTime).Seconds()
	if dt <= 0 {
		return f.prevValue, false
	}

	deriv := (v - f.prevValue) / dt
	deriv = blend(alpha(f.dCutoff, dt), deriv, f.prevDeriv)

	cutoff := f.minCutoff + f.beta*math.Abs(deriv)
	value := blend(alpha(cutoff, dt), v, f.prevValue)

	f.prevValue = value
	f.prevDeriv = deriv
	f.prevTime = t
	return value, true
}

// alpha is the exponential smoothing factor for a cutoff frequency at
// sampling interval dt.
func alpha(cutoff, dt float64) float64 {
	tau := 1.0 / (2 * math.Pi * cutoff)
	return 1.0 / (1.0 + tau/dt)
}

func blend(a, current, previous float64) float64 {
	return a*current + (1-a)*previous
}
