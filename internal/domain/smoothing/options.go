package smoothing

// Default filter parameters.
const (
	DefaultMinCutoff        = 0.01
	DefaultBeta             = 0.5
	DefaultDerivativeCutoff = 1.0
)

// Option applies a configuration option to the Smoother.
type Option func(*Smoother)

// WithMinCutoff sets the minimum cutoff frequency in Hz.
func WithMinCutoff(hz float64) Option {
	return func(s *Smoother) {
		if hz > 0 {
			s.minCutoff = hz
		}
	}
}

// WithBeta sets how strongly speed raises the cutoff.
func WithBeta(beta float64) Option {
	return func(s *Smoother) {
		if beta >= 0 {
			s.beta = beta
		}
	}
}

// WithDerivativeCutoff sets the cutoff used to denoise the speed estimate.
func WithDerivativeCutoff(hz float64) Option {
	return func(s *Smoother) {
		if hz > 0 {
			s.dCutoff = hz
		}
	}
}

// WithDegenerateHook registers fn to run whenever a frame arrives with a
// timestamp that does not advance.
func WithDegenerateHook(fn func()) Option {
	return func(s *Smoother) {
		s.onDegenerate = fn
	}
}
