package action

import "time"

// Default detection thresholds.
const (
	DefaultElbowExtension = 150.0 // degrees
	DefaultPunchVelocity  = 0.5   // normalized units per second
	DefaultCooldown       = 400 * time.Millisecond

	// minStep replaces a zero or negative time step.
	minStep = time.Millisecond
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithElbowExtension sets the elbow angle, in degrees, above which an arm
// counts as extended.
func WithElbowExtension(degrees float64) Option {
	return func(d *Detector) {
		if degrees > 0 && degrees <= 180 {
			d.elbowExtension = degrees
		}
	}
}

// WithPunchVelocity sets the wrist speed above which an extended arm punches.
func WithPunchVelocity(unitsPerSecond float64) Option {
	return func(d *Detector) {
		if unitsPerSecond > 0 {
			d.punchVelocity = unitsPerSecond
		}
	}
}

// WithCooldown sets how long the detector stays silent after an action.
func WithCooldown(cooldown time.Duration) Option {
	return func(d *Detector) {
		if cooldown >= 0 {
			d.cooldown = cooldown.Seconds()
		}
	}
}
