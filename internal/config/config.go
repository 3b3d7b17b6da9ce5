// Package config defines the host configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file named by
// POSEFIGHT_CONFIG, then POSEFIGHT_* environment variables.
package config

import (
	"strconv"
	"time"
)

// DefaultPlayerPort is the TCP port players stream poses to unless
// listen_addr says otherwise.
const DefaultPlayerPort = 5000

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// ListenAddr is the TCP address players stream poses to, e.g. ":5000".
	ListenAddr string `koanf:"listen_addr"`
	// HTTPAddr serves health, metrics, stats and the spectator feed.
	HTTPAddr string `koanf:"http_addr"`
	// TickHz is the game loop rate.
	TickHz int `koanf:"tick_hz"`
	// MaxFrameBytes caps one pose payload; larger announcements drop the peer.
	MaxFrameBytes int `koanf:"max_frame_bytes"`

	// MinCutoff, Beta and DerivativeCutoff tune the landmark smoother.
	MinCutoff        float64 `koanf:"min_cutoff"`
	Beta             float64 `koanf:"beta"`
	DerivativeCutoff float64 `koanf:"derivative_cutoff"`

	// ElbowExtensionDeg is the angle above which an arm counts as extended.
	ElbowExtensionDeg float64 `koanf:"elbow_extension_deg"`
	// PunchVelocity is the wrist speed, in normalized units per second,
	// above which an extended arm counts as a punch.
	PunchVelocity float64 `koanf:"punch_velocity"`
	// CooldownMS suppresses actions after one is emitted.
	CooldownMS int `koanf:"cooldown_ms"`

	StartingHealth int `koanf:"starting_health"`
	PunchDamage    int `koanf:"punch_damage"`

	// FeedBuffer is the per-subscriber tick queue capacity.
	FeedBuffer int `koanf:"feed_buffer"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		ListenAddr:        ":" + strconv.Itoa(DefaultPlayerPort),
		HTTPAddr:          ":9080",
		TickHz:            30,
		MaxFrameBytes:     1 << 20,
		MinCutoff:         0.01,
		Beta:              0.5,
		DerivativeCutoff:  1.0,
		ElbowExtensionDeg: 150,
		PunchVelocity:     0.5,
		CooldownMS:        400,
		StartingHealth:    100,
		PunchDamage:       1,
		FeedBuffer:        64,
	}
}

// TickInterval is the period of one game loop iteration.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickHz)
}

// Cooldown is CooldownMS as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownMS) * time.Millisecond
}
