// Package metrics provides Prometheus metrics for the posefight host.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the host.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Connection lifecycle
	connectionsAccepted *prometheus.CounterVec
	connectionsRejected prometheus.Counter
	connectionsClosed   *prometheus.CounterVec
	activePlayers       prometheus.Gauge
	readerPanics        prometheus.Counter
	acceptErrors        prometheus.Counter

	// Stream ingestion
	framesReceived *prometheus.CounterVec
	framesEmpty    *prometheus.CounterVec
	decodeErrors   *prometheus.CounterVec
	framesShort    *prometheus.CounterVec
	payloadBytes   prometheus.Histogram

	// Game loop
	ticks             prometheus.Counter
	tickDuration      prometheus.Histogram
	actionsEmitted    *prometheus.CounterVec
	degenerateSamples prometheus.Counter
	loopPanics        prometheus.Counter
	punchesLanded     *prometheus.CounterVec
	fighterHealth     *prometheus.GaugeVec
	feedSubscribers   prometheus.Gauge
	feedDrops         prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics manager

// customRegistry keeps default Go collectors out of the exposition.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "posefight",
		subsystem:      "host",
		latencyBuckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		constLabels:    map[string]string{},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.connectionsAccepted = auto.NewCounterVec(
		m.counterOpts("connections_accepted_total", "Connections that claimed a role slot"),
		[]string{"role"},
	)
	m.connectionsRejected = auto.NewCounter(
		m.counterOpts("connections_rejected_total", "Connections closed because both role slots were occupied"),
	)
	m.connectionsClosed = auto.NewCounterVec(
		m.counterOpts("connections_closed_total", "Player connections that ended, by role and reason"),
		[]string{"role", "reason"},
	)
	m.activePlayers = auto.NewGauge(
		m.gaugeOpts("active_players", "Number of occupied role slots"),
	)
	m.readerPanics = auto.NewCounter(
		m.counterOpts("reader_panics_total", "Stream reader goroutines that recovered from a panic"),
	)
	m.acceptErrors = auto.NewCounter(
		m.counterOpts("accept_errors_total", "Errors returned by the listener accept call"),
	)

	m.framesReceived = auto.NewCounterVec(
		m.counterOpts("frames_received_total", "Framed payloads read from player streams"),
		[]string{"role"},
	)
	m.framesEmpty = auto.NewCounterVec(
		m.counterOpts("frames_empty_total", "Payloads that carried no pose"),
		[]string{"role"},
	)
	m.decodeErrors = auto.NewCounterVec(
		m.counterOpts("decode_errors_total", "Payloads that failed to decode"),
		[]string{"role"},
	)
	m.framesShort = auto.NewCounterVec(
		m.counterOpts("frames_short_total", "Frames too short to carry both arms, treated as no pose"),
		[]string{"role"},
	)
	m.payloadBytes = auto.NewHistogram(
		m.histogramOpts("payload_bytes", "Size of received payloads in bytes",
			prometheus.ExponentialBuckets(64, 2, 10)),
	)

	m.ticks = auto.NewCounter(
		m.counterOpts("ticks_total", "Game loop ticks executed"),
	)
	m.tickDuration = auto.NewHistogram(
		m.histogramOpts("tick_duration_milliseconds", "Time spent smoothing and detecting per tick", m.latencyBuckets),
	)
	m.actionsEmitted = auto.NewCounterVec(
		m.counterOpts("actions_emitted_total", "Non-idle actions emitted by the detector"),
		[]string{"role", "action"},
	)
	m.degenerateSamples = auto.NewCounter(
		m.counterOpts("smoother_degenerate_samples_total", "Frames smoothed with a non-positive time step"),
	)
	m.loopPanics = auto.NewCounter(
		m.counterOpts("loop_panics_total", "Game loop ticks that recovered from a panic"),
	)
	m.punchesLanded = auto.NewCounterVec(
		m.counterOpts("punches_landed_total", "Punches that removed opponent health"),
		[]string{"role"},
	)
	m.fighterHealth = auto.NewGaugeVec(
		m.gaugeOpts("fighter_health", "Current health per role"),
		[]string{"role"},
	)
	m.feedSubscribers = auto.NewGauge(
		m.gaugeOpts("feed_subscribers", "Active tick feed subscribers"),
	)
	m.feedDrops = auto.NewCounter(
		m.counterOpts("feed_drops_total", "Tick results dropped because a subscriber queue was full"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
}

// RecordConnectionAccepted counts a connection that claimed role.
func RecordConnectionAccepted(role string) {
	globalManager.connectionsAccepted.WithLabelValues(role).Inc()
}

// RecordConnectionRejected counts a lobby-full rejection.
func RecordConnectionRejected() {
	globalManager.connectionsRejected.Inc()
}

// RecordConnectionClosed counts a finished player connection.
func RecordConnectionClosed(role, reason string) {
	globalManager.connectionsClosed.WithLabelValues(role, reason).Inc()
}

// UpdateActivePlayers sets the number of occupied slots.
func UpdateActivePlayers(count int) {
	globalManager.activePlayers.Set(float64(count))
}

// RecordReaderPanic counts a recovered reader panic.
func RecordReaderPanic() {
	globalManager.readerPanics.Inc()
}

// RecordAcceptError counts a failed accept call.
func RecordAcceptError() {
	globalManager.acceptErrors.Inc()
}

// RecordFrameReceived counts one payload read for role and observes its size.
func RecordFrameReceived(role string, size int) {
	globalManager.framesReceived.WithLabelValues(role).Inc()
	globalManager.payloadBytes.Observe(float64(size))
}

// RecordEmptyFrame counts a payload that decoded to no pose.
func RecordEmptyFrame(role string) {
	globalManager.framesEmpty.WithLabelValues(role).Inc()
}

// RecordDecodeError counts a payload that failed to decode.
func RecordDecodeError(role string) {
	globalManager.decodeErrors.WithLabelValues(role).Inc()
}

// RecordShortFrame counts a frame the game loop ignored for missing arm joints.
func RecordShortFrame(role string) {
	globalManager.framesShort.WithLabelValues(role).Inc()
}

// RecordLoopPanic counts a game loop tick that recovered from a panic.
func RecordLoopPanic() {
	globalManager.loopPanics.Inc()
}

// RecordTick counts a game loop tick and its duration in milliseconds.
func RecordTick(durationMs float64) {
	globalManager.ticks.Inc()
	globalManager.tickDuration.Observe(durationMs)
}

// RecordAction counts a non-idle action for role.
func RecordAction(role, action string) {
	globalManager.actionsEmitted.WithLabelValues(role, action).Inc()
}

// RecordDegenerateSample counts a frame smoothed with dt <= 0.
func RecordDegenerateSample() {
	globalManager.degenerateSamples.Inc()
}

// RecordPunchLanded counts a punch by role that cost the opponent health.
func RecordPunchLanded(role string) {
	globalManager.punchesLanded.WithLabelValues(role).Inc()
}

// UpdateFighterHealth sets the health gauge for role.
func UpdateFighterHealth(role string, health int) {
	globalManager.fighterHealth.WithLabelValues(role).Set(float64(health))
}

// UpdateFeedSubscribers sets the number of tick feed subscribers.
func UpdateFeedSubscribers(count int) {
	globalManager.feedSubscribers.Set(float64(count))
}

// RecordFeedDrop counts a tick result dropped for a slow subscriber.
func RecordFeedDrop() {
	globalManager.feedDrops.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration in milliseconds.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry the global metrics live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
