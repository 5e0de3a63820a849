// Package metrics provides Prometheus metrics for the action-cam service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Alignment outcome label values.
const (
	OutcomeAligned   = "aligned"
	OutcomeAdjust    = "adjust"
	OutcomeNoSubject = "no_subject"
	OutcomeError     = "error"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Sessions and recordings
	sessionsCreated   prometheus.Counter
	sessionsClosed    prometheus.Counter
	sessionsActive    prometheus.Gauge
	recordingsStarted prometheus.Counter
	recordingsStopped *prometheus.CounterVec

	// Guidance
	guidanceStepsShown    prometheus.Counter
	guidanceRunsCompleted prometheus.Counter

	// Alignment and detections
	alignmentEvaluations *prometheus.CounterVec
	detectionsReceived   prometheus.Counter
	detectionsDuplicate  prometheus.Counter
	detectionsDropped    *prometheus.CounterVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Presets
	presetsSaved prometheus.Counter
	presetsTotal prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "actioncam",
		subsystem:        "guidance",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	m.sessionsCreated = m.counter("sessions_created_total", "Total number of shot sessions created")
	m.sessionsClosed = m.counter("sessions_closed_total", "Total number of shot sessions closed")
	m.sessionsActive = m.gauge("sessions_active", "Number of open shot sessions")
	m.recordingsStarted = m.counter("recordings_started_total", "Total number of recordings started")
	m.recordingsStopped = m.counterVec("recordings_stopped_total", "Total number of recordings stopped by reason", "reason")

	m.guidanceStepsShown = m.counter("steps_shown_total", "Total number of guidance steps displayed")
	m.guidanceRunsCompleted = m.counter("runs_completed_total", "Total number of guidance runs that exhausted their plan")

	m.alignmentEvaluations = m.counterVec("alignment_evaluations_total", "Alignment evaluations by outcome", "outcome")
	m.detectionsReceived = m.counter("detections_received_total", "Detection frames received from clients")
	m.detectionsDuplicate = m.counter("detections_duplicate_total", "Detection frames rejected as duplicates")
	m.detectionsDropped = m.counterVec("detections_dropped_total", "Detection frames dropped without evaluation", "reason")

	m.queueSize = m.gauge("queue_size", "Current number of detection frames waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum capacity of the detection queue")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Detection frames enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Detection frames dequeued")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Failed enqueue attempts by reason", "reason")

	m.workerCount = m.gauge("worker_count", "Number of alignment workers")
	m.workerProcessingLatency = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_processing_latency_milliseconds",
		Help:        "Time spent evaluating one detection frame",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.workerErrors = m.counter("worker_errors_total", "Detection frames that failed evaluation")

	m.presetsSaved = m.counter("presets_saved_total", "Effect presets saved")
	m.presetsTotal = m.gauge("presets", "Number of stored effect presets")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// RecordSessionCreated counts a new session and bumps the active gauge.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
	globalManager.sessionsActive.Inc()
}

// RecordSessionClosed counts a closed session and lowers the active gauge.
func RecordSessionClosed() {
	globalManager.sessionsClosed.Inc()
	globalManager.sessionsActive.Dec()
}

// RecordRecordingStarted increments the recordings started counter.
func RecordRecordingStarted() {
	globalManager.recordingsStarted.Inc()
}

// RecordRecordingStopped increments the recordings stopped counter.
func RecordRecordingStopped(reason string) {
	globalManager.recordingsStopped.WithLabelValues(reason).Inc()
}

// RecordGuidanceStep increments the shown guidance steps counter.
func RecordGuidanceStep() {
	globalManager.guidanceStepsShown.Inc()
}

// RecordGuidanceCompleted increments the completed guidance runs counter.
func RecordGuidanceCompleted() {
	globalManager.guidanceRunsCompleted.Inc()
}

// RecordAlignment counts one evaluation under its outcome label.
func RecordAlignment(outcome string) {
	globalManager.alignmentEvaluations.WithLabelValues(outcome).Inc()
}

// RecordDetectionReceived counts an inbound detection frame.
func RecordDetectionReceived() {
	globalManager.detectionsReceived.Inc()
}

// RecordDetectionDuplicate counts a frame rejected by deduplication.
func RecordDetectionDuplicate() {
	globalManager.detectionsDuplicate.Inc()
}

// RecordDetectionDropped counts a frame accepted but not evaluated.
func RecordDetectionDropped(reason string) {
	globalManager.detectionsDropped.WithLabelValues(reason).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueued counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeued counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records per-frame processing time in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordPresetSaved counts a preset write and sets the stored total.
func RecordPresetSaved(total int) {
	globalManager.presetsSaved.Inc()
	globalManager.presetsTotal.Set(float64(total))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts an error attributed to a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
