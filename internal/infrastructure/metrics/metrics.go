package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Zhipin Server Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zhipin",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zhipin",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Interview turn counters
	InterviewTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zhipin",
			Subsystem: "server",
			Name:      "interview_turns_total",
			Help:      "Total interview turns produced",
		},
		[]string{"role", "status"},
	)

	// Provider chat call duration
	ChatCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zhipin",
			Subsystem: "server",
			Name:      "chat_call_duration_seconds",
			Help:      "SecondMe chat call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	// Evaluation counters
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zhipin",
			Subsystem: "server",
			Name:      "evaluations_total",
			Help:      "Total interview evaluations",
		},
		[]string{"outcome"},
	)

	// Queue depth gauge
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "zhipin",
			Subsystem: "server",
			Name:      "queue_depth",
			Help:      "Background interview task queue depth",
		},
	)

	// Background task counter
	BackgroundTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zhipin",
			Subsystem: "server",
			Name:      "background_tasks_total",
			Help:      "Total background interview tasks processed",
		},
		[]string{"task_type", "status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordInterviewTurn records one produced interview turn
func RecordInterviewTurn(role, status string) {
	InterviewTurnsTotal.WithLabelValues(role, status).Inc()
}

// RecordChatCall records a SecondMe chat call
func RecordChatCall(kind string, durationSec float64) {
	ChatCallDuration.WithLabelValues(kind).Observe(durationSec)
}

// RecordEvaluation records an evaluation outcome (matched, rejected, degraded)
func RecordEvaluation(outcome string) {
	EvaluationsTotal.WithLabelValues(outcome).Inc()
}

// SetQueueDepth sets the current queue depth
func SetQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}

// RecordBackgroundTask records a background task execution
func RecordBackgroundTask(taskType, status string) {
	BackgroundTasksTotal.WithLabelValues(taskType, status).Inc()
}
