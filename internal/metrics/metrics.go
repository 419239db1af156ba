package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "interview"

// Metrics holds Prometheus metrics for the service
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
	DBConnPoolStats  *prometheus.GaugeVec

	AttemptsStarted   prometheus.Counter
	AttemptsCompleted prometheus.Counter
	AnswersRecorded   *prometheus.CounterVec
	ProgressFailures  prometheus.Counter
	FeedbackResults   *prometheus.CounterVec
	QuizScores        prometheus.Histogram
}

// New registers the service metrics with reg. Passing a fresh registry
// keeps repeated construction in tests from colliding.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
			[]string{"route"},
		),
		DBConnPoolStats: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"},
		),
		AttemptsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attempts",
			Name:      "started_total",
			Help:      "Interview attempts created",
		}),
		AttemptsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attempts",
			Name:      "completed_total",
			Help:      "Interview attempts completed",
		}),
		AnswersRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "attempts",
				Name:      "answers_recorded_total",
				Help:      "Answers recorded, by grading outcome",
			},
			[]string{"outcome"}, // correct, incorrect, ungraded, duplicate
		),
		ProgressFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attempts",
			Name:      "progress_update_failures_total",
			Help:      "Progress checkpoints that could not be written",
		}),
		FeedbackResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "feedback",
				Name:      "generations_total",
				Help:      "Feedback generation attempts, by status",
			},
			[]string{"status"},
		),
		QuizScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "attempts",
			Name:      "quiz_score_percent",
			Help:      "Distribution of final quiz scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}

// Outcome labels for AnswersRecorded
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeUngraded  = "ungraded"
	OutcomeDuplicate = "duplicate"
)

// AnswerOutcome maps a tri-state grading result onto a label.
func AnswerOutcome(isCorrect *bool) string {
	switch {
	case isCorrect == nil:
		return OutcomeUngraded
	case *isCorrect:
		return OutcomeCorrect
	default:
		return OutcomeIncorrect
	}
}

// GinMiddleware records request count, latency and in-flight gauges per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.RequestsInFlight.WithLabelValues(route).Inc()
		defer m.RequestsInFlight.WithLabelValues(route).Dec()

		start := time.Now()
		c.Next()

		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RecordDBStats copies connection pool statistics into gauges.
func (m *Metrics) RecordDBStats(stats sql.DBStats) {
	m.DBConnPoolStats.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(stats.Idle))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
}
