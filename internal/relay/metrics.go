package relay

import (
	"errors"
	"github.com/Geniuskaa/hackathon_registration/pkg/sheets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

type Metrics struct {
	submissions *prometheus.CounterVec
	rows        prometheus.Counter
	duration    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_submissions_total",
			Help: "Registration submissions handled by the relay, by outcome.",
		}, []string{"outcome"}),
		rows: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_rows_appended_total",
			Help: "Participant rows appended to the sink.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_append_duration_seconds",
			Help:    "Time spent appending one registration, authentication included.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(err error, rows int, took time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome(err)).Inc()
	m.rows.Add(float64(rows))
	m.duration.Observe(took.Seconds())
}

// outcome doubles as the error code sent back to clients.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, sheets.ErrAuth):
		return "auth_failed"
	default:
		return "upstream_failed"
	}
}
