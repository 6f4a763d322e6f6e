package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const pre = "commissionhub_"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Measures groups the process-wide collectors.
var Measures = struct {
	Transitions        *prometheus.CounterVec
	TransitionDuration *prometheus.HistogramVec
	Notifications      *prometheus.CounterVec
	Reminders          *prometheus.CounterVec
}{
	Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: pre + "product_transitions_total",
		Help: "Product transitions attempted, by transition and outcome.",
	}, []string{"transition", "outcome"}),
	TransitionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    pre + "product_transition_seconds",
		Help:    "Time spent applying a product transition, lock wait included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"transition"}),
	Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: pre + "notifications_total",
		Help: "Notifications written, by channel and outcome.",
	}, []string{"channel", "outcome"}),
	Reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: pre + "payment_reminders_total",
		Help: "Payment reminder jobs, by outcome.",
	}, []string{"outcome"}),
}

func init() {
	prometheus.MustRegister(
		Measures.Transitions,
		Measures.TransitionDuration,
		Measures.Notifications,
		Measures.Reminders,
	)
}

func ObserveTransition(name, outcome string, started time.Time) {
	Measures.Transitions.WithLabelValues(name, outcome).Inc()
	Measures.TransitionDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
}

func CountNotification(channel string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	Measures.Notifications.WithLabelValues(channel, outcome).Inc()
}
