package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "foodbridge"

// Donation intake outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// IntakeMetrics tracks donation intake and pickup queue activity.
type IntakeMetrics struct {
	donations   *prometheus.CounterVec
	quantity    prometheus.Counter
	urgency     prometheus.Histogram
	unrouted    prometheus.Counter
	transitions *prometheus.CounterVec
}

// NewIntakeMetrics registers the intake metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	if reg == nil {
		return &IntakeMetrics{}
	}
	donations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "donations_total",
		Help:      "Donation submissions by outcome.",
	}, []string{"outcome", "category"})
	quantity := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "donated_kilograms_total",
		Help:      "Kilograms of accepted food.",
	})
	urgency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "pickup_urgency_score",
		Help:      "Urgency scores assigned to new pickup requests.",
		Buckets:   []float64{20, 40, 60, 80, 90, 100, 110, 125, 150},
	})
	unrouted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "donations_unrouted_total",
		Help:      "Accepted donations for which no hunger zone was available.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "pickup_transitions_total",
		Help:      "Pickup request status transitions.",
	}, []string{"status"})
	reg.MustRegister(donations, quantity, urgency, unrouted, transitions)
	return &IntakeMetrics{
		donations:   donations,
		quantity:    quantity,
		urgency:     urgency,
		unrouted:    unrouted,
		transitions: transitions,
	}
}

// IncDonation counts a submission with the given outcome.
func (m *IntakeMetrics) IncDonation(outcome, category string) {
	if m == nil || m.donations == nil {
		return
	}
	m.donations.WithLabelValues(normalizeLabel(outcome), normalizeLabel(category)).Inc()
}

// AddKilograms adds accepted weight.
func (m *IntakeMetrics) AddKilograms(kg float64) {
	if m == nil || m.quantity == nil || kg <= 0 {
		return
	}
	m.quantity.Add(kg)
}

// ObserveUrgency records the score of a new pickup request.
func (m *IntakeMetrics) ObserveUrgency(score float64) {
	if m == nil || m.urgency == nil {
		return
	}
	m.urgency.Observe(score)
}

// IncUnrouted counts a donation that produced no pickup request.
func (m *IntakeMetrics) IncUnrouted() {
	if m == nil || m.unrouted == nil {
		return
	}
	m.unrouted.Inc()
}

// IncTransition counts a pickup moving into status.
func (m *IntakeMetrics) IncTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
