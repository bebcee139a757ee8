package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records counters for the order lifecycle and dispatch flow.
type DispatchMetrics struct {
	transitions      *prometheus.CounterVec
	assignments      *prometheus.CounterVec
	conflicts        prometheus.Counter
	distanceDuration prometheus.Histogram
	distanceFailures prometheus.Counter
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions",
		Help: "Order status transitions by source and destination status.",
	}, []string{"from", "to"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_assignments",
		Help: "Vendor assignments by mode (auto or manual).",
	}, []string{"mode"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_transition_conflicts",
		Help: "Transitions rejected because the order changed concurrently.",
	})
	distanceDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "distance_lookup_duration_seconds",
		Help:    "Duration of driving-distance lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	distanceFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "distance_lookup_failures",
		Help: "Driving-distance lookups that returned an error.",
	})
	reg.MustRegister(transitions, assignments, conflicts, distanceDuration, distanceFailures)
	return &DispatchMetrics{
		transitions:      transitions,
		assignments:      assignments,
		conflicts:        conflicts,
		distanceDuration: distanceDuration,
		distanceFailures: distanceFailures,
	}
}

// IncTransition counts a committed status transition.
func (d *DispatchMetrics) IncTransition(from, to string) {
	if d == nil || d.transitions == nil {
		return
	}
	d.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncAssignment counts a vendor assignment in the given mode.
func (d *DispatchMetrics) IncAssignment(mode string) {
	if d == nil || d.assignments == nil {
		return
	}
	d.assignments.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncConflict counts a transition lost to a concurrent update.
func (d *DispatchMetrics) IncConflict() {
	if d == nil || d.conflicts == nil {
		return
	}
	d.conflicts.Inc()
}

// ObserveDistanceLookup records how long a distance lookup took.
func (d *DispatchMetrics) ObserveDistanceLookup(duration time.Duration) {
	if d == nil || d.distanceDuration == nil {
		return
	}
	d.distanceDuration.Observe(duration.Seconds())
}

// IncDistanceFailure counts a failed distance lookup.
func (d *DispatchMetrics) IncDistanceFailure() {
	if d == nil || d.distanceFailures == nil {
		return
	}
	d.distanceFailures.Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
