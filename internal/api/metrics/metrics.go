// Package metrics defines and registers all custom Prometheus metrics for the
// session service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/procurecontract/session-service/internal/core/domain"
)

const namespace = "procurecontract"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts state machine transitions of session managers.
// Labels:
//   - from, to: session states ("loading", "unauthenticated", "authenticated")
//   - reason: the operation behind the transition (e.g. "login", "restore")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"from", "to", "reason"},
)

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "missing_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardDecisionsTotal counts route guard verdicts.
// Labels:
//   - verdict: "admit", "redirect" or "pending"
//   - route: the route name (e.g. "dashboard", "login")
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by verdict and route.",
	},
	[]string{"verdict", "route"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of transitions waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of transitions pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts transitions dropped because an audit queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of session transitions dropped by a full audit queue.",
	},
)

// ObserveTransition records t; it has the signature of ports.Observer.
func ObserveTransition(t domain.Transition) {
	SessionTransitionsTotal.WithLabelValues(string(t.From), string(t.To), string(t.Reason)).Inc()
}

// ClientCounter reports live and authenticated client counts.
type ClientCounter interface {
	Len() int
	Authenticated() int
}

// RegisterClientGauges exposes the live and authenticated client counts of c.
func RegisterClientGauges(reg prometheus.Registerer, c ClientCounter) error {
	live := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "clients_live",
		Help:      "Number of clients with a session manager in memory.",
	}, func() float64 { return float64(c.Len()) })

	authenticated := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "clients_authenticated",
		Help:      "Number of in-memory clients holding an authenticated session.",
	}, func() float64 { return float64(c.Authenticated()) })

	for _, col := range []prometheus.Collector{live, authenticated} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}
