package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the roles module.
type Metrics struct {
	RoleUpdates   prometheus.Counter
	QuotaUpdates  prometheus.Counter
	GateRejected  *prometheus.CounterVec
	QuotaRejected prometheus.Counter
}

// New creates a Metrics instance with all roles module metrics registered.
func New() *Metrics {
	return &Metrics{
		RoleUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_role_updates_total",
			Help: "Total number of capability grant updates",
		}),
		QuotaUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_minter_quota_updates_total",
			Help: "Total number of minter quota configurations",
		}),
		GateRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_authorization_rejected_total",
			Help: "Total number of capability checks that failed",
		}, []string{"capability"}),
		QuotaRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_minter_quota_rejected_total",
			Help: "Total number of mints rejected by quota checks",
		}),
	}
}

func (m *Metrics) IncrementRoleUpdates()  { m.RoleUpdates.Inc() }
func (m *Metrics) IncrementQuotaUpdates() { m.QuotaUpdates.Inc() }
func (m *Metrics) IncrementQuotaRejected() {
	m.QuotaRejected.Inc()
}

// IncrementGateRejected records a failed capability check.
func (m *Metrics) IncrementGateRejected(capability string) {
	m.GateRejected.WithLabelValues(capability).Inc()
}
