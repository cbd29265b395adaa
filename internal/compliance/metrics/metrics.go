package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	BlacklistAdds    prometheus.Counter
	BlacklistRemoves prometheus.Counter
	Seizures         prometheus.Counter
	SeizedValue      prometheus.Counter
	TransferChecks   *prometheus.CounterVec
}

// New creates a Metrics instance with all compliance module metrics
// registered.
func New() *Metrics {
	return &Metrics{
		BlacklistAdds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_blacklist_adds_total",
			Help: "Total number of addresses added to a blacklist",
		}),
		BlacklistRemoves: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_blacklist_removes_total",
			Help: "Total number of addresses removed from a blacklist",
		}),
		Seizures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_seizures_total",
			Help: "Total number of seizure transfers",
		}),
		SeizedValue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_seized_value_total",
			Help: "Total token value seized in base units",
		}),
		TransferChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_transfer_checks_total",
			Help: "Total number of transfer hook checks by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementBlacklistAdds()    { m.BlacklistAdds.Inc() }
func (m *Metrics) IncrementBlacklistRemoves() { m.BlacklistRemoves.Inc() }

func (m *Metrics) ObserveSeizure(amount uint64) {
	m.Seizures.Inc()
	m.SeizedValue.Add(float64(amount))
}

// IncrementTransferCheck records a hook decision: "allowed" or the denial
// reason.
func (m *Metrics) IncrementTransferCheck(result string) {
	m.TransferChecks.WithLabelValues(result).Inc()
}
