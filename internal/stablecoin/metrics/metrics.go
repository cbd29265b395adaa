package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the stablecoin module.
type Metrics struct {
	Initialized        prometheus.Counter
	PauseTransitions   *prometheus.CounterVec
	SupplyCapUpdates   prometheus.Counter
	AuthorityTransfers prometheus.Counter
}

// New creates a Metrics instance with all stablecoin module metrics
// registered.
func New() *Metrics {
	return &Metrics{
		Initialized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_stablecoins_initialized_total",
			Help: "Total number of stablecoins initialized",
		}),
		PauseTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_pause_transitions_total",
			Help: "Total number of pause state transitions",
		}, []string{"state"}),
		SupplyCapUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_supply_cap_updates_total",
			Help: "Total number of supply cap updates",
		}),
		AuthorityTransfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_authority_transfers_total",
			Help: "Total number of completed authority transfers",
		}),
	}
}

func (m *Metrics) IncrementInitialized()      { m.Initialized.Inc() }
func (m *Metrics) IncrementSupplyCapUpdates() { m.SupplyCapUpdates.Inc() }

// IncrementPauseTransition records a pause or unpause, labeled by the state
// entered.
func (m *Metrics) IncrementPauseTransition(state string) {
	m.PauseTransitions.WithLabelValues(state).Inc()
}

func (m *Metrics) IncrementAuthorityTransfers() { m.AuthorityTransfers.Inc() }
