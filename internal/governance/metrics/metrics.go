package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the governance module.
type Metrics struct {
	MultisigsCreated  prometheus.Counter
	ProposalsCreated  prometheus.Counter
	ProposalApprovals prometheus.Counter
	ProposalsExecuted *prometheus.CounterVec
	TimelockProposed  prometheus.Counter
	TimelockExecuted  *prometheus.CounterVec
	TimelockCancelled prometheus.Counter
}

// New creates a Metrics instance with all governance module metrics
// registered.
func New() *Metrics {
	return &Metrics{
		MultisigsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_multisigs_created_total",
			Help: "Total number of multisig configs created",
		}),
		ProposalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_proposals_created_total",
			Help: "Total number of multisig proposals created",
		}),
		ProposalApprovals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_proposal_approvals_total",
			Help: "Total number of proposal approvals recorded",
		}),
		ProposalsExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_proposals_executed_total",
			Help: "Total number of proposals executed by action type",
		}, []string{"action"}),
		TimelockProposed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_timelock_operations_proposed_total",
			Help: "Total number of timelock operations proposed",
		}),
		TimelockExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_timelock_operations_executed_total",
			Help: "Total number of timelock operations executed by action type",
		}, []string{"action"}),
		TimelockCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_timelock_operations_cancelled_total",
			Help: "Total number of timelock operations cancelled",
		}),
	}
}

func (m *Metrics) IncrementMultisigsCreated()  { m.MultisigsCreated.Inc() }
func (m *Metrics) IncrementProposalsCreated()  { m.ProposalsCreated.Inc() }
func (m *Metrics) IncrementApprovals()         { m.ProposalApprovals.Inc() }
func (m *Metrics) IncrementTimelockProposed()  { m.TimelockProposed.Inc() }
func (m *Metrics) IncrementTimelockCancelled() { m.TimelockCancelled.Inc() }

func (m *Metrics) IncrementProposalsExecuted(action string) {
	m.ProposalsExecuted.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementTimelockExecuted(action string) {
	m.TimelockExecuted.WithLabelValues(action).Inc()
}
