package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the issuance module: operation counts,
// value moved, and rejected attempts by reason.
type Metrics struct {
	Mints       prometheus.Counter
	Burns       prometheus.Counter
	MintedValue prometheus.Counter
	BurnedValue prometheus.Counter
	Freezes     prometheus.Counter
	Thaws       prometheus.Counter
	BatchSizes  prometheus.Histogram
	Rejected    *prometheus.CounterVec
}

// New creates a Metrics instance with all issuance module metrics registered.
func New() *Metrics {
	return &Metrics{
		Mints: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_mints_total",
			Help: "Total number of successful mint operations",
		}),
		Burns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_burns_total",
			Help: "Total number of successful burn operations",
		}),
		MintedValue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_minted_value_total",
			Help: "Total token value minted in base units",
		}),
		BurnedValue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_burned_value_total",
			Help: "Total token value burned in base units",
		}),
		Freezes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_freezes_total",
			Help: "Total number of account freezes",
		}),
		Thaws: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sss_thaws_total",
			Help: "Total number of account thaws",
		}),
		BatchSizes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sss_batch_size",
			Help:    "Item counts of batch operations",
			Buckets: []float64{1, 2, 3, 5, 8, 10},
		}),
		Rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sss_issuance_rejected_total",
			Help: "Total number of rejected issuance operations by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserveMint(amount uint64) {
	m.Mints.Inc()
	m.MintedValue.Add(float64(amount))
}

func (m *Metrics) ObserveBurn(amount uint64) {
	m.Burns.Inc()
	m.BurnedValue.Add(float64(amount))
}

func (m *Metrics) IncrementFreezes() { m.Freezes.Inc() }
func (m *Metrics) IncrementThaws()   { m.Thaws.Inc() }

func (m *Metrics) ObserveBatch(size int) {
	m.BatchSizes.Observe(float64(size))
}

// IncrementRejected records a refused operation by its failure reason.
func (m *Metrics) IncrementRejected(reason string) {
	m.Rejected.WithLabelValues(reason).Inc()
}
