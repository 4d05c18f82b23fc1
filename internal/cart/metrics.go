package cart

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	LoadCorrupt     prometheus.Counter
	IntegrityFaults prometheus.Counter
	Checkouts       prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoadCorrupt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_store_load_corrupt_total",
			Help: "Times the persisted cart store was unreadable at startup and replaced with an empty one",
		}),
		IntegrityFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_integrity_faults_total",
			Help: "Cart lines referencing an option id absent from the catalog",
		}),
		Checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_checkouts_total",
			Help: "Successful checkouts",
		}),
	}

	reg.MustRegister(m.LoadCorrupt, m.IntegrityFaults, m.Checkouts)
	return m
}
