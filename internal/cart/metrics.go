package cart

import "github.com/prometheus/client_golang/prometheus"

const (
	opAdd         = "add"
	opSetQuantity = "set_quantity"
	opRemove      = "remove"
	opClear       = "clear"
)

type Metrics struct {
	Mutations *prometheus.CounterVec
	Recovered prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodcart",
				Name:      "cart_mutations_total",
				Help:      "Persisted cart mutations by operation",
			},
			[]string{"op"},
		),
		Recovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodcart",
			Name:      "cart_snapshots_discarded_total",
			Help:      "Unreadable cart snapshots replaced by an empty cart",
		}),
	}

	reg.MustRegister(m.Mutations, m.Recovered)
	return m
}

func (m *Metrics) mutated(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) recovered() {
	if m == nil {
		return
	}
	m.Recovered.Inc()
}
