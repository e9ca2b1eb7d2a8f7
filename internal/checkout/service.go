package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"FoodCart/internal/cart"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidTotal = errors.New("cart total is negative")
)

// Cart is the part of a cart store checkout needs.
type Cart interface {
	IsEmpty() bool
	TotalQuantity() int
	Summary() cart.Summary
	Clear(ctx context.Context) error
}

// Receipt confirms a placed order. Nothing is recorded beyond the receipt
// itself.
type Receipt struct {
	Reference string       `json:"reference"`
	Items     int          `json:"items"`
	Summary   cart.Figures `json:"summary"`
	PlacedAt  time.Time    `json:"placed_at"`
}

type Service struct {
	Log     *zap.Logger
	Metrics *Metrics
	Now     func() time.Time
}

// Checkout totals the cart as it is right now, then empties it. An empty
// cart is rejected with ErrEmptyCart and left untouched.
func (s *Service) Checkout(ctx context.Context, c Cart) (Receipt, error) {
	if c.IsEmpty() {
		s.Metrics.observe(resultEmpty)
		return Receipt{}, ErrEmptyCart
	}

	summary := c.Summary()
	if summary.Total.IsNegative() {
		s.Metrics.observe(resultFailed)
		return Receipt{}, ErrInvalidTotal
	}
	revenue := summary.Total.InexactFloat64()

	r := Receipt{
		Reference: "r_" + uuid.NewString(),
		Items:     c.TotalQuantity(),
		Summary:   summary.Format(),
		PlacedAt:  s.now(),
	}

	if err := c.Clear(ctx); err != nil {
		s.Metrics.observe(resultFailed)
		return Receipt{}, fmt.Errorf("clear cart: %w", err)
	}

	s.Metrics.observe(resultPlaced)
	s.Metrics.addRevenue(revenue)
	if s.Log != nil {
		s.Log.Info("order placed",
			zap.String("reference", r.Reference),
			zap.Int("items", r.Items),
			zap.String("total", r.Summary.Total),
		)
	}
	return r, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

const (
	resultPlaced = "placed"
	resultEmpty  = "empty"
	resultFailed = "failed"
)

type Metrics struct {
	Checkouts *prometheus.CounterVec
	Revenue   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Checkouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodcart",
				Name:      "checkouts_total",
				Help:      "Checkout attempts by result",
			},
			[]string{"result"},
		),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodcart",
			Name:      "checkout_total_amount",
			Help:      "Sum of confirmed order totals including tax",
		}),
	}

	reg.MustRegister(m.Checkouts, m.Revenue)
	return m
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) addRevenue(v float64) {
	if m == nil || v <= 0 {
		return
	}
	m.Revenue.Add(v)
}
