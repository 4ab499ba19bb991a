package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Storefront records order, cart, cache and login activity.
type Storefront struct {
	ordersPlaced      *prometheus.CounterVec
	orderValue        *prometheus.HistogramVec
	cartOperations    *prometheus.CounterVec
	viewInvalidations *prometheus.CounterVec
	adminLogins       *prometheus.CounterVec
}

// NewStorefront registers the storefront collectors on reg. A nil registerer
// yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders accepted by the order pipeline.",
	}, []string{"payment_method"})
	orderValue := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_order_value_rupees",
		Help:    "Total price of placed orders.",
		Buckets: []float64{25, 50, 100, 200, 400, 800, 1600},
	}, []string{"payment_method"})
	cartOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"operation"})
	viewInvalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_view_invalidations_total",
		Help: "Cached views invalidated after a write.",
	}, []string{"view"})
	adminLogins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_admin_logins_total",
		Help: "Admin login attempts by result.",
	}, []string{"result"})
	reg.MustRegister(ordersPlaced, orderValue, cartOperations, viewInvalidations, adminLogins)
	return &Storefront{
		ordersPlaced:      ordersPlaced,
		orderValue:        orderValue,
		cartOperations:    cartOperations,
		viewInvalidations: viewInvalidations,
		adminLogins:       adminLogins,
	}
}

// OrderPlaced counts an order and observes its total.
func (s *Storefront) OrderPlaced(paymentMethod string, total decimal.Decimal) {
	if s == nil || s.ordersPlaced == nil {
		return
	}
	label := normalizeLabel(paymentMethod)
	s.ordersPlaced.WithLabelValues(label).Inc()
	s.orderValue.WithLabelValues(label).Observe(total.InexactFloat64())
}

func (s *Storefront) CartOperation(op string) {
	if s == nil || s.cartOperations == nil {
		return
	}
	s.cartOperations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ViewInvalidated takes the view family, not the full key, to bound cardinality.
func (s *Storefront) ViewInvalidated(view string) {
	if s == nil || s.viewInvalidations == nil {
		return
	}
	s.viewInvalidations.WithLabelValues(normalizeLabel(view)).Inc()
}

func (s *Storefront) AdminLogin(success bool) {
	if s == nil || s.adminLogins == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	s.adminLogins.WithLabelValues(result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
