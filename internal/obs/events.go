package obs

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nutrihaven/storefront/internal/events"
)

// EventMetrics feeds the domain collectors from emitted storefront events.
// Register the domain metrics before wiring it into the bus.
type EventMetrics struct{}

// Notify implements events.Notifier.
func (EventMetrics) Notify(_ context.Context, evt events.Event) error {
	switch evt.Topic {
	case events.TopicCartItemAdded:
		inc(CartMutationsTotal, "add")
	case events.TopicCartQtyUpdated:
		inc(CartMutationsTotal, "update_qty")
	case events.TopicCartItemRemoved:
		inc(CartMutationsTotal, "remove")
	case events.TopicCartCleared:
		inc(CartMutationsTotal, "clear")
	case events.TopicWishlistAdded:
		inc(WishlistTogglesTotal, "saved")
	case events.TopicWishlistRemoved:
		inc(WishlistTogglesTotal, "removed")
	case events.TopicPromoApplied:
		inc(PromoAttemptsTotal, "applied")
	case events.TopicPromoRejected:
		inc(PromoAttemptsTotal, "rejected")
	case events.TopicOrderCreated:
		if OrdersPlacedTotal != nil {
			OrdersPlacedTotal.Inc()
		}
	}
	return nil
}

func inc(vec *prometheus.CounterVec, label string) {
	if vec != nil {
		vec.WithLabelValues(label).Inc()
	}
}
