package obs_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/obs"
)

func TestEventMetricsCountsTopics(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("storefront", registry)

	bus := &events.Bus{Notifiers: []events.Notifier{obs.EventMetrics{}}}
	ctx := context.Background()

	for _, topic := range []string{
		events.TopicCartItemAdded,
		events.TopicCartItemAdded,
		events.TopicCartCleared,
		events.TopicPromoRejected,
		events.TopicOrderCreated,
	} {
		if _, err := bus.Emit(ctx, topic, nil); err != nil {
			t.Fatalf("emit %s: %v", topic, err)
		}
	}

	if got := testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("add")); got != 2 {
		t.Fatalf("expected 2 cart adds, got %v", got)
	}
	if got := testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("clear")); got != 1 {
		t.Fatalf("expected 1 cart clear, got %v", got)
	}
	if got := testutil.ToFloat64(obs.PromoAttemptsTotal.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("expected 1 rejected promo, got %v", got)
	}
	if got := testutil.ToFloat64(obs.OrdersPlacedTotal); got != 1 {
		t.Fatalf("expected 1 placed order, got %v", got)
	}
}
