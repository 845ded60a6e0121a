package notify

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/nutrihaven/storefront/internal/events"
)

// Severity grades a toast for the rendering layer.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Toast is the (title, message, severity) contract consumed by the
// notification collaborator. Core logic emits toasts but never depends on
// what the collaborator does with them.
type Toast struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Sink receives rendered toasts.
type Sink interface {
	Show(ctx context.Context, toast Toast)
}

// LogSink writes toasts to the structured log. It stands in for the UI toast
// surface, which is outside this service.
type LogSink struct {
	Logger zerolog.Logger
}

// Show logs the toast.
func (s LogSink) Show(_ context.Context, toast Toast) {
	s.Logger.Info().
		Str("title", toast.Title).
		Str("severity", string(toast.Severity)).
		Msg(toast.Message)
}

// ToastNotifier maps domain events onto toasts and forwards them to a sink.
// Implements events.Notifier.
type ToastNotifier struct {
	Sink    Sink
	Enabled bool
}

// Notify translates the event topic into a toast.
func (n ToastNotifier) Notify(ctx context.Context, ev events.Event) error {
	if !n.Enabled || n.Sink == nil {
		return nil
	}
	toast, ok := toastFor(ev)
	if !ok {
		return nil
	}
	n.Sink.Show(ctx, toast)
	return nil
}

func toastFor(ev events.Event) (Toast, bool) {
	switch ev.Topic {
	case events.TopicCartItemAdded:
		return Toast{Title: "Added to cart", Message: payloadName(ev) + " is now in your cart.", Severity: SeveritySuccess}, true
	case events.TopicCartItemRemoved:
		return Toast{Title: "Item removed", Message: "The item has been removed from your cart.", Severity: SeverityInfo}, true
	case events.TopicCartQtyUpdated:
		return Toast{Title: "Cart updated", Message: "Quantity updated.", Severity: SeverityInfo}, true
	case events.TopicCartCleared:
		return Toast{Title: "Cart cleared", Message: "All items were removed from your cart.", Severity: SeverityInfo}, true
	case events.TopicPromoApplied:
		return Toast{Title: "Promo code applied", Message: "You got 20% off your order!", Severity: SeveritySuccess}, true
	case events.TopicPromoRejected:
		return Toast{Title: "Invalid promo code", Message: "Please enter a valid promo code.", Severity: SeverityError}, true
	case events.TopicWishlistAdded:
		return Toast{Title: "Added to wishlist", Message: payloadName(ev) + " was added to your wishlist.", Severity: SeveritySuccess}, true
	case events.TopicWishlistRemoved:
		return Toast{Title: "Removed from wishlist", Message: payloadName(ev) + " was removed from your wishlist.", Severity: SeverityInfo}, true
	case events.TopicOrderCreated:
		return Toast{Title: "Order placed successfully!", Message: "Thank you for your order. You will receive a confirmation email shortly.", Severity: SeveritySuccess}, true
	default:
		return Toast{}, false
	}
}

func payloadName(ev events.Event) string {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(ev.Payload, &payload); err != nil || payload.Name == "" {
		return "The item"
	}
	return payload.Name
}
