package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nutrihaven/storefront/internal/common"
	"github.com/nutrihaven/storefront/internal/events"
)

// EmailNotifier sends an order confirmation when an order is placed. Other
// topics pass through untouched. The recipient comes from the event payload;
// To is a fallback for payloads without one.
type EmailNotifier struct {
	Sender common.EmailSender
	To     func(ctx context.Context) string
	Logger zerolog.Logger
}

// Notify implements events.Notifier.
func (n EmailNotifier) Notify(ctx context.Context, evt events.Event) error {
	if n.Sender == nil || evt.Topic != events.TopicOrderCreated {
		return nil
	}
	var payload struct {
		ID    string  `json:"id"`
		Total float64 `json:"total"`
		Email string  `json:"email"`
	}
	if err := json.Unmarshal(evt.Payload, &payload); err != nil {
		return fmt.Errorf("notify: decode order payload: %w", err)
	}
	to := payload.Email
	if to == "" && n.To != nil {
		to = n.To(ctx)
	}
	if to == "" {
		n.Logger.Debug().Str("order", payload.ID).Msg("no recipient for order confirmation")
		return nil
	}
	subject := fmt.Sprintf("Order %s confirmed", payload.ID)
	body := fmt.Sprintf("<p>Thanks for your order!</p><p>Order <strong>%s</strong> for $%.2f is being processed.</p>", payload.ID, payload.Total)
	if err := n.Sender.Send(to, subject, body); err != nil {
		return fmt.Errorf("notify: send confirmation: %w", err)
	}
	return nil
}
