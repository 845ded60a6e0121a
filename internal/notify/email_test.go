package notify_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nutrihaven/storefront/internal/common"
	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/notify"
)

func TestEmailNotifierSendsConfirmation(t *testing.T) {
	outbox := &common.InMemoryEmail{}
	n := notify.EmailNotifier{Sender: outbox, Logger: zerolog.Nop()}
	bus := &events.Bus{Notifiers: []events.Notifier{n}}

	_, err := bus.Emit(context.Background(), events.TopicOrderCreated, map[string]any{"id": "ORD123456", "total": 74.30, "email": "asha@example.com"})
	require.NoError(t, err)

	require.Len(t, outbox.Outbox, 1)
	require.Equal(t, "asha@example.com", outbox.Outbox[0].To)
	require.Contains(t, outbox.Outbox[0].Subject, "ORD123456")
	require.Contains(t, outbox.Outbox[0].HTML, "74.30")
}

func TestEmailNotifierIgnoresOtherTopics(t *testing.T) {
	outbox := &common.InMemoryEmail{}
	n := notify.EmailNotifier{Sender: outbox, To: func(context.Context) string { return "asha@example.com" }}
	bus := &events.Bus{Notifiers: []events.Notifier{n}}

	_, err := bus.Emit(context.Background(), events.TopicCartItemAdded, map[string]any{"id": "1"})
	require.NoError(t, err)
	require.Empty(t, outbox.Outbox)
}

func TestEmailNotifierNoRecipient(t *testing.T) {
	outbox := &common.InMemoryEmail{}
	n := notify.EmailNotifier{Sender: outbox, Logger: zerolog.Nop()}
	bus := &events.Bus{Notifiers: []events.Notifier{n}}

	_, err := bus.Emit(context.Background(), events.TopicOrderCreated, map[string]any{"id": "ORD000001", "total": 10.0})
	require.NoError(t, err)
	require.Empty(t, outbox.Outbox)
}
