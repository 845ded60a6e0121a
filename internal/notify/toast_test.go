package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nutrihaven/storefront/internal/events"
)

type captureSink struct {
	toasts []Toast
}

func (c *captureSink) Show(_ context.Context, toast Toast) {
	c.toasts = append(c.toasts, toast)
}

func TestToastNotifierMapsTopics(t *testing.T) {
	sink := &captureSink{}
	notifier := ToastNotifier{Sink: sink, Enabled: true}

	ev := events.Event{Topic: events.TopicWishlistAdded, Payload: json.RawMessage(`{"name":"Pistachios"}`)}
	if err := notifier.Notify(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.toasts) != 1 {
		t.Fatalf("expected one toast, got %d", len(sink.toasts))
	}
	if sink.toasts[0].Severity != SeveritySuccess {
		t.Fatalf("unexpected severity %q", sink.toasts[0].Severity)
	}
	if sink.toasts[0].Message != "Pistachios was added to your wishlist." {
		t.Fatalf("unexpected message %q", sink.toasts[0].Message)
	}
}

func TestToastNotifierIgnoresUnknownTopics(t *testing.T) {
	sink := &captureSink{}
	notifier := ToastNotifier{Sink: sink, Enabled: true}
	ev := events.Event{Topic: "something.else", Payload: json.RawMessage(`{}`)}
	if err := notifier.Notify(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.toasts) != 0 {
		t.Fatal("unknown topics must not raise toasts")
	}
}

func TestToastNotifierDisabled(t *testing.T) {
	sink := &captureSink{}
	notifier := ToastNotifier{Sink: sink}
	ev := events.Event{Topic: events.TopicOrderCreated, Payload: json.RawMessage(`{}`)}
	if err := notifier.Notify(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.toasts) != 0 {
		t.Fatal("disabled notifier must not raise toasts")
	}
}
