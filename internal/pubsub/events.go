// Package pubsub provides a generic publish/subscribe event system used to
// fan out log entries and script reload notices to listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
	// ReloadedEvent is published after the script hook swapped in a new runtime.
	ReloadedEvent EventType = "reloaded"
	// ReloadFailedEvent is published when a reload was rejected and the old runtime kept.
	ReloadFailedEvent EventType = "reload_failed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

// Next waits for the next event on ch.
// Returns false if ctx is done or the channel was closed.
func Next[T any](ctx context.Context, ch <-chan Event[T]) (Event[T], bool) {
	select {
	case <-ctx.Done():
		return Event[T]{}, false
	case ev, ok := <-ch:
		return ev, ok
	}
}
