// Package events is the in-process publish/subscribe layer. Publishers such as
// the omnibox service announce what happened; subscribers such as the history
// recorder react without the publisher knowing about them.
package events

import (
	"context"
	"time"
)

// Event is anything published on a Bus.
type Event interface {
	// EventName is the subscription key, e.g. "omnibox.input.classified".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent stamps an event with the time it was created.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to one published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe to a Bus.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans events out to their subscribers.
type Bus interface {
	// Publish hands the event to every subscriber in the background. Failures
	// are the bus's to log; the publisher never sees them.
	Publish(ctx context.Context, event Event)
	// PublishSync runs every subscriber before returning and joins their errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
