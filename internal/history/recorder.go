package history

import (
	"context"
	"fmt"

	"omnibox_backend/internal/events"
)

// Recorder stores every InputClassified event it receives. Store failures are
// returned to the bus, which logs them.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// RegisterHandlers subscribes the recorder to classification events.
func (r *Recorder) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.InputClassified{}.EventName(), r)
}

// Handle implements events.Handler.
func (r *Recorder) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.InputClassified)
	if !ok {
		return nil
	}
	if e.ClientID == "" {
		return nil
	}

	entry := Entry{
		ID:           e.ID,
		Input:        e.Input,
		Kind:         e.Kind,
		Target:       e.Target,
		Engine:       e.Engine,
		WasDirectURL: e.WasDirectURL,
		CreatedAt:    e.OccurredAt(),
	}
	if err := r.store.Record(ctx, e.ClientID, entry); err != nil {
		return fmt.Errorf("record history for %s: %w", e.ClientID, err)
	}
	return nil
}
