// Package events defines the omnibox domain events. The bus itself lives in
// platform/events; its types are aliased here so modules import one package.
package events

import (
	"omnibox_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event     = events.Event
	Bus       = events.Bus
	Handler   = events.Handler
	BaseEvent = events.BaseEvent
	// InMemoryBus is the process-local Bus used by the API server.
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Omnibox Domain Events
// =============================================================================

// InputClassified is published after a line of input has been classified.
type InputClassified struct {
	BaseEvent
	ID           uuid.UUID `json:"id"`
	ClientID     string    `json:"clientId"`
	Input        string    `json:"input"`
	Kind         string    `json:"kind"`
	Target       string    `json:"target"`
	Engine       string    `json:"engine"`
	WasDirectURL bool      `json:"wasDirectUrl"`
}

func (e InputClassified) EventName() string { return "omnibox.input.classified" }
