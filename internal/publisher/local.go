package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gymblog/gymblog/internal/realtime"
)

// Local delivers events directly to the process' hub.
type Local struct {
	hub *realtime.Hub
}

// NewLocal creates new instance of Local.
func NewLocal(hub *realtime.Hub) *Local {
	return &Local{hub: hub}
}

// Publish implements Publisher.
func (l *Local) Publish(_ context.Context, e Event) error {
	return Deliver(l.hub, e)
}

// Deliver pushes e to subscribers of the post's topic.
func Deliver(hub *realtime.Hub, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	hub.Publish(Topic(e.PostID), b)

	return nil
}
