package providers

import (
	"context"

	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelAppointmentUpdates is the channel for all appointment updates
	EventChannelAppointmentUpdates = "appointments:updates"

	// EventChannelUserPrefix is the prefix for per-patient channels
	EventChannelUserPrefix = "appointments:user:"
)

// GetUserChannel returns the channel name for a specific patient
func GetUserChannel(patientID string) string {
	return EventChannelUserPrefix + patientID
}
