package entities

import (
	"time"
)

// AppointmentEventType represents the type of appointment event
type AppointmentEventType string

const (
	AppointmentEventCreated       AppointmentEventType = "created"
	AppointmentEventStatusChanged AppointmentEventType = "status_changed"
	AppointmentEventNegotiated    AppointmentEventType = "negotiated"
	AppointmentEventCancelled     AppointmentEventType = "cancelled"
)

// AppointmentEvent represents a change to an appointment, published on the
// event bus for streaming to clients and cache invalidation.
type AppointmentEvent struct {
	ID            string               `json:"id"`
	AppointmentID string               `json:"appointment_id"`
	DoctorID      string               `json:"doctor_id"`
	PatientID     string               `json:"patient_id"`
	EventType     AppointmentEventType `json:"event_type"`
	Status        AppointmentStatus    `json:"status"`
	ProposedAt    time.Time            `json:"proposed_at"`
	Timestamp     time.Time            `json:"timestamp"`
}
