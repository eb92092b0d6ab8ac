package repositories

import (
	"context"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create inserts a new appointment. Returns a conflict error when the
	// doctor already holds an active appointment at the proposed time.
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment with its negotiation history
	// (newest first) and doctor summary
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// ListByPatient retrieves a patient's appointments ordered by proposed
	// time ascending, each with doctor summary and negotiations
	ListByPatient(ctx context.Context, patientID string, filter AppointmentFilter) ([]*entities.Appointment, error)

	// UpdateStatus moves an appointment to a new status. Confirming marks
	// pending negotiations accepted; cancelling marks them declined. Both
	// happen in the same transaction as the status change.
	UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error

	// Negotiate updates the appointment's proposed time and status to
	// NEGOTIATING and appends a negotiation row, in one transaction
	Negotiate(ctx context.Context, id string, negotiation *entities.Negotiation) error

	// ListNegotiations retrieves an appointment's negotiations newest first
	ListNegotiations(ctx context.Context, appointmentID string) ([]*entities.Negotiation, error)
}

// AppointmentFilter defines filters for listing appointments
type AppointmentFilter struct {
	Status entities.AppointmentStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
