package repositories

import (
	"context"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// DoctorRepository defines the interface for doctor directory operations
type DoctorRepository interface {
	// Create creates a doctor with their weekly availability windows
	Create(ctx context.Context, doctor *entities.Doctor) error

	// GetByID retrieves a doctor with availability windows
	GetByID(ctx context.Context, id string) (*entities.Doctor, error)

	// List retrieves available doctors ordered by name, each with
	// availability windows and confirmed-appointment count
	List(ctx context.Context) ([]*entities.Doctor, error)

	// SearchBySpecialty retrieves available doctors whose specialty
	// contains the query, case-insensitively
	SearchBySpecialty(ctx context.Context, specialty string) ([]*entities.Doctor, error)

	// AvailabilityForDay retrieves a doctor's windows for one weekday
	AvailabilityForDay(ctx context.Context, doctorID string, dayOfWeek int) ([]*entities.AvailabilityWindow, error)

	// BookedTimes retrieves the proposed times of slot-holding appointments
	// for a doctor within [from, to)
	BookedTimes(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error)

	// ConfirmedTimes retrieves upcoming confirmed appointment times for a
	// doctor
	ConfirmedTimes(ctx context.Context, doctorID string) ([]time.Time, error)
}

// DoctorSearchRepository defines the interface for doctor directory search
type DoctorSearchRepository interface {
	// InitSchema ensures the search collection exists
	InitSchema(ctx context.Context) error

	// Index indexes a doctor document
	Index(ctx context.Context, doctor *entities.Doctor) error

	// Delete removes a doctor from the index
	Delete(ctx context.Context, id string) error

	// SearchBySpecialty searches doctors by specialty substring
	SearchBySpecialty(ctx context.Context, specialty string) ([]*entities.Doctor, error)
}
