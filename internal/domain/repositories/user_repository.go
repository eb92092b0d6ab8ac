package repositories

import (
	"context"

	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user account
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// UpdateMedicalInfo stores the onboarding profile and marks onboarding
	// complete
	UpdateMedicalInfo(ctx context.Context, id string, update UserMedicalUpdate) (*entities.User, error)
}

// UserMedicalUpdate carries the serialized onboarding profile columns
type UserMedicalUpdate struct {
	DateOfBirth      string
	Gender           string
	BloodType        string
	Allergies        string
	Medications      string
	MedicalHistory   string
	EmergencyContact string
}
