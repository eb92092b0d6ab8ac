package repositories

import (
	"context"

	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// MedicalRecordRepository defines the interface for health metric operations
type MedicalRecordRepository interface {
	// Upsert inserts the record or, when the user already tracks the key,
	// replaces its value, unit, notes and recorded time
	Upsert(ctx context.Context, record *entities.MedicalRecord) (*entities.MedicalRecord, error)

	// GetByKey retrieves one of a user's records by metric key
	GetByKey(ctx context.Context, userID, key string) (*entities.MedicalRecord, error)

	// ListByUser retrieves all of a user's records ordered by key
	ListByUser(ctx context.Context, userID string) ([]*entities.MedicalRecord, error)

	// Delete removes one of a user's records by metric key
	Delete(ctx context.Context, userID, key string) error
}
