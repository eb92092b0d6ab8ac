package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
	"github.com/google/uuid"
)

// MedicalRecordService handles per-patient health metrics
type MedicalRecordService struct {
	repo repositories.MedicalRecordRepository
}

// NewMedicalRecordService creates a new medical record service
func NewMedicalRecordService(repo repositories.MedicalRecordRepository) *MedicalRecordService {
	return &MedicalRecordService{repo: repo}
}

// Upsert records a health metric, replacing any earlier reading for the same
// key
func (s *MedicalRecordService) Upsert(ctx context.Context, userID, key string, value json.RawMessage, unit, notes string, recordedAt *time.Time) (*entities.MedicalRecord, error) {
	if !entities.IsValidMedicalRecordKey(key) {
		return nil, apperrors.NewValidationError("unknown medical record key")
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, apperrors.NewValidationError("value must be valid JSON")
	}

	now := time.Now()
	recorded := now
	if recordedAt != nil {
		recorded = *recordedAt
	}

	record := &entities.MedicalRecord{
		ID:         uuid.New().String(),
		UserID:     userID,
		Key:        key,
		Value:      value,
		Unit:       unit,
		Notes:      notes,
		RecordedAt: recorded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return s.repo.Upsert(ctx, record)
}

// Get returns one of the caller's records by metric key
func (s *MedicalRecordService) Get(ctx context.Context, userID, key string) (*entities.MedicalRecord, error) {
	if !entities.IsValidMedicalRecordKey(key) {
		return nil, apperrors.NewValidationError("unknown medical record key")
	}
	return s.repo.GetByKey(ctx, userID, key)
}

// List returns all of the caller's records
func (s *MedicalRecordService) List(ctx context.Context, userID string) ([]*entities.MedicalRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Summary returns the caller's records keyed by metric
func (s *MedicalRecordService) Summary(ctx context.Context, userID string) (map[string]*entities.MedicalRecord, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := make(map[string]*entities.MedicalRecord, len(records))
	for _, record := range records {
		summary[record.Key] = record
	}
	return summary, nil
}

// Delete removes one of the caller's records by metric key
func (s *MedicalRecordService) Delete(ctx context.Context, userID, key string) error {
	if !entities.IsValidMedicalRecordKey(key) {
		return apperrors.NewValidationError("unknown medical record key")
	}
	return s.repo.Delete(ctx, userID, key)
}
