package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
)

// UserService handles the patient profile and onboarding
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id string) (*entities.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateMedicalInfo stores the full onboarding profile. Onboarding is marked
// complete only when the whole profile persists.
func (s *UserService) UpdateMedicalInfo(ctx context.Context, id string, info entities.MedicalInfo) (*entities.User, error) {
	if info.DateOfBirth.IsZero() {
		return nil, apperrors.NewValidationError("date of birth is required")
	}
	if info.DateOfBirth.After(time.Now()) {
		return nil, apperrors.NewValidationError("date of birth must be in the past")
	}
	if info.Gender == "" {
		return nil, apperrors.NewValidationError("gender is required")
	}
	if info.BloodType == "" {
		return nil, apperrors.NewValidationError("blood type is required")
	}
	if info.EmergencyContact.Name == "" || info.EmergencyContact.Phone == "" {
		return nil, apperrors.NewValidationError("emergency contact name and phone are required")
	}

	allergies, err := marshalList(info.Allergies)
	if err != nil {
		return nil, err
	}
	medications, err := marshalList(info.Medications)
	if err != nil {
		return nil, err
	}
	history, err := marshalList(info.MedicalHistory)
	if err != nil {
		return nil, err
	}
	contact, err := json.Marshal(info.EmergencyContact)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to serialize emergency contact", err)
	}

	update := repositories.UserMedicalUpdate{
		DateOfBirth:      info.DateOfBirth.UTC().Format(time.RFC3339),
		Gender:           info.Gender,
		BloodType:        info.BloodType,
		Allergies:        allergies,
		Medications:      medications,
		MedicalHistory:   history,
		EmergencyContact: string(contact),
	}

	return s.repo.UpdateMedicalInfo(ctx, id, update)
}

// OnboardingCompleted reports whether the user has finished onboarding
func (s *UserService) OnboardingCompleted(ctx context.Context, id string) (bool, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.OnboardingCompleted, nil
}

// marshalList serializes a string list, normalizing nil to an empty list
func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", apperrors.NewInternalError("failed to serialize list", err)
	}
	return string(data), nil
}
