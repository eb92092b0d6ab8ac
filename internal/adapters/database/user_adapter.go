package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var userColumns = []interface{}{
	"id", "email", "password", "first_name", "last_name", "phone",
	"date_of_birth", "gender", "blood_type", "allergies", "medications",
	"medical_history", "emergency_contact", "onboarding_completed",
	"created_at", "updated_at",
}

// Create creates a new user account
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":                   user.ID,
		"email":                user.Email,
		"password":             user.Password,
		"first_name":           user.FirstName,
		"last_name":            user.LastName,
		"phone":                user.Phone,
		"onboarding_completed": user.OnboardingCompleted,
		"created_at":           user.CreatedAt,
		"updated_at":           user.UpdatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return apperrors.NewConflictError("email already registered")
	}
	if err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"email": email}, "user not found")
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From("users").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	var dateOfBirth sql.NullTime
	var gender, bloodType, allergies, medications, medicalHistory, emergencyContact sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&dateOfBirth,
		&gender,
		&bloodType,
		&allergies,
		&medications,
		&medicalHistory,
		&emergencyContact,
		&user.OnboardingCompleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	if dateOfBirth.Valid {
		user.DateOfBirth = &dateOfBirth.Time
	}
	user.Gender = gender.String
	user.BloodType = bloodType.String
	user.Allergies = allergies.String
	user.Medications = medications.String
	user.MedicalHistory = medicalHistory.String
	user.EmergencyContact = emergencyContact.String

	return user, nil
}

// UpdateMedicalInfo stores the onboarding profile and marks onboarding complete
func (a *UserAdapter) UpdateMedicalInfo(ctx context.Context, id string, update repositories.UserMedicalUpdate) (*entities.User, error) {
	record := goqu.Record{
		"date_of_birth":        update.DateOfBirth,
		"gender":               update.Gender,
		"blood_type":           update.BloodType,
		"allergies":            update.Allergies,
		"medications":          update.Medications,
		"medical_history":      update.MedicalHistory,
		"emergency_contact":    update.EmergencyContact,
		"onboarding_completed": true,
		"updated_at":           time.Now(),
	}

	query, args, err := a.db.Update("users").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update medical info", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}

	return a.GetByID(ctx, id)
}
