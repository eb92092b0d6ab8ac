package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carebridge/portal/backend/internal/application/services"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
)

// Mocks

type MockMedicalRecordRepository struct {
	mock.Mock
}

func (m *MockMedicalRecordRepository) Upsert(ctx context.Context, record *entities.MedicalRecord) (*entities.MedicalRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) GetByKey(ctx context.Context, userID, key string) (*entities.MedicalRecord, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) ListByUser(ctx context.Context, userID string) ([]*entities.MedicalRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) Delete(ctx context.Context, userID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

// Tests

func TestMedicalRecordService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a metric under a known key", func(t *testing.T) {
		repo := new(MockMedicalRecordRepository)
		service := services.NewMedicalRecordService(repo)

		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entities.MedicalRecord) bool {
			return r.UserID == "user-1" &&
				r.Key == "blood_pressure" &&
				string(r.Value) == `{"systolic":120,"diastolic":80}` &&
				r.Unit == "mmHg" &&
				r.ID != "" &&
				!r.RecordedAt.IsZero()
		})).Return(&entities.MedicalRecord{ID: "rec-1", Key: "blood_pressure"}, nil)

		record, err := service.Upsert(ctx, "user-1", "blood_pressure",
			json.RawMessage(`{"systolic":120,"diastolic":80}`), "mmHg", "", nil)

		assert.NoError(t, err)
		assert.Equal(t, "blood_pressure", record.Key)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		repo := new(MockMedicalRecordRepository)
		service := services.NewMedicalRecordService(repo)

		_, err := service.Upsert(ctx, "user-1", "shoe_size", json.RawMessage(`44`), "", "", nil)

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		repo := new(MockMedicalRecordRepository)
		service := services.NewMedicalRecordService(repo)

		_, err := service.Upsert(ctx, "user-1", "weight", json.RawMessage(`{not json`), "kg", "", nil)

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

		_, err = service.Upsert(ctx, "user-1", "weight", nil, "kg", "", nil)

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}

func TestMedicalRecordService_Summary(t *testing.T) {
	ctx := context.Background()

	repo := new(MockMedicalRecordRepository)
	service := services.NewMedicalRecordService(repo)

	records := []*entities.MedicalRecord{
		{ID: "rec-1", Key: "blood_pressure"},
		{ID: "rec-2", Key: "weight"},
	}
	repo.On("ListByUser", mock.Anything, "user-1").Return(records, nil)

	summary, err := service.Summary(ctx, "user-1")

	assert.NoError(t, err)
	assert.Len(t, summary, 2)
	assert.Equal(t, "rec-1", summary["blood_pressure"].ID)
	assert.Equal(t, "rec-2", summary["weight"].ID)
}

func TestMedicalRecordService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a metric by key", func(t *testing.T) {
		repo := new(MockMedicalRecordRepository)
		service := services.NewMedicalRecordService(repo)

		repo.On("Delete", mock.Anything, "user-1", "weight").Return(nil)

		assert.NoError(t, service.Delete(ctx, "user-1", "weight"))
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		repo := new(MockMedicalRecordRepository)
		service := services.NewMedicalRecordService(repo)

		err := service.Delete(ctx, "user-1", "shoe_size")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}
