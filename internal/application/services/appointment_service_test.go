package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carebridge/portal/backend/internal/application/services"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
)

// Mocks

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	args := m.Called(ctx, patientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Negotiate(ctx context.Context, id string, negotiation *entities.Negotiation) error {
	args := m.Called(ctx, id, negotiation)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListNegotiations(ctx context.Context, appointmentID string) ([]*entities.Negotiation, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Negotiation), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.AppointmentEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Tests

func TestAppointmentService_Create(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	t.Run("books a pending appointment", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		doctorRepo := new(MockDoctorRepository)
		service := services.NewAppointmentService(repo, doctorRepo, nil)

		doctorRepo.On("GetByID", mock.Anything, "doc-1").Return(&entities.Doctor{ID: "doc-1"}, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Appointment) bool {
			return a.Status == entities.AppointmentStatusPending &&
				a.PatientID == "pat-1" &&
				a.DoctorID == "doc-1" &&
				a.ProposedAt.Location() == time.UTC &&
				a.ID != ""
		})).Return(nil)

		appointment, err := service.Create(ctx, "pat-1", "doc-1", future, "first visit")

		assert.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusPending, appointment.Status)
		assert.Equal(t, "first visit", appointment.Notes)
		repo.AssertExpectations(t)
	})

	t.Run("rejects times in the past", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		doctorRepo := new(MockDoctorRepository)
		service := services.NewAppointmentService(repo, doctorRepo, nil)

		_, err := service.Create(ctx, "pat-1", "doc-1", time.Now().Add(-time.Hour), "")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown doctors", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		doctorRepo := new(MockDoctorRepository)
		service := services.NewAppointmentService(repo, doctorRepo, nil)

		doctorRepo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("Doctor not found"))

		_, err := service.Create(ctx, "pat-1", "missing", future, "")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("surfaces slot conflicts", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		doctorRepo := new(MockDoctorRepository)
		service := services.NewAppointmentService(repo, doctorRepo, nil)

		doctorRepo.On("GetByID", mock.Anything, "doc-1").Return(&entities.Doctor{ID: "doc-1"}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(apperrors.NewConflictError("This time slot is no longer available"))

		_, err := service.Create(ctx, "pat-1", "doc-1", future, "")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	})

	t.Run("announces the booking on both channels", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		doctorRepo := new(MockDoctorRepository)
		eventBus := new(MockEventBus)
		service := services.NewAppointmentService(repo, doctorRepo, eventBus)

		doctorRepo.On("GetByID", mock.Anything, "doc-1").Return(&entities.Doctor{ID: "doc-1"}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		eventBus.On("Publish", mock.Anything, "appointments:updates", mock.MatchedBy(func(e *entities.AppointmentEvent) bool {
			return e.EventType == entities.AppointmentEventCreated && e.PatientID == "pat-1"
		})).Return(nil)
		eventBus.On("Publish", mock.Anything, "appointments:user:pat-1", mock.Anything).Return(nil)

		_, err := service.Create(ctx, "pat-1", "doc-1", future, "")

		assert.NoError(t, err)
		eventBus.AssertExpectations(t)
	})
}

func TestAppointmentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("hides other patients' appointments", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), nil)

		repo.On("GetByID", mock.Anything, "apt-1").Return(&entities.Appointment{
			ID:        "apt-1",
			PatientID: "someone-else",
		}, nil)

		_, err := service.Get(ctx, "pat-1", "apt-1")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
	})

	t.Run("returns the caller's appointment", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), nil)

		repo.On("GetByID", mock.Anything, "apt-1").Return(&entities.Appointment{
			ID:        "apt-1",
			PatientID: "pat-1",
		}, nil)

		appointment, err := service.Get(ctx, "pat-1", "apt-1")

		assert.NoError(t, err)
		assert.Equal(t, "apt-1", appointment.ID)
	})
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts only CONFIRMED and CANCELLED", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), nil)

		_, err := service.UpdateStatus(ctx, "pat-1", "apt-1", entities.AppointmentStatusCompleted)

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirms an appointment", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), nil)

		pending := &entities.Appointment{ID: "apt-1", PatientID: "pat-1", Status: entities.AppointmentStatusPending}
		confirmed := &entities.Appointment{ID: "apt-1", PatientID: "pat-1", Status: entities.AppointmentStatusConfirmed}

		repo.On("GetByID", mock.Anything, "apt-1").Return(pending, nil).Once()
		repo.On("UpdateStatus", mock.Anything, "apt-1", entities.AppointmentStatusConfirmed).Return(nil)
		repo.On("GetByID", mock.Anything, "apt-1").Return(confirmed, nil).Once()

		appointment, err := service.UpdateStatus(ctx, "pat-1", "apt-1", entities.AppointmentStatusConfirmed)

		assert.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusConfirmed, appointment.Status)
		repo.AssertExpectations(t)
	})

	t.Run("cancelling announces a cancellation event", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		eventBus := new(MockEventBus)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), eventBus)

		confirmed := &entities.Appointment{ID: "apt-1", PatientID: "pat-1", Status: entities.AppointmentStatusConfirmed}
		cancelled := &entities.Appointment{ID: "apt-1", PatientID: "pat-1", Status: entities.AppointmentStatusCancelled}

		repo.On("GetByID", mock.Anything, "apt-1").Return(confirmed, nil).Once()
		repo.On("UpdateStatus", mock.Anything, "apt-1", entities.AppointmentStatusCancelled).Return(nil)
		repo.On("GetByID", mock.Anything, "apt-1").Return(cancelled, nil).Once()
		eventBus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.AppointmentEvent) bool {
			return e.EventType == entities.AppointmentEventCancelled
		})).Return(nil).Times(2)

		_, err := service.Cancel(ctx, "pat-1", "apt-1")

		assert.NoError(t, err)
		eventBus.AssertExpectations(t)
	})

	t.Run("propagates transition conflicts", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), nil)

		done := &entities.Appointment{ID: "apt-1", PatientID: "pat-1", Status: entities.AppointmentStatusCompleted}
		repo.On("GetByID", mock.Anything, "apt-1").Return(done, nil)
		repo.On("UpdateStatus", mock.Anything, "apt-1", entities.AppointmentStatusCancelled).
			Return(apperrors.NewConflictError("appointment cannot move from COMPLETED to CANCELLED"))

		_, err := service.Cancel(ctx, "pat-1", "apt-1")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	})
}

func TestAppointmentService_Negotiate(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(72 * time.Hour)

	t.Run("rejects past proposals", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), nil)

		_, err := service.Negotiate(ctx, "pat-1", "apt-1", time.Now().Add(-time.Hour), "")

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("records a patient proposal", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, new(MockDoctorRepository), nil)

		pending := &entities.Appointment{ID: "apt-1", PatientID: "pat-1", Status: entities.AppointmentStatusPending}
		negotiating := &entities.Appointment{
			ID:         "apt-1",
			PatientID:  "pat-1",
			Status:     entities.AppointmentStatusNegotiating,
			ProposedAt: future.UTC(),
		}

		repo.On("GetByID", mock.Anything, "apt-1").Return(pending, nil).Once()
		repo.On("Negotiate", mock.Anything, "apt-1", mock.MatchedBy(func(n *entities.Negotiation) bool {
			return n.ProposedBy == entities.NegotiationPartyPatient &&
				n.Status == entities.NegotiationStatusPending &&
				n.ProposedTime.Equal(future) &&
				n.Message == "can we do later?"
		})).Return(nil)
		repo.On("GetByID", mock.Anything, "apt-1").Return(negotiating, nil).Once()

		appointment, err := service.Negotiate(ctx, "pat-1", "apt-1", future, "can we do later?")

		assert.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusNegotiating, appointment.Status)
		repo.AssertExpectations(t)
	})
}
