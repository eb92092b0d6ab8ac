package services

import (
	"context"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/providers"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/observability"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
	"github.com/google/uuid"
)

// AppointmentService handles the appointment lifecycle and negotiation
type AppointmentService struct {
	repo       repositories.AppointmentRepository
	doctorRepo repositories.DoctorRepository
	eventBus   providers.EventBus
	now        func() time.Time
}

// NewAppointmentService creates a new appointment service. eventBus may be
// nil when Redis is not configured; lifecycle changes then go unannounced.
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	doctorRepo repositories.DoctorRepository,
	eventBus providers.EventBus,
) *AppointmentService {
	return &AppointmentService{
		repo:       repo,
		doctorRepo: doctorRepo,
		eventBus:   eventBus,
		now:        time.Now,
	}
}

// Create books a new pending appointment. The insert itself is the conflict
// check; a lost race surfaces as a conflict error, never a double booking.
func (s *AppointmentService) Create(ctx context.Context, patientID, doctorID string, proposedAt time.Time, notes string) (*entities.Appointment, error) {
	if doctorID == "" {
		return nil, apperrors.NewValidationError("doctor id is required")
	}
	if !proposedAt.After(s.now()) {
		return nil, apperrors.NewValidationError("proposed time must be in the future")
	}

	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}

	now := s.now()
	appointment := &entities.Appointment{
		ID:         uuid.New().String(),
		PatientID:  patientID,
		DoctorID:   doctorID,
		ProposedAt: proposedAt.UTC(),
		Status:     entities.AppointmentStatusPending,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.publish(ctx, appointment, entities.AppointmentEventCreated)
	return appointment, nil
}

// ListMine returns the caller's appointments ordered by proposed time
func (s *AppointmentService) ListMine(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID, filter)
}

// Get returns one of the caller's appointments. Appointments owned by other
// patients are reported as missing, not forbidden.
func (s *AppointmentService) Get(ctx context.Context, patientID, id string) (*entities.Appointment, error) {
	return s.getOwned(ctx, patientID, id)
}

// UpdateStatus confirms or cancels one of the caller's appointments
func (s *AppointmentService) UpdateStatus(ctx context.Context, patientID, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	if status != entities.AppointmentStatusConfirmed && status != entities.AppointmentStatusCancelled {
		return nil, apperrors.NewValidationError("status must be CONFIRMED or CANCELLED")
	}

	if _, err := s.getOwned(ctx, patientID, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	eventType := entities.AppointmentEventStatusChanged
	if status == entities.AppointmentStatusCancelled {
		eventType = entities.AppointmentEventCancelled
	}
	s.publish(ctx, appointment, eventType)

	return appointment, nil
}

// Cancel cancels one of the caller's appointments
func (s *AppointmentService) Cancel(ctx context.Context, patientID, id string) (*entities.Appointment, error) {
	return s.UpdateStatus(ctx, patientID, id, entities.AppointmentStatusCancelled)
}

// Negotiate proposes a new time for one of the caller's appointments. The
// appointment's proposed time moves immediately; the doctor's side responds
// by confirming or counter-proposing.
func (s *AppointmentService) Negotiate(ctx context.Context, patientID, id string, proposedAt time.Time, message string) (*entities.Appointment, error) {
	if !proposedAt.After(s.now()) {
		return nil, apperrors.NewValidationError("proposed time must be in the future")
	}

	if _, err := s.getOwned(ctx, patientID, id); err != nil {
		return nil, err
	}

	negotiation := &entities.Negotiation{
		ID:            uuid.New().String(),
		AppointmentID: id,
		ProposedTime:  proposedAt.UTC(),
		Message:       message,
		ProposedBy:    entities.NegotiationPartyPatient,
		Status:        entities.NegotiationStatusPending,
		CreatedAt:     s.now(),
	}

	if err := s.repo.Negotiate(ctx, id, negotiation); err != nil {
		return nil, err
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, appointment, entities.AppointmentEventNegotiated)
	return appointment, nil
}

// getOwned loads an appointment and verifies ownership. A miss on either
// check reads the same from outside; existence is never leaked.
func (s *AppointmentService) getOwned(ctx context.Context, patientID, id string) (*entities.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, apperrors.NewNotFoundError("Appointment not found")
	}
	return appointment, nil
}

func (s *AppointmentService) publish(ctx context.Context, appointment *entities.Appointment, eventType entities.AppointmentEventType) {
	if s.eventBus == nil {
		return
	}

	event := &entities.AppointmentEvent{
		ID:            uuid.New().String(),
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		EventType:     eventType,
		Status:        appointment.Status,
		ProposedAt:    appointment.ProposedAt,
		Timestamp:     s.now(),
	}

	for _, channel := range []string{
		providers.EventChannelAppointmentUpdates,
		providers.GetUserChannel(appointment.PatientID),
	} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("channel", channel).
				Str("appointment_id", appointment.ID).
				Msg("failed to publish appointment event")
		}
	}
}
