package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carebridge/portal/backend/internal/api/handlers"
	"github.com/carebridge/portal/backend/internal/api/middleware"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
)

type stubTokenParser struct{}

func (stubTokenParser) ParseToken(token string) (string, error) {
	if token == "valid-token" {
		return "pat-1", nil
	}
	return "", apperrors.NewUnauthorizedError("invalid or expired token")
}

type stubAppointmentService struct {
	createErr   error
	created     *entities.Appointment
	statusErr   error
	appointment *entities.Appointment
}

func (s *stubAppointmentService) Create(ctx context.Context, patientID, doctorID string, proposedAt time.Time, notes string) (*entities.Appointment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &entities.Appointment{
		ID:         "apt-1",
		PatientID:  patientID,
		DoctorID:   doctorID,
		ProposedAt: proposedAt,
		Status:     entities.AppointmentStatusPending,
		Notes:      notes,
	}
	return s.created, nil
}

func (s *stubAppointmentService) ListMine(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	return []*entities.Appointment{{ID: "apt-1", PatientID: patientID}}, nil
}

func (s *stubAppointmentService) Get(ctx context.Context, patientID, id string) (*entities.Appointment, error) {
	if s.appointment == nil {
		return nil, apperrors.NewNotFoundError("Appointment not found")
	}
	return s.appointment, nil
}

func (s *stubAppointmentService) UpdateStatus(ctx context.Context, patientID, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &entities.Appointment{ID: id, PatientID: patientID, Status: status}, nil
}

func (s *stubAppointmentService) Cancel(ctx context.Context, patientID, id string) (*entities.Appointment, error) {
	return s.UpdateStatus(ctx, patientID, id, entities.AppointmentStatusCancelled)
}

func (s *stubAppointmentService) Negotiate(ctx context.Context, patientID, id string, proposedAt time.Time, message string) (*entities.Appointment, error) {
	return &entities.Appointment{ID: id, PatientID: patientID, Status: entities.AppointmentStatusNegotiating, ProposedAt: proposedAt}, nil
}

// serveAuthenticated routes the request through the auth middleware the way
// the router does.
func serveAuthenticated(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	middleware.AuthMiddleware(stubTokenParser{})(h).ServeHTTP(w, req)
	return w
}

func TestAppointmentHandler_CreateAppointment(t *testing.T) {
	t.Run("creates a pending appointment", func(t *testing.T) {
		service := &stubAppointmentService{}
		handler := handlers.NewAppointmentHandler(service)

		proposedAt := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
		body := fmt.Sprintf(`{"doctor_id":"doc-1","proposed_at":%q,"notes":"first visit"}`, proposedAt)
		req := httptest.NewRequest("POST", "/api/appointments", strings.NewReader(body))

		w := serveAuthenticated(handler.CreateAppointment, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "pat-1", service.created.PatientID)

		var appointment entities.Appointment
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&appointment))
		assert.Equal(t, entities.AppointmentStatusPending, appointment.Status)
	})

	t.Run("maps slot conflicts to 409", func(t *testing.T) {
		service := &stubAppointmentService{
			createErr: apperrors.NewConflictError("This time slot is no longer available"),
		}
		handler := handlers.NewAppointmentHandler(service)

		body := `{"doctor_id":"doc-1","proposed_at":"2030-01-07T09:00:00Z"}`
		req := httptest.NewRequest("POST", "/api/appointments", strings.NewReader(body))

		w := serveAuthenticated(handler.CreateAppointment, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]string
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "This time slot is no longer available", response["error"])
	})

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		handler := handlers.NewAppointmentHandler(&stubAppointmentService{})

		req := httptest.NewRequest("POST", "/api/appointments", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		middleware.AuthMiddleware(stubTokenParser{})(http.HandlerFunc(handler.CreateAppointment)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAppointmentHandler_UpdateStatus(t *testing.T) {
	t.Run("maps illegal transitions to 400", func(t *testing.T) {
		service := &stubAppointmentService{
			statusErr: apperrors.NewValidationError("appointment cannot move from COMPLETED to CANCELLED"),
		}
		handler := handlers.NewAppointmentHandler(service)

		req := httptest.NewRequest("PATCH", "/api/appointments/apt-1/status", strings.NewReader(`{"status":"CANCELLED"}`))
		req.SetPathValue("id", "apt-1")

		w := serveAuthenticated(handler.UpdateStatus, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("confirms an appointment", func(t *testing.T) {
		handler := handlers.NewAppointmentHandler(&stubAppointmentService{})

		req := httptest.NewRequest("PATCH", "/api/appointments/apt-1/status", strings.NewReader(`{"status":"CONFIRMED"}`))
		req.SetPathValue("id", "apt-1")

		w := serveAuthenticated(handler.UpdateStatus, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var appointment entities.Appointment
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&appointment))
		assert.Equal(t, entities.AppointmentStatusConfirmed, appointment.Status)
	})
}

func TestAppointmentHandler_GetAppointment_NotOwned(t *testing.T) {
	handler := handlers.NewAppointmentHandler(&stubAppointmentService{})

	req := httptest.NewRequest("GET", "/api/appointments/apt-9", nil)
	req.SetPathValue("id", "apt-9")

	w := serveAuthenticated(handler.GetAppointment, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentHandler_ListAppointments_RejectsUnknownStatus(t *testing.T) {
	handler := handlers.NewAppointmentHandler(&stubAppointmentService{})

	req := httptest.NewRequest("GET", "/api/appointments?status=BOOKED", nil)

	w := serveAuthenticated(handler.ListAppointments, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
