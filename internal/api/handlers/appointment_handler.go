package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/carebridge/portal/backend/internal/api/middleware"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	Create(ctx context.Context, patientID, doctorID string, proposedAt time.Time, notes string) (*entities.Appointment, error)
	ListMine(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error)
	Get(ctx context.Context, patientID, id string) (*entities.Appointment, error)
	UpdateStatus(ctx context.Context, patientID, id string, status entities.AppointmentStatus) (*entities.Appointment, error)
	Cancel(ctx context.Context, patientID, id string) (*entities.Appointment, error)
	Negotiate(ctx context.Context, patientID, id string, proposedAt time.Time, message string) (*entities.Appointment, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

type createAppointmentRequest struct {
	DoctorID   string    `json:"doctor_id"`
	ProposedAt time.Time `json:"proposed_at"`
	Notes      string    `json:"notes"`
}

type updateStatusRequest struct {
	Status entities.AppointmentStatus `json:"status"`
}

type negotiateRequest struct {
	ProposedAt time.Time `json:"proposed_at"`
	Message    string    `json:"message"`
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.Create(r.Context(), patientID, req.DoctorID, req.ProposedAt, req.Notes)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter := repositories.AppointmentFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := entities.AppointmentStatus(status)
		if !entities.IsValidStatus(s) {
			respondWithError(w, http.StatusBadRequest, "unknown appointment status")
			return
		}
		filter.Status = s
	}

	appointments, err := h.service.ListMine(r.Context(), patientID, filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	appointment, err := h.service.Get(r.Context(), patientID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// UpdateStatus handles PATCH /api/appointments/{id}/status
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), patientID, r.PathValue("id"), req.Status)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// CancelAppointment handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	appointment, err := h.service.Cancel(r.Context(), patientID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// Negotiate handles POST /api/appointments/{id}/negotiate
func (h *AppointmentHandler) Negotiate(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req negotiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.Negotiate(r.Context(), patientID, r.PathValue("id"), req.ProposedAt, req.Message)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}
