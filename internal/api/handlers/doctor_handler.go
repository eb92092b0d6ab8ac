package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// DoctorService defines the interface for doctor directory operations
type DoctorService interface {
	List(ctx context.Context) ([]*entities.Doctor, error)
	Get(ctx context.Context, id string) (*entities.Doctor, []time.Time, error)
	Search(ctx context.Context, specialty string) ([]*entities.Doctor, error)
	GetAvailableSlots(ctx context.Context, doctorID, date string) ([]time.Time, error)
}

// DoctorHandler handles doctor directory requests
type DoctorHandler struct {
	service DoctorService
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(service DoctorService) *DoctorHandler {
	return &DoctorHandler{
		service: service,
	}
}

// ListDoctors handles GET /api/doctors
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// GetDoctor handles GET /api/doctors/{id}
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	doctor, confirmed, err := h.service.Get(r.Context(), doctorID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctor":          doctor,
		"confirmed_times": confirmed,
	})
}

// SearchDoctors handles GET /api/doctors/search?specialty=s
func (h *DoctorHandler) SearchDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.service.Search(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// GetSlots handles GET /api/doctors/{id}/slots?date=YYYY-MM-DD
func (h *DoctorHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	slots, err := h.service.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"slots": slots,
		"count": len(slots),
	})
}
