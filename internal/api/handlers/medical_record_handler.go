package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/carebridge/portal/backend/internal/api/middleware"
	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// MedicalRecordService defines the interface for health metric operations
type MedicalRecordService interface {
	Upsert(ctx context.Context, userID, key string, value json.RawMessage, unit, notes string, recordedAt *time.Time) (*entities.MedicalRecord, error)
	Get(ctx context.Context, userID, key string) (*entities.MedicalRecord, error)
	List(ctx context.Context, userID string) ([]*entities.MedicalRecord, error)
	Summary(ctx context.Context, userID string) (map[string]*entities.MedicalRecord, error)
	Delete(ctx context.Context, userID, key string) error
}

// MedicalRecordHandler handles health metric requests
type MedicalRecordHandler struct {
	service MedicalRecordService
}

// NewMedicalRecordHandler creates a new medical record handler
func NewMedicalRecordHandler(service MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		service: service,
	}
}

type upsertRecordRequest struct {
	Value      json.RawMessage `json:"value"`
	Unit       string          `json:"unit"`
	Notes      string          `json:"notes"`
	RecordedAt *time.Time      `json:"recorded_at"`
}

// ListRecords handles GET /api/medical-records
func (h *MedicalRecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	records, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// GetSummary handles GET /api/medical-records/summary
func (h *MedicalRecordHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// GetRecord handles GET /api/medical-records/{key}
func (h *MedicalRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	record, err := h.service.Get(r.Context(), userID, r.PathValue("key"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// UpsertRecord handles PUT /api/medical-records/{key}
func (h *MedicalRecordHandler) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req upsertRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	record, err := h.service.Upsert(r.Context(), userID, r.PathValue("key"), req.Value, req.Unit, req.Notes, req.RecordedAt)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// DeleteRecord handles DELETE /api/medical-records/{key}
func (h *MedicalRecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.PathValue("key")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
