package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/carebridge/portal/backend/internal/api/middleware"
	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// UserService defines the interface for patient profile operations
type UserService interface {
	Get(ctx context.Context, id string) (*entities.User, error)
	UpdateMedicalInfo(ctx context.Context, id string, info entities.MedicalInfo) (*entities.User, error)
	OnboardingCompleted(ctx context.Context, id string) (bool, error)
}

// UserHandler handles patient profile requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// UpdateMedicalInfo handles PATCH /api/users/me/medical-info
func (h *UserHandler) UpdateMedicalInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var info entities.MedicalInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.UpdateMedicalInfo(r.Context(), userID, info)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// GetOnboardingStatus handles GET /api/users/me/onboarding
func (h *UserHandler) GetOnboardingStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	completed, err := h.service.OnboardingCompleted(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"completed": completed,
	})
}
