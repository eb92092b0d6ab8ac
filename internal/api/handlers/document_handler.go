package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/carebridge/portal/backend/internal/api/middleware"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/providers"
)

// DocumentService defines the interface for document operations
type DocumentService interface {
	Upload(ctx context.Context, userID, fileName, contentType string, size int64, content io.Reader, category entities.DocumentCategory, description string) (*entities.Document, error)
	List(ctx context.Context, userID string) ([]*entities.Document, error)
	Get(ctx context.Context, userID, id string) (*entities.Document, error)
	Open(ctx context.Context, userID, id string) (*entities.Document, io.ReadCloser, error)
	UpdateMeta(ctx context.Context, userID, id string, description *string, category *entities.DocumentCategory) (*entities.Document, error)
	Delete(ctx context.Context, userID, id string) error
}

// DocumentHandler handles medical document requests
type DocumentHandler struct {
	service DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{
		service: service,
	}
}

type updateDocumentRequest struct {
	Description *string                    `json:"description"`
	Category    *entities.DocumentCategory `json:"category"`
}

// Upload handles POST /api/documents/upload
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// The request body is capped at the upload limit plus headroom for
	// multipart framing, so an oversized file fails parsing instead of
	// filling the disk.
	r.Body = http.MaxBytesReader(w, r.Body, providers.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(providers.MaxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "file exceeds the 10MB upload limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	category := entities.DocumentCategory(r.FormValue("category"))
	description := r.FormValue("description")

	document, err := h.service.Upload(r.Context(), userID, header.Filename, contentType, header.Size, file, category, description)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, document)
}

// ListDocuments handles GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	documents, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// GetDocument handles GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	document, err := h.service.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, document)
}

// DownloadDocument handles GET /api/documents/{id}/download
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	document, content, err := h.service.Open(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", document.FileType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+document.FileName+`"`)
	io.Copy(w, content)
}

// UpdateDocument handles PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	document, err := h.service.UpdateMeta(r.Context(), userID, r.PathValue("id"), req.Description, req.Category)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, document)
}

// DeleteDocument handles DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
