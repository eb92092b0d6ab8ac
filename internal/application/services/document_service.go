package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/providers"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/observability"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
	"github.com/google/uuid"
)

// DocumentService handles medical document uploads and metadata
type DocumentService struct {
	repo  repositories.DocumentRepository
	blobs providers.BlobStore
}

// NewDocumentService creates a new document service
func NewDocumentService(repo repositories.DocumentRepository, blobs providers.BlobStore) *DocumentService {
	return &DocumentService{
		repo:  repo,
		blobs: blobs,
	}
}

// Upload validates and stores a document blob, then records its metadata
func (s *DocumentService) Upload(ctx context.Context, userID, fileName, contentType string, size int64, content io.Reader, category entities.DocumentCategory, description string) (*entities.Document, error) {
	if fileName == "" {
		return nil, apperrors.NewValidationError("file name is required")
	}
	if category == "" {
		category = entities.DocumentCategoryGeneral
	}
	if !entities.IsValidDocumentCategory(category) {
		return nil, apperrors.NewValidationError("unknown document category")
	}

	key, err := s.blobs.Put(ctx, fileName, contentType, size, content)
	if errors.Is(err, providers.ErrBlobTooLarge) {
		return nil, apperrors.NewValidationError("file exceeds the 10MB upload limit")
	}
	if errors.Is(err, providers.ErrBlobTypeNotAllowed) {
		return nil, apperrors.NewValidationError("file type is not supported")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to store file", err)
	}

	now := time.Now()
	document := &entities.Document{
		ID:          uuid.New().String(),
		UserID:      userID,
		FileName:    fileName,
		FilePath:    key,
		FileType:    contentType,
		FileSize:    size,
		Category:    category,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, document); err != nil {
		// The row is the source of truth; an orphaned blob is reclaimed
		if removeErr := s.blobs.Remove(ctx, key); removeErr != nil {
			observability.LoggerFromContext(ctx).Warn().Err(removeErr).Str("key", key).Msg("failed to remove orphaned blob")
		}
		return nil, err
	}

	return document, nil
}

// List returns the caller's documents newest first
func (s *DocumentService) List(ctx context.Context, userID string) ([]*entities.Document, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one of the caller's documents
func (s *DocumentService) Get(ctx context.Context, userID, id string) (*entities.Document, error) {
	return s.getOwned(ctx, userID, id)
}

// Open returns one of the caller's documents along with its content
func (s *DocumentService) Open(ctx context.Context, userID, id string) (*entities.Document, io.ReadCloser, error) {
	document, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.blobs.Open(ctx, document.FilePath)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to open document content", err)
	}

	return document, content, nil
}

// UpdateMeta updates the description and category of one of the caller's
// documents
func (s *DocumentService) UpdateMeta(ctx context.Context, userID, id string, description *string, category *entities.DocumentCategory) (*entities.Document, error) {
	if category != nil && !entities.IsValidDocumentCategory(*category) {
		return nil, apperrors.NewValidationError("unknown document category")
	}

	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	return s.repo.UpdateMeta(ctx, id, description, category)
}

// Delete removes one of the caller's documents. The blob is removed best
// effort after the row.
func (s *DocumentService) Delete(ctx context.Context, userID, id string) error {
	document, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Remove(ctx, document.FilePath); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", document.FilePath).Msg("failed to remove document blob")
	}

	return nil
}

// getOwned loads a document and verifies ownership without leaking existence
func (s *DocumentService) getOwned(ctx context.Context, userID, id string) (*entities.Document, error) {
	document, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if document.UserID != userID {
		return nil, apperrors.NewNotFoundError("Document not found")
	}
	return document, nil
}
