package repositories

import (
	"context"

	"github.com/carebridge/portal/backend/internal/domain/entities"
)

// DocumentRepository defines the interface for document metadata operations
type DocumentRepository interface {
	// Create inserts a document row
	Create(ctx context.Context, document *entities.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*entities.Document, error)

	// ListByUser retrieves a user's documents newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Document, error)

	// UpdateMeta updates a document's description and category
	UpdateMeta(ctx context.Context, id string, description *string, category *entities.DocumentCategory) (*entities.Document, error)

	// Delete removes a document row
	Delete(ctx context.Context, id string) error
}
