package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

// DocumentAdapter implements the DocumentRepository interface
type DocumentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDocumentAdapter creates a new document adapter
func NewDocumentAdapter(client *postgres.Client) repositories.DocumentRepository {
	return &DocumentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var documentColumns = []interface{}{
	"id", "user_id", "file_name", "file_path", "file_type", "file_size",
	"category", "description", "created_at", "updated_at",
}

// Create inserts a document row
func (a *DocumentAdapter) Create(ctx context.Context, document *entities.Document) error {
	record := goqu.Record{
		"id":          document.ID,
		"user_id":     document.UserID,
		"file_name":   document.FileName,
		"file_path":   document.FilePath,
		"file_type":   document.FileType,
		"file_size":   document.FileSize,
		"category":    document.Category,
		"description": document.Description,
		"created_at":  document.CreatedAt,
		"updated_at":  document.UpdatedAt,
	}

	query, args, err := a.db.Insert("documents").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create document", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (a *DocumentAdapter) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	query, args, err := a.db.Select(documentColumns...).From("documents").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	document := &entities.Document{}
	var description sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&document.ID,
		&document.UserID,
		&document.FileName,
		&document.FilePath,
		&document.FileType,
		&document.FileSize,
		&document.Category,
		&description,
		&document.CreatedAt,
		&document.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("Document not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get document", err)
	}

	document.Description = description.String
	return document, nil
}

// ListByUser retrieves a user's documents newest first
func (a *DocumentAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Document, error) {
	query, args, err := a.db.Select(documentColumns...).From("documents").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list documents", err)
	}
	defer rows.Close()

	documents := []*entities.Document{}
	for rows.Next() {
		document := &entities.Document{}
		var description sql.NullString

		err := rows.Scan(
			&document.ID,
			&document.UserID,
			&document.FileName,
			&document.FilePath,
			&document.FileType,
			&document.FileSize,
			&document.Category,
			&description,
			&document.CreatedAt,
			&document.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan document", err)
		}

		document.Description = description.String
		documents = append(documents, document)
	}

	return documents, nil
}

// UpdateMeta updates a document's description and category
func (a *DocumentAdapter) UpdateMeta(ctx context.Context, id string, description *string, category *entities.DocumentCategory) (*entities.Document, error) {
	record := goqu.Record{"updated_at": time.Now()}
	if description != nil {
		record["description"] = *description
	}
	if category != nil {
		record["category"] = *category
	}

	query, args, err := a.db.Update("documents").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update document", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("Document not found")
	}

	return a.GetByID(ctx, id)
}

// Delete removes a document row
func (a *DocumentAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("documents").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete document", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("document with id %s not found", id))
	}

	return nil
}
