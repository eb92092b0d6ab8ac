package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

// MedicalRecordAdapter implements the MedicalRecordRepository interface
type MedicalRecordAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMedicalRecordAdapter creates a new medical record adapter
func NewMedicalRecordAdapter(client *postgres.Client) repositories.MedicalRecordRepository {
	return &MedicalRecordAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var medicalRecordColumns = []interface{}{
	"id", "user_id", "key", "value", "unit", "notes", "recorded_at",
	"created_at", "updated_at",
}

// Upsert inserts the record or, when the user already tracks the key,
// replaces its value, unit, notes and recorded time
func (a *MedicalRecordAdapter) Upsert(ctx context.Context, record *entities.MedicalRecord) (*entities.MedicalRecord, error) {
	row := goqu.Record{
		"id":          record.ID,
		"user_id":     record.UserID,
		"key":         record.Key,
		"value":       []byte(record.Value),
		"unit":        record.Unit,
		"notes":       record.Notes,
		"recorded_at": record.RecordedAt,
		"created_at":  record.CreatedAt,
		"updated_at":  record.UpdatedAt,
	}

	query, args, err := a.db.Insert("medical_records").
		Rows(row).
		OnConflict(goqu.DoUpdate(
			"user_id, key",
			goqu.Record{
				"value":       []byte(record.Value),
				"unit":        record.Unit,
				"notes":       record.Notes,
				"recorded_at": record.RecordedAt,
				"updated_at":  record.UpdatedAt,
			},
		)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to upsert medical record", err)
	}

	return a.GetByKey(ctx, record.UserID, record.Key)
}

// GetByKey retrieves one of a user's records by metric key
func (a *MedicalRecordAdapter) GetByKey(ctx context.Context, userID, key string) (*entities.MedicalRecord, error) {
	query, args, err := a.db.Select(medicalRecordColumns...).From("medical_records").
		Where(goqu.Ex{"user_id": userID, "key": key}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record := &entities.MedicalRecord{}
	var value []byte
	var unit, notes sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&record.ID,
		&record.UserID,
		&record.Key,
		&value,
		&unit,
		&notes,
		&record.RecordedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("medical record %s not found", key))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get medical record", err)
	}

	record.Value = value
	record.Unit = unit.String
	record.Notes = notes.String
	return record, nil
}

// ListByUser retrieves all of a user's records ordered by key
func (a *MedicalRecordAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.MedicalRecord, error) {
	query, args, err := a.db.Select(medicalRecordColumns...).From("medical_records").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("key").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list medical records", err)
	}
	defer rows.Close()

	records := []*entities.MedicalRecord{}
	for rows.Next() {
		record := &entities.MedicalRecord{}
		var value []byte
		var unit, notes sql.NullString

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Key,
			&value,
			&unit,
			&notes,
			&record.RecordedAt,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan medical record", err)
		}

		record.Value = value
		record.Unit = unit.String
		record.Notes = notes.String
		records = append(records, record)
	}

	return records, nil
}

// Delete removes one of a user's records by metric key
func (a *MedicalRecordAdapter) Delete(ctx context.Context, userID, key string) error {
	query, args, err := a.db.Delete("medical_records").
		Where(goqu.Ex{"user_id": userID, "key": key}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete medical record", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("medical record %s not found", key))
	}

	return nil
}
