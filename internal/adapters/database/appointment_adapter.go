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
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new appointment. The partial unique index on
// (doctor_id, proposed_at) over active statuses turns a double-booking race
// into a unique violation, surfaced as a conflict error.
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":          appointment.ID,
		"patient_id":  appointment.PatientID,
		"doctor_id":   appointment.DoctorID,
		"proposed_at": appointment.ProposedAt,
		"status":      appointment.Status,
		"notes":       appointment.Notes,
		"created_at":  appointment.CreatedAt,
		"updated_at":  appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return apperrors.NewConflictError("This time slot is no longer available")
	}
	if err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment with its doctor summary and negotiation
// history, newest first
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(
		goqu.I("a.id"), goqu.I("a.patient_id"), goqu.I("a.doctor_id"),
		goqu.I("a.proposed_at"), goqu.I("a.status"), goqu.I("a.notes"),
		goqu.I("a.created_at"), goqu.I("a.updated_at"),
		goqu.I("d.name"), goqu.I("d.specialty"), goqu.I("d.image"),
	).From(goqu.T("appointments").As("a")).
		Join(goqu.T("doctors").As("d"), goqu.On(goqu.I("a.doctor_id").Eq(goqu.I("d.id")))).
		Where(goqu.I("a.id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment := &entities.Appointment{Doctor: &entities.DoctorSummary{}}
	var notes sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.ProposedAt,
		&appointment.Status,
		&notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&appointment.Doctor.Name,
		&appointment.Doctor.Specialty,
		&appointment.Doctor.Image,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("Appointment not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	appointment.Notes = notes.String
	appointment.Doctor.ID = appointment.DoctorID

	negotiations, err := a.ListNegotiations(ctx, id)
	if err != nil {
		return nil, err
	}
	appointment.Negotiations = negotiations

	return appointment, nil
}

// ListByPatient retrieves a patient's appointments ordered by proposed time
// ascending, each with doctor summary and negotiations newest first
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID string, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := a.db.Select(
		goqu.I("a.id"), goqu.I("a.patient_id"), goqu.I("a.doctor_id"),
		goqu.I("a.proposed_at"), goqu.I("a.status"), goqu.I("a.notes"),
		goqu.I("a.created_at"), goqu.I("a.updated_at"),
		goqu.I("d.name"), goqu.I("d.specialty"), goqu.I("d.image"),
	).From(goqu.T("appointments").As("a")).
		Join(goqu.T("doctors").As("d"), goqu.On(goqu.I("a.doctor_id").Eq(goqu.I("d.id")))).
		Where(goqu.I("a.patient_id").Eq(patientID))

	if filter.Status != "" {
		ds = ds.Where(goqu.I("a.status").Eq(filter.Status))
	}

	if filter.From != nil {
		ds = ds.Where(goqu.I("a.proposed_at").Gte(*filter.From))
	}

	if filter.To != nil {
		ds = ds.Where(goqu.I("a.proposed_at").Lte(*filter.To))
	}

	ds = ds.Order(goqu.I("a.proposed_at").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := []*entities.Appointment{}
	ids := []string{}
	for rows.Next() {
		appointment := &entities.Appointment{Doctor: &entities.DoctorSummary{}}
		var notes sql.NullString

		err := rows.Scan(
			&appointment.ID,
			&appointment.PatientID,
			&appointment.DoctorID,
			&appointment.ProposedAt,
			&appointment.Status,
			&notes,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
			&appointment.Doctor.Name,
			&appointment.Doctor.Specialty,
			&appointment.Doctor.Image,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}

		appointment.Notes = notes.String
		appointment.Doctor.ID = appointment.DoctorID
		appointment.Negotiations = []*entities.Negotiation{}
		appointments = append(appointments, appointment)
		ids = append(ids, appointment.ID)
	}

	if len(appointments) == 0 {
		return appointments, nil
	}

	negotiations, err := a.loadNegotiations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, appointment := range appointments {
		if n, ok := negotiations[appointment.ID]; ok {
			appointment.Negotiations = n
		}
	}

	return appointments, nil
}

// UpdateStatus moves an appointment to a new status. The transition table is
// enforced against the row's current status under lock. Confirming resolves
// pending negotiations to accepted, cancelling to declined.
func (a *AppointmentAdapter) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	current, err := a.lockStatus(ctx, tx, id)
	if err != nil {
		return err
	}

	if !entities.CanTransition(current, status) {
		return apperrors.NewValidationError(fmt.Sprintf("cannot move appointment from %s to %s", current, status))
	}

	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"status":     status,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update appointment status", err)
	}

	var resolution entities.NegotiationStatus
	switch status {
	case entities.AppointmentStatusConfirmed:
		resolution = entities.NegotiationStatusAccepted
	case entities.AppointmentStatusCancelled:
		resolution = entities.NegotiationStatusDeclined
	}

	if resolution != "" {
		query, args, err := a.db.Update("appointment_negotiations").
			Set(goqu.Record{"status": resolution}).
			Where(goqu.Ex{
				"appointment_id": id,
				"status":         entities.NegotiationStatusPending,
			}).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build negotiation update query", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to resolve negotiations", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}

	return nil
}

// Negotiate updates the appointment's proposed time and status and appends a
// negotiation row, in one transaction
func (a *AppointmentAdapter) Negotiate(ctx context.Context, id string, negotiation *entities.Negotiation) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	current, err := a.lockStatus(ctx, tx, id)
	if err != nil {
		return err
	}

	if !entities.CanTransition(current, entities.AppointmentStatusNegotiating) {
		return apperrors.NewValidationError(fmt.Sprintf("cannot negotiate an appointment in status %s", current))
	}

	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"status":      entities.AppointmentStatusNegotiating,
			"proposed_at": negotiation.ProposedTime,
			"updated_at":  time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return apperrors.NewConflictError("This time slot is no longer available")
		}
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	record := goqu.Record{
		"id":             negotiation.ID,
		"appointment_id": id,
		"proposed_time":  negotiation.ProposedTime,
		"message":        negotiation.Message,
		"proposed_by":    negotiation.ProposedBy,
		"status":         negotiation.Status,
		"created_at":     negotiation.CreatedAt,
	}

	query, args, err = a.db.Insert("appointment_negotiations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build negotiation insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create negotiation", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}

	return nil
}

func (a *AppointmentAdapter) lockStatus(ctx context.Context, tx *sql.Tx, id string) (entities.AppointmentStatus, error) {
	query, args, err := a.db.Select("status").From("appointments").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build lock query", err)
	}

	var status entities.AppointmentStatus
	err = tx.QueryRowContext(ctx, query, args...).Scan(&status)
	if err == sql.ErrNoRows {
		return "", apperrors.NewNotFoundError("Appointment not found")
	}
	if err != nil {
		return "", apperrors.NewInternalError("failed to lock appointment", err)
	}

	return status, nil
}

// ListNegotiations retrieves an appointment's negotiations newest first
func (a *AppointmentAdapter) ListNegotiations(ctx context.Context, appointmentID string) ([]*entities.Negotiation, error) {
	negotiations, err := a.loadNegotiations(ctx, []string{appointmentID})
	if err != nil {
		return nil, err
	}
	if n, ok := negotiations[appointmentID]; ok {
		return n, nil
	}
	return []*entities.Negotiation{}, nil
}

func (a *AppointmentAdapter) loadNegotiations(ctx context.Context, appointmentIDs []string) (map[string][]*entities.Negotiation, error) {
	query, args, err := a.db.Select(
		"id", "appointment_id", "proposed_time", "message", "proposed_by",
		"status", "created_at",
	).From("appointment_negotiations").
		Where(goqu.C("appointment_id").In(appointmentIDs)).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build negotiations query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list negotiations", err)
	}
	defer rows.Close()

	negotiations := make(map[string][]*entities.Negotiation)
	for rows.Next() {
		negotiation := &entities.Negotiation{}
		var message sql.NullString

		err := rows.Scan(
			&negotiation.ID,
			&negotiation.AppointmentID,
			&negotiation.ProposedTime,
			&message,
			&negotiation.ProposedBy,
			&negotiation.Status,
			&negotiation.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan negotiation", err)
		}

		negotiation.Message = message.String
		negotiations[negotiation.AppointmentID] = append(negotiations[negotiation.AppointmentID], negotiation)
	}

	return negotiations, nil
}
