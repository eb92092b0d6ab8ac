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

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var doctorColumns = []interface{}{
	"id", "name", "specialty", "image", "bio", "is_available",
	"created_at", "updated_at",
}

// Create creates a doctor with their weekly availability windows
func (a *DoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	record := goqu.Record{
		"id":           doctor.ID,
		"name":         doctor.Name,
		"specialty":    doctor.Specialty,
		"image":        doctor.Image,
		"bio":          doctor.Bio,
		"is_available": doctor.IsAvailable,
		"created_at":   doctor.CreatedAt,
		"updated_at":   doctor.UpdatedAt,
	}

	query, args, err := a.db.Insert("doctors").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create doctor", err)
	}

	for _, window := range doctor.Availability {
		windowRecord := goqu.Record{
			"id":          window.ID,
			"doctor_id":   doctor.ID,
			"day_of_week": window.DayOfWeek,
			"start_time":  window.StartTime,
			"end_time":    window.EndTime,
			"created_at":  window.CreatedAt,
			"updated_at":  window.UpdatedAt,
		}

		query, args, err := a.db.Insert("doctor_availability").Rows(windowRecord).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build availability insert query", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to create availability window", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}

	return nil
}

// GetByID retrieves a doctor with availability windows
func (a *DoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).From("doctors").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor := &entities.Doctor{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialty,
		&doctor.Image,
		&doctor.Bio,
		&doctor.IsAvailable,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}

	windows, err := a.loadAvailability(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	doctor.Availability = windows[id]

	counts, err := a.loadConfirmedCounts(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	doctor.AppointmentCount = counts[id]

	return doctor, nil
}

// List retrieves available doctors ordered by name
func (a *DoctorAdapter) List(ctx context.Context) ([]*entities.Doctor, error) {
	ds := a.db.Select(doctorColumns...).From("doctors").
		Where(goqu.Ex{"is_available": true}).
		Order(goqu.I("name").Asc())

	return a.queryDoctors(ctx, ds)
}

// SearchBySpecialty retrieves available doctors whose specialty contains the
// query, case-insensitively
func (a *DoctorAdapter) SearchBySpecialty(ctx context.Context, specialty string) ([]*entities.Doctor, error) {
	ds := a.db.Select(doctorColumns...).From("doctors").
		Where(
			goqu.Ex{"is_available": true},
			goqu.C("specialty").ILike("%"+specialty+"%"),
		).
		Order(goqu.I("name").Asc())

	return a.queryDoctors(ctx, ds)
}

func (a *DoctorAdapter) queryDoctors(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Doctor, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list doctors", err)
	}
	defer rows.Close()

	doctors := []*entities.Doctor{}
	ids := []string{}
	for rows.Next() {
		doctor := &entities.Doctor{}
		err := rows.Scan(
			&doctor.ID,
			&doctor.Name,
			&doctor.Specialty,
			&doctor.Image,
			&doctor.Bio,
			&doctor.IsAvailable,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, doctor)
		ids = append(ids, doctor.ID)
	}

	if len(doctors) == 0 {
		return doctors, nil
	}

	windows, err := a.loadAvailability(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := a.loadConfirmedCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, doctor := range doctors {
		doctor.Availability = windows[doctor.ID]
		doctor.AppointmentCount = counts[doctor.ID]
	}

	return doctors, nil
}

func (a *DoctorAdapter) loadAvailability(ctx context.Context, doctorIDs []string) (map[string][]*entities.AvailabilityWindow, error) {
	query, args, err := a.db.Select(
		"id", "doctor_id", "day_of_week", "start_time", "end_time",
		"created_at", "updated_at",
	).From("doctor_availability").
		Where(goqu.C("doctor_id").In(doctorIDs)).
		Order(goqu.I("doctor_id").Asc(), goqu.I("day_of_week").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build availability query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load availability", err)
	}
	defer rows.Close()

	windows := make(map[string][]*entities.AvailabilityWindow)
	for rows.Next() {
		window := &entities.AvailabilityWindow{}
		err := rows.Scan(
			&window.ID,
			&window.DoctorID,
			&window.DayOfWeek,
			&window.StartTime,
			&window.EndTime,
			&window.CreatedAt,
			&window.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan availability window", err)
		}
		windows[window.DoctorID] = append(windows[window.DoctorID], window)
	}

	return windows, nil
}

func (a *DoctorAdapter) loadConfirmedCounts(ctx context.Context, doctorIDs []string) (map[string]int, error) {
	query, args, err := a.db.Select(
		"doctor_id",
		goqu.COUNT("*").As("appointment_count"),
	).From("appointments").
		Where(
			goqu.C("doctor_id").In(doctorIDs),
			goqu.Ex{"status": entities.AppointmentStatusConfirmed},
		).
		GroupBy("doctor_id").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build count query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load appointment counts", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var doctorID string
		var count int
		if err := rows.Scan(&doctorID, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment count", err)
		}
		counts[doctorID] = count
	}

	return counts, nil
}

// AvailabilityForDay retrieves a doctor's windows for one weekday
func (a *DoctorAdapter) AvailabilityForDay(ctx context.Context, doctorID string, dayOfWeek int) ([]*entities.AvailabilityWindow, error) {
	query, args, err := a.db.Select(
		"id", "doctor_id", "day_of_week", "start_time", "end_time",
		"created_at", "updated_at",
	).From("doctor_availability").
		Where(goqu.Ex{"doctor_id": doctorID, "day_of_week": dayOfWeek}).
		Order(goqu.I("start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build availability query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load availability", err)
	}
	defer rows.Close()

	windows := []*entities.AvailabilityWindow{}
	for rows.Next() {
		window := &entities.AvailabilityWindow{}
		err := rows.Scan(
			&window.ID,
			&window.DoctorID,
			&window.DayOfWeek,
			&window.StartTime,
			&window.EndTime,
			&window.CreatedAt,
			&window.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan availability window", err)
		}
		windows = append(windows, window)
	}

	return windows, nil
}

// BookedTimes retrieves the proposed times of slot-holding appointments for a
// doctor within [from, to)
func (a *DoctorAdapter) BookedTimes(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error) {
	query, args, err := a.db.Select("proposed_at").From("appointments").
		Where(
			goqu.Ex{"doctor_id": doctorID},
			goqu.C("status").In(statusStrings(entities.ActiveStatuses)),
			goqu.C("proposed_at").Gte(from),
			goqu.C("proposed_at").Lt(to),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build booked times query", err)
	}

	return a.queryTimes(ctx, query, args)
}

// ConfirmedTimes retrieves upcoming confirmed appointment times for a doctor
func (a *DoctorAdapter) ConfirmedTimes(ctx context.Context, doctorID string) ([]time.Time, error) {
	query, args, err := a.db.Select("proposed_at").From("appointments").
		Where(
			goqu.Ex{"doctor_id": doctorID, "status": entities.AppointmentStatusConfirmed},
			goqu.C("proposed_at").Gte(time.Now().UTC()),
		).
		Order(goqu.I("proposed_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build confirmed times query", err)
	}

	return a.queryTimes(ctx, query, args)
}

func (a *DoctorAdapter) queryTimes(ctx context.Context, query string, args []interface{}) ([]time.Time, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query appointment times", err)
	}
	defer rows.Close()

	times := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment time", err)
		}
		times = append(times, t)
	}

	return times, nil
}

func statusStrings(statuses []entities.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
