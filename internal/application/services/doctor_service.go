package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/observability"
	apperrors "github.com/carebridge/portal/backend/pkg/errors"
)

const slotIntervalMinutes = 30

// DoctorService handles the doctor directory and slot resolution
type DoctorService struct {
	repo       repositories.DoctorRepository
	searchRepo repositories.DoctorSearchRepository
	now        func() time.Time
}

// NewDoctorService creates a new doctor service. searchRepo may be nil, in
// which case searches fall back to the database.
func NewDoctorService(repo repositories.DoctorRepository, searchRepo repositories.DoctorSearchRepository) *DoctorService {
	return &DoctorService{
		repo:       repo,
		searchRepo: searchRepo,
		now:        time.Now,
	}
}

// List returns the available doctors ordered by name
func (s *DoctorService) List(ctx context.Context) ([]*entities.Doctor, error) {
	return s.repo.List(ctx)
}

// Get returns one doctor with availability windows and their upcoming
// confirmed appointment times
func (s *DoctorService) Get(ctx context.Context, id string) (*entities.Doctor, []time.Time, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	confirmed, err := s.repo.ConfirmedTimes(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return doctor, confirmed, nil
}

// Search returns available doctors matching a specialty query. The search
// index is preferred; directory reads fall back to the database when the
// index is unavailable.
func (s *DoctorService) Search(ctx context.Context, specialty string) ([]*entities.Doctor, error) {
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return s.repo.List(ctx)
	}

	if s.searchRepo != nil {
		doctors, err := s.searchRepo.SearchBySpecialty(ctx, specialty)
		if err == nil {
			return doctors, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("search index unavailable, falling back to database")
	}

	return s.repo.SearchBySpecialty(ctx, specialty)
}

// GetAvailableSlots resolves a doctor's bookable half-hour slots for one
// calendar date. Slots span whole hours of the working windows, are anchored
// to UTC, exclude times already held by an active appointment and exclude
// anything not strictly in the future.
func (s *DoctorService) GetAvailableSlots(ctx context.Context, doctorID, date string) ([]time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}

	if _, err := s.repo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}

	windows, err := s.repo.AvailabilityForDay(ctx, doctorID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []time.Time{}, nil
	}

	booked, err := s.repo.BookedTimes(ctx, doctorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]bool, len(booked))
	for _, t := range booked {
		taken[t.Unix()] = true
	}

	now := s.now()
	slots := []time.Time{}
	for _, window := range windows {
		startHour, err := windowHour(window.StartTime)
		if err != nil {
			return nil, apperrors.NewInternalError("malformed availability window", err)
		}
		endHour, err := windowHour(window.EndTime)
		if err != nil {
			return nil, apperrors.NewInternalError("malformed availability window", err)
		}

		// Slots are generated on whole hours of the window; a window
		// ending at 17:00 offers 16:30 as its last slot.
		for hour := startHour; hour < endHour; hour++ {
			for minute := 0; minute < 60; minute += slotIntervalMinutes {
				slot := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
				if taken[slot.Unix()] {
					continue
				}
				if !slot.After(now) {
					continue
				}
				slots = append(slots, slot)
			}
		}
	}

	return slots, nil
}

// windowHour extracts the hour component of an "HH:MM" wall-clock string.
// Minutes are deliberately ignored; windows resolve to whole hours.
func windowHour(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid window time %q", value)
	}
	return hour, nil
}
