package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/providers"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/observability"
)

const (
	doctorListCacheTTL   = 300
	doctorDetailCacheTTL = 300
	doctorSearchCacheTTL = 120
)

// CachedDoctorAdapter wraps a DoctorRepository with cache-aside reads for the
// directory endpoints. Slot-sensitive reads always go to the database.
type CachedDoctorAdapter struct {
	inner repositories.DoctorRepository
	cache providers.CacheProvider
}

// NewCachedDoctorAdapter creates a cached doctor repository
func NewCachedDoctorAdapter(inner repositories.DoctorRepository, cache providers.CacheProvider) repositories.DoctorRepository {
	return &CachedDoctorAdapter{
		inner: inner,
		cache: cache,
	}
}

// DoctorListCacheKey is the cache key for the doctor directory listing
func DoctorListCacheKey() string {
	return "doctors:list"
}

// DoctorDetailCacheKey is the cache key for one doctor's profile
func DoctorDetailCacheKey(id string) string {
	return "doctors:detail:" + id
}

// DoctorSearchCacheKey is the cache key for one specialty search
func DoctorSearchCacheKey(specialty string) string {
	return "doctors:search:" + specialty
}

// Create creates a doctor and invalidates the directory listing
func (a *CachedDoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	if err := a.inner.Create(ctx, doctor); err != nil {
		return err
	}
	_ = a.cache.Delete(ctx, DoctorListCacheKey())
	return nil
}

// GetByID retrieves a doctor, from cache when possible
func (a *CachedDoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	key := DoctorDetailCacheKey(id)
	if data, err := a.cache.Get(ctx, key); err == nil {
		doctor := &entities.Doctor{}
		if err := json.Unmarshal(data, doctor); err == nil {
			return doctor, nil
		}
	}

	doctor, err := a.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.storeAsync(key, doctor, doctorDetailCacheTTL)
	return doctor, nil
}

// List retrieves the doctor directory, from cache when possible
func (a *CachedDoctorAdapter) List(ctx context.Context) ([]*entities.Doctor, error) {
	key := DoctorListCacheKey()
	if data, err := a.cache.Get(ctx, key); err == nil {
		var doctors []*entities.Doctor
		if err := json.Unmarshal(data, &doctors); err == nil {
			return doctors, nil
		}
	}

	doctors, err := a.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	a.storeAsync(key, doctors, doctorListCacheTTL)
	return doctors, nil
}

// SearchBySpecialty searches doctors, from cache when possible
func (a *CachedDoctorAdapter) SearchBySpecialty(ctx context.Context, specialty string) ([]*entities.Doctor, error) {
	key := DoctorSearchCacheKey(specialty)
	if data, err := a.cache.Get(ctx, key); err == nil {
		var doctors []*entities.Doctor
		if err := json.Unmarshal(data, &doctors); err == nil {
			return doctors, nil
		}
	}

	doctors, err := a.inner.SearchBySpecialty(ctx, specialty)
	if err != nil {
		return nil, err
	}

	a.storeAsync(key, doctors, doctorSearchCacheTTL)
	return doctors, nil
}

// AvailabilityForDay always reads from the database
func (a *CachedDoctorAdapter) AvailabilityForDay(ctx context.Context, doctorID string, dayOfWeek int) ([]*entities.AvailabilityWindow, error) {
	return a.inner.AvailabilityForDay(ctx, doctorID, dayOfWeek)
}

// BookedTimes always reads from the database
func (a *CachedDoctorAdapter) BookedTimes(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error) {
	return a.inner.BookedTimes(ctx, doctorID, from, to)
}

// ConfirmedTimes always reads from the database
func (a *CachedDoctorAdapter) ConfirmedTimes(ctx context.Context, doctorID string) ([]time.Time, error) {
	return a.inner.ConfirmedTimes(ctx, doctorID)
}

// storeAsync writes to the cache off the request path. Cache write failures
// only cost future hits.
func (a *CachedDoctorAdapter) storeAsync(key string, value interface{}, ttlSeconds int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.cache.Set(ctx, key, data, ttlSeconds); err != nil {
			observability.GetLogger().Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}()
}
