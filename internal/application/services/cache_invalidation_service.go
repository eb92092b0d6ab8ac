package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/carebridge/portal/backend/internal/adapters/database"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/providers"
)

// CacheInvalidationService handles cache invalidation based on events
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelAppointmentUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to appointment updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.AppointmentEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent invalidates the caches an appointment change can stale: the
// affected doctor's directory entries and any cached doctor HTTP responses.
// Search caches are left to expire on their short TTLs.
func (s *CacheInvalidationService) handleEvent(event *entities.AppointmentEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("Processing cache invalidation for event: %s (doctor: %s, type: %s)",
		event.ID, event.DoctorID, event.EventType)

	if err := s.InvalidateDoctorCache(ctx, event.DoctorID); err != nil {
		log.Printf("Warning: Failed to invalidate doctor cache for %s: %v", event.DoctorID, err)
	}
}

// InvalidateDoctorCache invalidates cached entries for a specific doctor
func (s *CacheInvalidationService) InvalidateDoctorCache(ctx context.Context, doctorID string) error {
	if err := s.cache.Delete(ctx, database.DoctorDetailCacheKey(doctorID)); err != nil {
		return fmt.Errorf("failed to invalidate doctor detail cache: %w", err)
	}
	if err := s.cache.Delete(ctx, database.DoctorListCacheKey()); err != nil {
		return fmt.Errorf("failed to invalidate doctor list cache: %w", err)
	}

	pattern := fmt.Sprintf("http:cache:*doctors/%s*", doctorID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate doctor response cache: %w", err)
	}

	log.Printf("Invalidated doctor cache for %s", doctorID)
	return nil
}

// InvalidateDirectoryCaches clears every cached doctor directory response.
// Intended for maintenance and bulk reindexing.
func (s *CacheInvalidationService) InvalidateDirectoryCaches(ctx context.Context) error {
	patterns := []string{
		"http:cache:*doctors*",
		"doctors:*",
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
		log.Printf("Invalidated cache pattern: %s", pattern)
	}

	return nil
}
