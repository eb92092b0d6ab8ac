package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/providers"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
)

// NotificationService sends a WhatsApp message to the patient whenever one
// of their appointments changes. Patients without a phone number on file
// are skipped.
type NotificationService struct {
	users    repositories.UserRepository
	sender   providers.MessageSender
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewNotificationService creates a new notification service
func NewNotificationService(users repositories.UserRepository, sender providers.MessageSender, eventBus providers.EventBus) *NotificationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationService{
		users:    users,
		sender:   sender,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for appointment events
func (s *NotificationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelAppointmentUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to appointment updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Notification service started")
	return nil
}

// Stop stops the notification service
func (s *NotificationService) Stop() {
	s.cancel()
	log.Println("Notification service stopped")
}

func (s *NotificationService) processEvents(eventChan <-chan *entities.AppointmentEvent) {
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

func (s *NotificationService) handleEvent(event *entities.AppointmentEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := s.users.GetByID(ctx, event.PatientID)
	if err != nil {
		log.Printf("Warning: failed to load patient %s for notification: %v", event.PatientID, err)
		return
	}
	if user.Phone == "" {
		return
	}

	body := composeMessage(event)
	if body == "" {
		return
	}

	messageID, err := s.sender.SendText(user.Phone, body)
	if err != nil {
		log.Printf("Warning: failed to notify patient %s about appointment %s: %v",
			event.PatientID, event.AppointmentID, err)
		return
	}

	log.Printf("Sent %s notification for appointment %s (message %s)",
		event.EventType, event.AppointmentID, messageID)
}

// composeMessage builds the notification text for an appointment event.
// Events that carry no news for the patient return an empty string.
func composeMessage(event *entities.AppointmentEvent) string {
	when := event.ProposedAt.Format("Monday, Jan 2 at 3:04 PM")

	switch event.EventType {
	case entities.AppointmentEventCreated:
		return fmt.Sprintf("Your appointment request for %s has been received and is awaiting confirmation.", when)
	case entities.AppointmentEventStatusChanged:
		switch event.Status {
		case entities.AppointmentStatusConfirmed:
			return fmt.Sprintf("Your appointment on %s has been confirmed.", when)
		case entities.AppointmentStatusCompleted:
			return "Thank you for your visit. Your appointment has been marked as completed."
		default:
			return ""
		}
	case entities.AppointmentEventNegotiated:
		return fmt.Sprintf("A new time of %s has been proposed for your appointment. Please review it in the portal.", when)
	case entities.AppointmentEventCancelled:
		return fmt.Sprintf("Your appointment on %s has been cancelled.", when)
	default:
		return ""
	}
}
