package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/portal/backend/internal/application/services"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/domain/providers"
)

type sentMessage struct {
	to   string
	body string
}

type recordingSender struct {
	mu       sync.Mutex
	messages []sentMessage
	notify   chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{notify: make(chan struct{}, 16)}
}

func (r *recordingSender) SendText(to, body string) (string, error) {
	r.mu.Lock()
	r.messages = append(r.messages, sentMessage{to: to, body: body})
	r.mu.Unlock()
	r.notify <- struct{}{}
	return "wamid.test", nil
}

func (r *recordingSender) sent() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *recordingSender) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-r.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a notification to be sent")
	}
}

func startNotificationService(t *testing.T, users *MockUserRepository, sender *recordingSender) (*services.NotificationService, chan *entities.AppointmentEvent) {
	t.Helper()

	events := make(chan *entities.AppointmentEvent, 16)
	eventBus := new(MockEventBus)
	eventBus.On("Subscribe", mock.Anything, providers.EventChannelAppointmentUpdates).
		Return((<-chan *entities.AppointmentEvent)(events), nil)

	service := services.NewNotificationService(users, sender, eventBus)
	require.NoError(t, service.Start())
	t.Cleanup(service.Stop)

	return service, events
}

func TestNotificationService_SendsOnConfirmation(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, "pat-1").Return(&entities.User{
		ID:    "pat-1",
		Phone: "+2348001234567",
	}, nil)

	sender := newRecordingSender()
	_, events := startNotificationService(t, users, sender)

	events <- &entities.AppointmentEvent{
		ID:            "evt-1",
		AppointmentID: "apt-1",
		PatientID:     "pat-1",
		DoctorID:      "doc-1",
		EventType:     entities.AppointmentEventStatusChanged,
		Status:        entities.AppointmentStatusConfirmed,
		ProposedAt:    time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC),
	}

	sender.waitForSend(t)

	messages := sender.sent()
	require.Len(t, messages, 1)
	assert.Equal(t, "+2348001234567", messages[0].to)
	assert.Contains(t, messages[0].body, "confirmed")
	assert.Contains(t, messages[0].body, "Monday, Jan 7")
}

func TestNotificationService_SkipsPatientsWithoutPhone(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, "pat-nophone").Return(&entities.User{ID: "pat-nophone"}, nil)
	users.On("GetByID", mock.Anything, "pat-1").Return(&entities.User{
		ID:    "pat-1",
		Phone: "+2348001234567",
	}, nil)

	sender := newRecordingSender()
	_, events := startNotificationService(t, users, sender)

	cancelled := &entities.AppointmentEvent{
		AppointmentID: "apt-1",
		EventType:     entities.AppointmentEventCancelled,
		ProposedAt:    time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC),
	}

	first := *cancelled
	first.PatientID = "pat-nophone"
	events <- &first

	second := *cancelled
	second.PatientID = "pat-1"
	events <- &second

	// Events are handled in order, so one delivery means the phone-less
	// patient was skipped.
	sender.waitForSend(t)

	messages := sender.sent()
	require.Len(t, messages, 1)
	assert.Equal(t, "+2348001234567", messages[0].to)
	assert.Contains(t, messages[0].body, "cancelled")
}

func TestNotificationService_IgnoresPendingStatusChanges(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, "pat-1").Return(&entities.User{
		ID:    "pat-1",
		Phone: "+2348001234567",
	}, nil)

	sender := newRecordingSender()
	_, events := startNotificationService(t, users, sender)

	events <- &entities.AppointmentEvent{
		AppointmentID: "apt-1",
		PatientID:     "pat-1",
		EventType:     entities.AppointmentEventStatusChanged,
		Status:        entities.AppointmentStatusPending,
		ProposedAt:    time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC),
	}
	events <- &entities.AppointmentEvent{
		AppointmentID: "apt-1",
		PatientID:     "pat-1",
		EventType:     entities.AppointmentEventNegotiated,
		ProposedAt:    time.Date(2030, time.January, 8, 10, 0, 0, 0, time.UTC),
	}

	sender.waitForSend(t)

	messages := sender.sent()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].body, "new time")
}
