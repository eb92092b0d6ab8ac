package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled   AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
	AppointmentStatusNegotiating AppointmentStatus = "NEGOTIATING"
)

// ActiveStatuses are the statuses that hold a doctor's time slot.
var ActiveStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusNegotiating,
}

// allowedTransitions is the appointment lifecycle. Statuses missing from the
// map are terminal.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusConfirmed,
		AppointmentStatusCancelled,
		AppointmentStatusNegotiating,
	},
	AppointmentStatusNegotiating: {
		AppointmentStatusConfirmed,
		AppointmentStatusCancelled,
		AppointmentStatusNegotiating,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCancelled,
		AppointmentStatusCompleted,
	},
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to AppointmentStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known appointment status.
func IsValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted,
		AppointmentStatusNegotiating:
		return true
	}
	return false
}

// Appointment represents a scheduled appointment between a patient and a
// doctor. ProposedAt always holds the latest proposed time, whichever side
// proposed it.
type Appointment struct {
	ID         string            `json:"id" db:"id"`
	PatientID  string            `json:"patient_id" db:"patient_id"`
	DoctorID   string            `json:"doctor_id" db:"doctor_id"`
	ProposedAt time.Time         `json:"proposed_at" db:"proposed_at"`
	Status     AppointmentStatus `json:"status" db:"status"`
	Notes      string            `json:"notes" db:"notes"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`

	// Doctor and Negotiations are populated on reads, not columns.
	Doctor       *DoctorSummary `json:"doctor,omitempty" db:"-"`
	Negotiations []*Negotiation `json:"negotiations,omitempty" db:"-"`
}

// NegotiationParty identifies which side proposed a time
type NegotiationParty string

const (
	NegotiationPartyPatient NegotiationParty = "PATIENT"
	NegotiationPartyDoctor  NegotiationParty = "DOCTOR"
)

// NegotiationStatus represents the state of a single counter-proposal
type NegotiationStatus string

const (
	NegotiationStatusPending  NegotiationStatus = "PENDING"
	NegotiationStatusAccepted NegotiationStatus = "ACCEPTED"
	NegotiationStatusDeclined NegotiationStatus = "DECLINED"
)

// Negotiation represents one counter-proposal in an appointment's history
type Negotiation struct {
	ID            string            `json:"id" db:"id"`
	AppointmentID string            `json:"appointment_id" db:"appointment_id"`
	ProposedTime  time.Time         `json:"proposed_time" db:"proposed_time"`
	Message       string            `json:"message" db:"message"`
	ProposedBy    NegotiationParty  `json:"proposed_by" db:"proposed_by"`
	Status        NegotiationStatus `json:"status" db:"status"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}
