package entities

import (
	"time"
)

// Doctor represents a doctor in the directory
type Doctor struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Specialty   string    `json:"specialty" db:"specialty"`
	Image       string    `json:"image" db:"image"`
	Bio         string    `json:"bio" db:"bio"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Availability holds the doctor's weekly windows; populated on reads,
	// not a column.
	Availability []*AvailabilityWindow `json:"availability,omitempty" db:"-"`

	// AppointmentCount is the number of confirmed appointments; populated
	// on directory reads, not a column.
	AppointmentCount int `json:"appointment_count" db:"-"`
}

// AvailabilityWindow represents a recurring weekly working window.
// DayOfWeek follows time.Weekday numbering (0 = Sunday).
// StartTime and EndTime are wall-clock strings in "HH:MM" form.
type AvailabilityWindow struct {
	ID        string    `json:"id" db:"id"`
	DoctorID  string    `json:"doctor_id" db:"doctor_id"`
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DoctorSummary is the compact doctor shape embedded in appointment listings
type DoctorSummary struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Specialty string `json:"specialty" db:"specialty"`
	Image     string `json:"image" db:"image"`
}
