package entities

import (
	"time"
)

// User represents a patient account in the portal
type User struct {
	ID                  string     `json:"id" db:"id"`
	Email               string     `json:"email" db:"email"`
	Password            string     `json:"-" db:"password"`
	FirstName           string     `json:"first_name" db:"first_name"`
	LastName            string     `json:"last_name" db:"last_name"`
	Phone               string     `json:"phone" db:"phone"`
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender              string     `json:"gender,omitempty" db:"gender"`
	BloodType           string     `json:"blood_type,omitempty" db:"blood_type"`
	Allergies           string     `json:"allergies,omitempty" db:"allergies"`
	Medications         string     `json:"medications,omitempty" db:"medications"`
	MedicalHistory      string     `json:"medical_history,omitempty" db:"medical_history"`
	EmergencyContact    string     `json:"emergency_contact,omitempty" db:"emergency_contact"`
	OnboardingCompleted bool       `json:"onboarding_completed" db:"onboarding_completed"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// MedicalInfo carries the onboarding profile a patient submits. The
// list-valued fields are stored serialized as JSON strings on the user row.
type MedicalInfo struct {
	DateOfBirth      time.Time `json:"date_of_birth"`
	Gender           string    `json:"gender"`
	BloodType        string    `json:"blood_type"`
	Allergies        []string  `json:"allergies"`
	Medications      []string  `json:"medications"`
	MedicalHistory   []string  `json:"medical_history"`
	EmergencyContact Contact   `json:"emergency_contact"`
}

// Contact is an emergency contact person
type Contact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}
