package entities

import (
	"encoding/json"
	"time"
)

// MedicalRecordKeys is the closed vocabulary of tracked health metrics.
var MedicalRecordKeys = []string{
	"blood_pressure",
	"heart_rate",
	"blood_sugar",
	"cholesterol",
	"body_temperature",
	"oxygen_saturation",
	"weight",
	"height",
	"bmi",
	"current_medications",
	"past_illnesses",
}

// IsValidMedicalRecordKey reports whether key is in the tracked vocabulary.
func IsValidMedicalRecordKey(key string) bool {
	for _, k := range MedicalRecordKeys {
		if k == key {
			return true
		}
	}
	return false
}

// MedicalRecord is one health metric tracked per patient. A patient holds at
// most one row per key; writes are upserts.
type MedicalRecord struct {
	ID         string          `json:"id" db:"id"`
	UserID     string          `json:"user_id" db:"user_id"`
	Key        string          `json:"key" db:"key"`
	Value      json.RawMessage `json:"value" db:"value"`
	Unit       string          `json:"unit" db:"unit"`
	Notes      string          `json:"notes" db:"notes"`
	RecordedAt time.Time       `json:"recorded_at" db:"recorded_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
