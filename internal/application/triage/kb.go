package triage

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed conditions.json
var conditionsJSON []byte

// ConditionRule is one entry in the condition knowledge base
type ConditionRule struct {
	Name       string   `json:"name"`
	BodyPart   string   `json:"body_part"`
	Symptoms   []string `json:"symptoms"`
	Severity   []string `json:"severity"`
	Duration   []string `json:"duration"`
	MinMatches int      `json:"min_matches"`
}

// emergencyNames flags conditions that need immediate care.
var emergencyNames = []string{"Heart Attack", "Appendicitis"}

// IsEmergency reports whether a condition name indicates an emergency.
func IsEmergency(name string) bool {
	for _, e := range emergencyNames {
		if strings.Contains(name, e) {
			return true
		}
	}
	return false
}

// LoadRules parses the embedded knowledge base.
func LoadRules() ([]ConditionRule, error) {
	var rules []ConditionRule
	if err := json.Unmarshal(conditionsJSON, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse condition knowledge base: %w", err)
	}
	return rules, nil
}
