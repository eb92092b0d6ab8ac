package triage

import (
	"sort"
)

// Input is one completed symptom questionnaire
type Input struct {
	BodyPart string          `json:"body_part"`
	Symptoms map[string]bool `json:"symptoms"`
	Severity string          `json:"severity"`
	Duration string          `json:"duration"`
}

// Match is one condition suggestion, strongest first
type Match struct {
	Condition  string `json:"condition"`
	MatchCount int    `json:"match_count"`
	Emergency  bool   `json:"emergency"`
}

// Engine evaluates questionnaires against the condition knowledge base
type Engine struct {
	rules []ConditionRule
}

// NewEngine creates an engine backed by the embedded knowledge base
func NewEngine() (*Engine, error) {
	rules, err := LoadRules()
	if err != nil {
		return nil, err
	}
	return &Engine{rules: rules}, nil
}

// NewEngineWithRules creates an engine with an explicit rule set
func NewEngineWithRules(rules []ConditionRule) *Engine {
	return &Engine{rules: rules}
}

// Match evaluates the questionnaire and returns qualifying conditions ranked
// by symptom overlap, descending. Ties keep knowledge base order. An
// incomplete questionnaire matches nothing.
func (e *Engine) Match(input Input) []Match {
	if input.BodyPart == "" || input.Severity == "" || input.Duration == "" {
		return []Match{}
	}

	tokens := Tokenize(input.Symptoms)

	// A rule must clear min_matches twice: once against the expanded token
	// set and once against the raw yes answers. Expansion alone cannot
	// qualify a condition.
	rawYesCount := 0
	for _, answered := range input.Symptoms {
		if answered {
			rawYesCount++
		}
	}

	matches := []Match{}
	for _, rule := range e.rules {
		if rule.BodyPart != input.BodyPart {
			continue
		}
		if !contains(rule.Severity, input.Severity) {
			continue
		}
		if !contains(rule.Duration, input.Duration) {
			continue
		}

		matchCount := 0
		for _, symptom := range rule.Symptoms {
			if tokens[symptom] {
				matchCount++
			}
		}

		if matchCount < rule.MinMatches || rawYesCount < rule.MinMatches {
			continue
		}

		matches = append(matches, Match{
			Condition:  rule.Name,
			MatchCount: matchCount,
			Emergency:  IsEmergency(rule.Name),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchCount > matches[j].MatchCount
	})

	return matches
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
