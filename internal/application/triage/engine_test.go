package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	engine, err := NewEngine()
	require.NoError(t, err)
	return engine
}

func TestEngine_Match_IncompleteQuestionnaire(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name  string
		input Input
	}{
		{
			name: "missing body part",
			input: Input{
				Symptoms: map[string]bool{"headache": true},
				Severity: SeverityMild,
				Duration: DurationWithinDay,
			},
		},
		{
			name: "missing severity",
			input: Input{
				BodyPart: "Head",
				Symptoms: map[string]bool{"headache": true},
				Duration: DurationWithinDay,
			},
		},
		{
			name: "missing duration",
			input: Input{
				BodyPart: "Head",
				Symptoms: map[string]bool{"headache": true},
				Severity: SeverityMild,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			matches := engine.Match(tt.input)

			// Assert
			assert.Empty(t, matches)
		})
	}
}

func TestEngine_Match_SeverityAndDurationGates(t *testing.T) {
	engine := newTestEngine(t)

	// Arrange: full migraine symptom picture, wrong severity
	input := Input{
		BodyPart: "Head",
		Symptoms: map[string]bool{
			"headache":          true,
			"nausea_vomiting":   true,
			"light_sensitivity": true,
		},
		Severity: SeverityMild,
		Duration: DurationWithinDay,
	}

	// Act
	matches := engine.Match(input)

	// Assert: migraine requires moderate or severe
	for _, match := range matches {
		assert.NotEqual(t, "Migraine", match.Condition)
	}

	// Same picture at moderate severity qualifies
	input.Severity = SeverityModerate
	matches = engine.Match(input)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Migraine", matches[0].Condition)

	// Duration outside the rule's buckets disqualifies it again
	input.Duration = DurationMoreThanMonth
	matches = engine.Match(input)
	for _, match := range matches {
		assert.NotEqual(t, "Migraine", match.Condition)
	}
}

func TestEngine_Match_ExpansionAloneCannotQualify(t *testing.T) {
	engine := newTestEngine(t)

	// Arrange: one yes answer expands to three tokens, enough token overlap
	// for kidney stones but only one raw answer
	input := Input{
		BodyPart: "Urinary",
		Symptoms: map[string]bool{"blood_in_urine": true},
		Severity: SeveritySevere,
		Duration: DurationWithinDay,
	}

	// Act
	matches := engine.Match(input)

	// Assert
	assert.Empty(t, matches)

	// A second affirmed symptom clears the raw threshold
	input.Symptoms["lower_back_pain"] = true
	matches = engine.Match(input)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Kidney Stones", matches[0].Condition)
	assert.Equal(t, 4, matches[0].MatchCount)
}

func TestEngine_Match_NegativeAnswersAreEvidence(t *testing.T) {
	engine := newTestEngine(t)

	// Arrange: headache with everything else denied
	input := Input{
		BodyPart: "Head",
		Symptoms: map[string]bool{
			"headache":          true,
			"dizziness":         false,
			"light_sensitivity": false,
			"blurred_vision":    false,
			"nausea_vomiting":   false,
		},
		Severity: SeverityMild,
		Duration: DurationWithinDay,
	}

	// Act
	matches := engine.Match(input)

	// Assert: the denials count toward tension headache
	require.Len(t, matches, 1)
	assert.Equal(t, "Tension Headache", matches[0].Condition)
	assert.Equal(t, 4, matches[0].MatchCount)
	assert.False(t, matches[0].Emergency)
}

func TestEngine_Match_RankingIsStableOnTies(t *testing.T) {
	engine := newTestEngine(t)

	// Arrange: symptoms that tie gastroenteritis and appendicitis
	input := Input{
		BodyPart: "Stomach",
		Symptoms: map[string]bool{
			"abdominal_pain":  true,
			"nausea_vomiting": true,
		},
		Severity: SeveritySevere,
		Duration: DurationWithinDay,
	}

	// Act
	matches := engine.Match(input)

	// Assert: equal match counts keep knowledge base order
	require.Len(t, matches, 2)
	assert.Equal(t, "Gastroenteritis", matches[0].Condition)
	assert.Equal(t, "Appendicitis", matches[1].Condition)
	assert.Equal(t, matches[0].MatchCount, matches[1].MatchCount)
	assert.False(t, matches[0].Emergency)
	assert.True(t, matches[1].Emergency)
}

func TestEngine_Match_EmergencyRankedByOverlap(t *testing.T) {
	engine := newTestEngine(t)

	// Arrange
	input := Input{
		BodyPart: "Chest",
		Symptoms: map[string]bool{
			"chest_pain_tightness": true,
			"arm_jaw_pain":         true,
		},
		Severity: SeveritySevere,
		Duration: DurationWithinHour,
	}

	// Act
	matches := engine.Match(input)

	// Assert
	require.NotEmpty(t, matches)
	assert.Equal(t, "Heart Attack", matches[0].Condition)
	assert.True(t, matches[0].Emergency)
	assert.Equal(t, 3, matches[0].MatchCount)
}

func TestEngine_Match_BodyPartIsolation(t *testing.T) {
	engine := newTestEngine(t)

	// Arrange: chest answers evaluated against the wrong body part
	input := Input{
		BodyPart: "Head",
		Symptoms: map[string]bool{
			"chest_pain_tightness": true,
			"shortness_of_breath":  true,
		},
		Severity: SeveritySevere,
		Duration: DurationWithinHour,
	}

	// Act
	matches := engine.Match(input)

	// Assert
	assert.Empty(t, matches)
}

func TestTokenize(t *testing.T) {
	t.Run("one answer can assert several tokens", func(t *testing.T) {
		tokens := Tokenize(map[string]bool{"mucus": true})

		assert.True(t, tokens["mucus"])
		assert.True(t, tokens["fever"])
		assert.True(t, tokens["fatigue"])
	})

	t.Run("denials only produce mapped negative tokens", func(t *testing.T) {
		tokens := Tokenize(map[string]bool{
			"dizziness": false,
			"headache":  false,
		})

		assert.True(t, tokens["no_dizziness"])
		assert.False(t, tokens["headache"])
		assert.Len(t, tokens, 1)
	})

	t.Run("denied appetite question flags appetite loss", func(t *testing.T) {
		tokens := Tokenize(map[string]bool{"eating_normally": false})

		assert.True(t, tokens["loss_of_appetite"])
	})
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules()

	require.NoError(t, err)
	assert.NotEmpty(t, rules)
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.BodyPart)
		assert.NotEmpty(t, rule.Symptoms)
		assert.GreaterOrEqual(t, rule.MinMatches, 1)
		for _, s := range rule.Severity {
			assert.True(t, IsValidSeverity(s), "rule %s severity %s", rule.Name, s)
		}
		for _, d := range rule.Duration {
			assert.True(t, IsValidDuration(d), "rule %s duration %s", rule.Name, d)
		}
	}
}
