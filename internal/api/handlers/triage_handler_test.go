package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/portal/backend/internal/api/handlers"
	"github.com/carebridge/portal/backend/internal/application/triage"
)

func newTriageHandler(t *testing.T) *handlers.TriageHandler {
	t.Helper()
	engine, err := triage.NewEngine()
	require.NoError(t, err)
	return handlers.NewTriageHandler(engine)
}

func TestTriageHandler_Match(t *testing.T) {
	handler := newTriageHandler(t)

	t.Run("ranks matching conditions", func(t *testing.T) {
		body := `{
			"body_part": "Chest",
			"symptoms": {"chest_pain_tightness": true, "shortness_of_breath": true, "arm_jaw_pain": true},
			"severity": "severe",
			"duration": "within_hour"
		}`
		req := httptest.NewRequest("POST", "/api/triage/match", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Match(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Matches []triage.Match `json:"matches"`
			Count   int            `json:"count"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.NotEmpty(t, response.Matches)
		assert.Equal(t, "Heart Attack", response.Matches[0].Condition)
		assert.True(t, response.Matches[0].Emergency)
	})

	t.Run("incomplete questionnaire yields an empty list", func(t *testing.T) {
		body := `{"body_part": "Chest", "symptoms": {"chest_pain_tightness": true}}`
		req := httptest.NewRequest("POST", "/api/triage/match", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Match(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Matches []triage.Match `json:"matches"`
			Count   int            `json:"count"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Empty(t, response.Matches)
		assert.Zero(t, response.Count)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/triage/match", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.Match(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTriageHandler_GetQuestions(t *testing.T) {
	handler := newTriageHandler(t)

	t.Run("lists all questionnaires", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/triage/questions", nil)
		w := httptest.NewRecorder()

		handler.GetQuestions(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Questions map[string][]triage.Question `json:"questions"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Contains(t, response.Questions, "Chest")
		assert.Contains(t, response.Questions, "Head")
	})

	t.Run("filters by body part", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/triage/questions?body_part=Stomach", nil)
		w := httptest.NewRecorder()

		handler.GetQuestions(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown body part is a 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/triage/questions?body_part=Elbow", nil)
		w := httptest.NewRecorder()

		handler.GetQuestions(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
