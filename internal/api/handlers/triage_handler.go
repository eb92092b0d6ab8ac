package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/carebridge/portal/backend/internal/application/triage"
)

// TriageHandler handles symptom checker requests
type TriageHandler struct {
	engine *triage.Engine
}

// NewTriageHandler creates a new triage handler
func NewTriageHandler(engine *triage.Engine) *TriageHandler {
	return &TriageHandler{
		engine: engine,
	}
}

type triageRequest struct {
	BodyPart string          `json:"body_part"`
	Symptoms map[string]bool `json:"symptoms"`
	Severity string          `json:"severity"`
	Duration string          `json:"duration"`
}

// Match handles POST /api/triage/match
func (h *TriageHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req triageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	matches := h.engine.Match(triage.Input{
		BodyPart: req.BodyPart,
		Symptoms: req.Symptoms,
		Severity: req.Severity,
		Duration: req.Duration,
	})

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetQuestions handles GET /api/triage/questions. The questionnaire for every
// body part ships with the server so clients never hardcode symptom ids.
func (h *TriageHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	if bodyPart := r.URL.Query().Get("body_part"); bodyPart != "" {
		questions, ok := triage.Questions[bodyPart]
		if !ok {
			respondWithError(w, http.StatusNotFound, "unknown body part")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"questions": questions,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"questions": triage.Questions,
	})
}
