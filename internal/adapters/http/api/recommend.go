// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/okian/stride/internal/domain/filter"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
)

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps         Dependencies
	defaultLimit int
	maxLimit     int
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps Dependencies, defaultLimit, maxLimit int) *RecommendHandler {
	return &RecommendHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// recommendRequest mirrors the OpenAPI schema for POST /recommend.
type recommendRequest struct {
	model.Preferences
	NumRecommendations int `json:"num_recommendations"`
}

// recommendResponse wraps the ranked shortlist. An empty shortlist with
// notes is the explicit no-match indicator, distinct from an error.
type recommendResponse struct {
	Results []types.ScoredResult `json:"results"`
	Notes   []string             `json:"notes,omitempty"`
}

// HandleRecommend handles POST /recommend requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.NumRecommendations < 0 || req.NumRecommendations > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	results, err := h.deps.Recommend(r.Context(), req.Preferences, req.NumRecommendations)
	switch {
	case errors.Is(err, model.ErrInvalidPreferences):
		writeError(w, http.StatusBadRequest, "invalid_preferences", err)
		return
	case errors.Is(err, filter.ErrNoMatches):
		writeJSON(w, http.StatusOK, recommendResponse{
			Results: []types.ScoredResult{},
			Notes:   []string{"No shoes match your criteria. Try relaxing brand preferences or budget constraints."},
		})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{Results: results, Notes: notesFor(results, req.Preferences)})
}

// notesFor produces advisory notes about the shortlist, mirroring the
// rule-based reasons' best-effort tone.
func notesFor(results []types.ScoredResult, prefs model.Preferences) []string {
	var notes []string
	if len(results) > 0 && len(results) < 3 {
		notes = append(notes, "Fewer recommendations than usual - consider relaxing some constraints for more options.")
	}
	missing := 0
	for _, r := range results {
		if r.Explanation == "" {
			missing++
		}
	}
	if missing == len(results) && len(results) > 0 {
		notes = append(notes, "Free-text explanations are temporarily unavailable; rule-based reasons are shown.")
	}
	return notes
}
