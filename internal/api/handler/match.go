package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/sosgame/internal/api/response"
	"github.com/mcoot/sosgame/internal/model"
)

// MatchReader is the read side of the match registry
type MatchReader interface {
	Get(ctx context.Context, code model.MatchCode) (*model.Match, error)
	List(ctx context.Context) ([]*model.Match, error)
}

// MatchHandler serves read-only match inspection. Play happens over the
// WebSocket.
type MatchHandler struct {
	matches MatchReader
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matches MatchReader) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// List handles GET /api/v1/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MatchListFromModel(matches))
}

// Get handles GET /api/v1/matches/{code}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := normaliseCode(mux.Vars(r)["code"])

	m, err := h.matches.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

func normaliseCode(raw string) model.MatchCode {
	return model.MatchCode(strings.ToUpper(strings.TrimSpace(raw)))
}
