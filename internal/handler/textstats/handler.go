package textstats

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	stats "github.com/sam522/sentiment-companion/internal/textstats"
	"github.com/sam522/sentiment-companion/pkg/utils"
)

// Handler exposes the text statistics tools over HTTP.
type Handler struct{}

// New creates the text statistics handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the text tool routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/text/letter-count", h.handleLetterCount)
	r.Post("/text/stats", h.handleStats)
}

func (h *Handler) handleLetterCount(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text   string `json:"text"`
		Letter string `json:"letter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]int{
		"count": stats.LetterCount(payload.Text, payload.Letter),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, stats.Analyze(payload.Text))
}
