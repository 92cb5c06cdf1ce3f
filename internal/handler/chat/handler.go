package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
	"github.com/sam522/sentiment-companion/internal/provider"
	"github.com/sam522/sentiment-companion/internal/responder"
	session "github.com/sam522/sentiment-companion/internal/service/session"
	"github.com/sam522/sentiment-companion/pkg/utils"
)

// Handler exposes sessions, per-session messages and one-shot analysis.
type Handler struct {
	svc      *session.Service
	analyzer provider.Analyzer
	resp     *responder.Responder
}

// New creates the chat handler. The responder instance only serves the
// session-less /analyze path; session histories live in the service.
func New(svc *session.Service, analyzer provider.Analyzer, resp *responder.Responder) *Handler {
	return &Handler{svc: svc, analyzer: analyzer, resp: resp}
}

// RegisterRoutes mounts chat routes on the API router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/analyze", h.handleAnalyze)
	r.Post("/session/{sessionID}/message", h.handleMessage)
	r.Get("/session/{sessionID}/history", h.handleHistory)
	r.Get("/session/{sessionID}/summary", h.handleSummary)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sess)
}

type textPayload struct {
	Text string `json:"text"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload textPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	// Provider failure degrades to an absent measurement; the endpoint itself
	// never fails on it.
	var m *sentiment.Measurement
	if measurement, err := h.analyzer.Analyze(r.Context(), payload.Text); err == nil {
		measurement.Timestamp = measurement.Timestamp.UTC()
		m = &measurement
	}

	result := session.Result{
		Measurement: m,
		Response:    h.resp.ClassifyAndRespond(m),
	}
	if m != nil {
		result.Display = h.resp.FormatMeasurement(*m)
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload textPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.svc.Process(r.Context(), sessionID, payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	history, err := h.svc.History(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"records":   history,
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	summary, display, err := h.svc.Summarize(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId":   sessionID,
		"summary":     summary,
		"display":     display,
		"generatedAt": time.Now().UTC(),
	})
}

func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, session.ErrSessionNotFound) {
		status = http.StatusNotFound
	}
	utils.RespondError(w, status, err.Error())
}
