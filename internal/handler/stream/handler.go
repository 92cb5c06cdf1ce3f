package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
	session "github.com/sam522/sentiment-companion/internal/service/session"
	"github.com/sam522/sentiment-companion/pkg/utils"
)

// Handler streams the analysis of one message over Server-Sent Events.
type Handler struct {
	svc *session.Service
}

// New creates a new stream handler.
func New(svc *session.Service) *Handler {
	return &Handler{svc: svc}
}

// StreamResponse represents one streamed chunk.
type StreamResponse struct {
	Event       string                 `json:"event"`
	SessionID   string                 `json:"sessionId,omitempty"`
	Content     string                 `json:"content,omitempty"`
	Measurement *sentiment.Measurement `json:"measurement,omitempty"`
	Finished    bool                   `json:"finished,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// HandleStreamRequest analyzes a user message and streams the sentiment and
// empathetic reply as discrete events. With includeSummary set, the running
// conversation summary is streamed before the end event.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string, includeSummary bool) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	if _, err := h.svc.GetSession(ctx, sessionID); err != nil {
		h.sendError(w, flusher, err.Error())
		return err
	}

	h.send(w, flusher, StreamResponse{Event: "start", SessionID: sessionID})

	result, err := h.svc.Process(ctx, sessionID, userMessage)
	if err != nil {
		h.sendError(w, flusher, fmt.Sprintf("processing failed: %v", err))
		return err
	}

	if result.Measurement != nil {
		h.send(w, flusher, StreamResponse{
			Event:       "sentiment",
			SessionID:   sessionID,
			Content:     result.Display,
			Measurement: result.Measurement,
		})
	}

	h.send(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   result.Response,
	})

	if includeSummary {
		if _, display, err := h.svc.Summarize(ctx, sessionID); err == nil {
			h.send(w, flusher, StreamResponse{
				Event:     "summary",
				SessionID: sessionID,
				Content:   display,
			})
		}
	}

	h.send(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s", sessionID)
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.send(w, flusher, StreamResponse{Event: "error", Error: errorMsg})
}
