package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	session "github.com/sam522/sentiment-companion/internal/service/session"
	"github.com/sam522/sentiment-companion/pkg/utils"
)

// Handler drives a live conversation over a WebSocket: every inbound text
// frame is analyzed and answered with sentiment and reply frames.
type Handler struct {
	svc      *session.Service
	upgrader websocket.Upgrader
}

// New creates the WebSocket chat handler.
func New(svc *session.Service) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.svc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read failed for session=%s: %v", sessionID, err)
			}
			return
		}

		for _, frame := range h.handleFrame(r.Context(), sessionID, inbound) {
			if err := conn.WriteJSON(frame); err != nil {
				log.Printf("[ws] write failed for session=%s: %v", sessionID, err)
				return
			}
		}
	}
}

// handleFrame maps one inbound frame to the outgoing frames it produces.
func (h *Handler) handleFrame(ctx context.Context, sessionID string, inbound inboundMessage) []outgoingMessage {
	now := time.Now().UnixMilli()

	switch inbound.Type {
	case "message":
		if inbound.Text == "" {
			return []outgoingMessage{{Type: "error", SessionID: sessionID, Error: "text is required", Timestamp: now}}
		}

		result, err := h.svc.Process(ctx, sessionID, inbound.Text)
		if err != nil {
			return []outgoingMessage{{Type: "error", SessionID: sessionID, Error: err.Error(), Timestamp: now}}
		}

		frames := make([]outgoingMessage, 0, 2)
		if result.Measurement != nil {
			frames = append(frames, outgoingMessage{
				Type:      "sentiment",
				SessionID: sessionID,
				Data:      result.Measurement,
				Timestamp: now,
			})
		}
		frames = append(frames, outgoingMessage{
			Type:      "reply",
			SessionID: sessionID,
			Data:      result.Response,
			Timestamp: now,
		})
		return frames

	case "summary":
		summary, display, err := h.svc.Summarize(ctx, sessionID)
		if err != nil {
			return []outgoingMessage{{Type: "error", SessionID: sessionID, Error: err.Error(), Timestamp: now}}
		}
		return []outgoingMessage{{
			Type:      "summary",
			SessionID: sessionID,
			Data:      map[string]any{"summary": summary, "display": display},
			Timestamp: now,
		}}

	default:
		return []outgoingMessage{{Type: "error", SessionID: sessionID, Error: "unsupported message type", Timestamp: now}}
	}
}
