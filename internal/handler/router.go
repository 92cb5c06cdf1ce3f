package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sam522/sentiment-companion/internal/handler/chat"
	"github.com/sam522/sentiment-companion/internal/handler/stream"
	textstatshandler "github.com/sam522/sentiment-companion/internal/handler/textstats"
	"github.com/sam522/sentiment-companion/internal/handler/ws"
	"github.com/sam522/sentiment-companion/internal/middleware"
	"github.com/sam522/sentiment-companion/internal/provider"
	"github.com/sam522/sentiment-companion/internal/responder"
	session "github.com/sam522/sentiment-companion/internal/service/session"
	"github.com/sam522/sentiment-companion/pkg/utils"
)

// NewRouter assembles the full HTTP surface of the service.
func NewRouter(svc *session.Service, analyzer provider.Analyzer, resp *responder.Responder) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	chatHandler := chat.New(svc, analyzer, resp)
	streamHandler := stream.New(svc)
	wsHandler := ws.New(svc)
	textHandler := textstatshandler.New()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		textHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			message := r.URL.Query().Get("message")
			if message == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			includeSummary := r.URL.Query().Get("summary") != ""
			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, message, includeSummary); err != nil {
				log.Printf("[router] stream request failed: %v", err)
			}
		})
	})

	return r
}
