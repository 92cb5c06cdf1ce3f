package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sam522/sentiment-companion/internal/config"
	"github.com/sam522/sentiment-companion/internal/handler"
	"github.com/sam522/sentiment-companion/internal/provider"
	"github.com/sam522/sentiment-companion/internal/provider/gradio"
	"github.com/sam522/sentiment-companion/internal/provider/mcptool"
	"github.com/sam522/sentiment-companion/internal/responder"
	session "github.com/sam522/sentiment-companion/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	analyzer := newAnalyzer(cfg.Provider)

	responderCfg := responder.Config{BarWidth: cfg.Responder.BarWidth}
	svc := session.NewService(analyzer, responderCfg)

	router := handler.NewRouter(svc, analyzer, responder.New(responderCfg))

	startServer(ctx, cfg.Server, router)
}

func newAnalyzer(cfg config.ProviderConfig) provider.Analyzer {
	switch cfg.Kind {
	case "mcp":
		log.Printf("using MCP sentiment provider at %s", cfg.SSEURL)
		return mcptool.NewClient(cfg.SSEURL)
	default:
		log.Printf("using Gradio sentiment provider at %s", cfg.BaseURL)
		return gradio.NewClient(cfg.BaseURL, cfg.Timeout)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Sentiment Companion backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
