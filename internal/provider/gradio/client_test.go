package gradio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
)

const payload = `{"polarity": 0.6, "subjectivity": 0.4, "assessment": "positive"}`

func predictionServer(t *testing.T, servedPath string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != servedPath {
			http.NotFound(w, r)
			return
		}

		var req struct {
			Data []string `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Data) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": []string{payload}})
	}))
}

func TestAnalyzeDiscoversEndpointShape(t *testing.T) {
	var hits atomic.Int64
	// Only the second known shape answers; the client must fall through to it.
	srv := predictionServer(t, "/call/predict", &hits)
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	m, err := c.Analyze(context.Background(), "I love this technology!")
	if err != nil {
		t.Fatalf("Analyze err: %v", err)
	}
	if m.Assessment != sentiment.Positive || m.Polarity != 0.6 {
		t.Fatalf("unexpected measurement: %+v", m)
	}
	if m.Text != "I love this technology!" {
		t.Fatalf("unexpected text: %q", m.Text)
	}
}

func TestAnalyzeReusesDiscoveredEndpoint(t *testing.T) {
	var hits atomic.Int64
	srv := predictionServer(t, "/run/predict", &hits)
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Analyze(context.Background(), "first"); err != nil {
		t.Fatalf("first Analyze err: %v", err)
	}

	afterDiscovery := hits.Load()
	if _, err := c.Analyze(context.Background(), "second"); err != nil {
		t.Fatalf("second Analyze err: %v", err)
	}

	// The discovered shape goes first, so the follow-up costs exactly one hit.
	if got := hits.Load() - afterDiscovery; got != 1 {
		t.Fatalf("expected 1 request after discovery, got %d", got)
	}
}

func TestAnalyzeAllShapesFail(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.Analyze(context.Background(), "anything"); err == nil {
		t.Fatal("expected error when no endpoint shape answers")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping err: %v", err)
	}
}
