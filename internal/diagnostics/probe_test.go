package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testSpace(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/predict", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		payload := `{"polarity": 0.5, "subjectivity": 0.6, "assessment": "positive"}`
		json.NewEncoder(w).Encode(map[string]any{"data": []string{payload}})
	})
	mux.HandleFunc("/gradio_api/mcp/sse", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: endpoint\ndata: /gradio_api/mcp/messages/abc\n\n")
		fmt.Fprint(w, ": ping\n\n")
	})
	return httptest.NewServer(mux)
}

func TestCheckBase(t *testing.T) {
	srv := testSpace(t)
	defer srv.Close()

	p := New(srv.URL, srv.URL+"/gradio_api/mcp/sse", 5*time.Second)
	detail, err := p.CheckBase(context.Background())
	if err != nil {
		t.Fatalf("CheckBase err: %v", err)
	}
	if !strings.Contains(detail, "status 200") {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestCheckPrediction(t *testing.T) {
	srv := testSpace(t)
	defer srv.Close()

	p := New(srv.URL, srv.URL+"/gradio_api/mcp/sse", 5*time.Second)
	detail, err := p.CheckPrediction(context.Background())
	if err != nil {
		t.Fatalf("CheckPrediction err: %v", err)
	}
	if !strings.Contains(detail, "assessment=positive") {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestCheckSSE(t *testing.T) {
	srv := testSpace(t)
	defer srv.Close()

	p := New(srv.URL, srv.URL+"/gradio_api/mcp/sse", 5*time.Second)
	detail, err := p.CheckSSE(context.Background())
	if err != nil {
		t.Fatalf("CheckSSE err: %v", err)
	}
	if !strings.Contains(detail, `first type="endpoint"`) {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestCheckSSERejectsNonStreamingEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := New(srv.URL, srv.URL+"/gradio_api/mcp/sse", 2*time.Second)
	if _, err := p.CheckSSE(context.Background()); err == nil {
		t.Fatal("expected error for missing SSE endpoint")
	}
}

func TestRenderCountsPasses(t *testing.T) {
	results := []CheckResult{
		{Name: "base connectivity", OK: true, Duration: 120 * time.Millisecond, Detail: "status 200"},
		{Name: "mcp handshake", OK: false, Duration: time.Second, Detail: "timeout"},
	}

	out := Render(results)
	if !strings.Contains(out, "✅ PASS") || !strings.Contains(out, "❌ FAIL") {
		t.Fatalf("expected both statuses in %q", out)
	}
	if !strings.Contains(out, "1/2 checks passed") {
		t.Fatalf("expected pass count in %q", out)
	}
}
