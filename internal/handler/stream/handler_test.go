package stream_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sam522/sentiment-companion/internal/handler/stream"
	"github.com/sam522/sentiment-companion/internal/model/sentiment"
	"github.com/sam522/sentiment-companion/internal/responder"
	session "github.com/sam522/sentiment-companion/internal/service/session"
)

type stubAnalyzer struct {
	measurement sentiment.Measurement
	err         error
}

func (s stubAnalyzer) Analyze(_ context.Context, text string) (sentiment.Measurement, error) {
	if s.err != nil {
		return sentiment.Measurement{}, s.err
	}
	m := s.measurement
	m.Text = text
	m.Timestamp = time.Now()
	return m, nil
}

func TestStreamEmitsEventSequence(t *testing.T) {
	svc := session.NewService(stubAnalyzer{
		measurement: sentiment.Measurement{Polarity: 0.8, Subjectivity: 0.5, Assessment: sentiment.Positive},
	}, responder.Config{})

	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	h := stream.New(svc)
	rec := httptest.NewRecorder()

	if err := h.HandleStreamRequest(context.Background(), rec, sess.ID, "what a great day", false); err != nil {
		t.Fatalf("HandleStreamRequest failed: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream content type, got %q", ct)
	}

	body := rec.Body.String()
	for _, event := range []string{`"event":"start"`, `"event":"sentiment"`, `"event":"message"`, `"event":"end"`} {
		if !strings.Contains(body, event) {
			t.Fatalf("expected %s in stream, got:\n%s", event, body)
		}
	}
	if strings.Count(body, "data: ") != 4 {
		t.Fatalf("expected 4 SSE frames, got:\n%s", body)
	}
}

func TestStreamSkipsSentimentWhenUnmeasured(t *testing.T) {
	svc := session.NewService(stubAnalyzer{err: context.DeadlineExceeded}, responder.Config{})

	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	h := stream.New(svc)
	rec := httptest.NewRecorder()

	if err := h.HandleStreamRequest(context.Background(), rec, sess.ID, "hello", false); err != nil {
		t.Fatalf("HandleStreamRequest failed: %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, `"event":"sentiment"`) {
		t.Fatalf("expected no sentiment event, got:\n%s", body)
	}
	if !strings.Contains(body, `"event":"message"`) || !strings.Contains(body, `"event":"end"`) {
		t.Fatalf("expected message and end events, got:\n%s", body)
	}
}

func TestStreamUnknownSessionSendsErrorEvent(t *testing.T) {
	svc := session.NewService(stubAnalyzer{}, responder.Config{})

	h := stream.New(svc)
	rec := httptest.NewRecorder()

	if err := h.HandleStreamRequest(context.Background(), rec, "missing", "hello", false); err == nil {
		t.Fatal("expected an error for an unknown session")
	}

	if !strings.Contains(rec.Body.String(), `"event":"error"`) {
		t.Fatalf("expected error event, got:\n%s", rec.Body.String())
	}
}

func TestStreamIncludesSummaryOnDemand(t *testing.T) {
	svc := session.NewService(stubAnalyzer{
		measurement: sentiment.Measurement{Polarity: 0.5, Subjectivity: 0.4, Assessment: sentiment.Positive},
	}, responder.Config{})

	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	h := stream.New(svc)
	rec := httptest.NewRecorder()

	if err := h.HandleStreamRequest(context.Background(), rec, sess.ID, "nice day", true); err != nil {
		t.Fatalf("HandleStreamRequest failed: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"event":"summary"`) {
		t.Fatalf("expected summary event, got:\n%s", body)
	}
	if strings.Index(body, `"event":"summary"`) > strings.Index(body, `"event":"end"`) {
		t.Fatalf("summary must precede end, got:\n%s", body)
	}
}
