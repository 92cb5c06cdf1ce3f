package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
	"github.com/sam522/sentiment-companion/internal/provider"
	"github.com/sam522/sentiment-companion/internal/responder"
)

var ErrSessionNotFound = errors.New("session not found")

// Session captures one transient anonymous conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Result is the outcome of processing one user message.
type Result struct {
	Measurement *sentiment.Measurement `json:"measurement,omitempty"`
	Response    string                 `json:"response"`
	Display     string                 `json:"display,omitempty"`
}

// Service owns the in-memory conversation state. Each session gets its own
// responder so histories never mix; the analyzer is an injected collaborator,
// never a shared singleton.
type Service struct {
	analyzer     provider.Analyzer
	responderCfg responder.Config

	mu         sync.RWMutex
	sessions   map[string]Session
	responders map[string]*responder.Responder
}

// NewService bootstraps the in-memory session service.
func NewService(analyzer provider.Analyzer, cfg responder.Config) *Service {
	return &Service{
		analyzer:     analyzer,
		responderCfg: cfg,
		sessions:     make(map[string]Session),
		responders:   make(map[string]*responder.Responder),
	}
}

// CreateSession provisions an anonymous conversation.
func (s *Service) CreateSession(_ context.Context) (Session, error) {
	session := Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.responders[session.ID] = responder.New(s.responderCfg)
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Process analyzes a user message, generates the empathetic reply and appends
// the turn to the session history. Provider failures degrade to an absent
// measurement and the fixed elicitation prompt; they never fail the call.
func (s *Service) Process(ctx context.Context, sessionID, text string) (Result, error) {
	r, err := s.responderFor(sessionID)
	if err != nil {
		return Result{}, err
	}

	var m *sentiment.Measurement
	measurement, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		log.Printf("[session] sentiment analysis failed for session=%s: %v", sessionID, err)
	} else {
		m = &measurement
	}

	response := r.ClassifyAndRespond(m)
	r.Record(text, m, response)

	result := Result{Measurement: m, Response: response}
	if m != nil {
		result.Display = r.FormatMeasurement(*m)
	}
	return result, nil
}

// History returns the recorded turns of a session in conversation order.
func (s *Service) History(_ context.Context, sessionID string) ([]sentiment.Record, error) {
	r, err := s.responderFor(sessionID)
	if err != nil {
		return nil, err
	}
	return r.History(), nil
}

// Summarize aggregates the session's measured turns.
func (s *Service) Summarize(_ context.Context, sessionID string) (responder.Summary, string, error) {
	r, err := s.responderFor(sessionID)
	if err != nil {
		return responder.Summary{}, "", err
	}

	summary := r.Summarize()
	return summary, r.FormatSummary(summary), nil
}

func (s *Service) responderFor(sessionID string) (*responder.Responder, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.responders[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return r, nil
}
