package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
)

// Analyzer is the sentiment-measurement collaborator. Implementations call
// the hosted analysis function over their transport of choice; callers convert
// any returned error to an absent measurement before the responder sees it.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (sentiment.Measurement, error)
}

// measurementPayload is the JSON shape the hosted function returns for a text.
type measurementPayload struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Assessment   string  `json:"assessment"`
}

// DecodeMeasurement parses the provider's JSON payload into a Measurement,
// stamping it with the analyzed text and arrival time.
func DecodeMeasurement(raw, text string, arrivedAt time.Time) (sentiment.Measurement, error) {
	var payload measurementPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return sentiment.Measurement{}, fmt.Errorf("decode sentiment payload: %w", err)
	}

	assessment, ok := sentiment.ParseAssessment(payload.Assessment)
	if !ok {
		return sentiment.Measurement{}, fmt.Errorf("unknown assessment %q", payload.Assessment)
	}

	return sentiment.Measurement{
		Text:         text,
		Polarity:     payload.Polarity,
		Subjectivity: payload.Subjectivity,
		Assessment:   assessment,
		Timestamp:    arrivedAt.UTC(),
	}, nil
}
