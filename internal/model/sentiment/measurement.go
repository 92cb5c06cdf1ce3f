package sentiment

import (
	"strings"
	"time"
)

// Assessment is the categorical verdict returned by the hosted analyzer.
type Assessment string

const (
	Positive Assessment = "positive"
	Negative Assessment = "negative"
	Neutral  Assessment = "neutral"
)

// ParseAssessment normalizes a raw assessment string from the provider.
func ParseAssessment(raw string) (Assessment, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive":
		return Positive, true
	case "negative":
		return Negative, true
	case "neutral":
		return Neutral, true
	default:
		return "", false
	}
}

// Measurement is one sentiment reading for a piece of text. Polarity is in
// [-1, 1], subjectivity in [0, 1]. Assessment is trusted as delivered by the
// provider and never re-derived from polarity.
type Measurement struct {
	Text         string     `json:"text"`
	Polarity     float64    `json:"polarity"`
	Subjectivity float64    `json:"subjectivity"`
	Assessment   Assessment `json:"assessment"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Record is one conversation turn kept in a responder's history. Measurement
// is nil when the provider failed for that turn; such records still count
// toward conversation length but are excluded from sentiment statistics.
type Record struct {
	InputText   string       `json:"inputText"`
	Measurement *Measurement `json:"measurement,omitempty"`
	Response    string       `json:"response"`
	CreatedAt   time.Time    `json:"createdAt"`
}
