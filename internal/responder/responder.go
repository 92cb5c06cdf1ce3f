package responder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
)

// bucket identifies the reply family chosen for a measurement.
type bucket string

const (
	strongPositive bucket = "strong-positive"
	mildPositive   bucket = "mild-positive"
	strongNegative bucket = "strong-negative"
	mildNegative   bucket = "mild-negative"
	neutral        bucket = "neutral"
)

// Polarity thresholds that split the positive and negative assessments into
// strong and mild reply families.
const (
	strongPolarity = 0.3
	highSubj       = 0.7
	lowSubj        = 0.3
)

// replyBuckets holds the candidate replies per family. Selection is always the
// first candidate so output stays reproducible; the remaining variants are kept
// for reference.
var replyBuckets = map[bucket][]string{
	strongPositive: {
		"🌟 I can feel your enthusiasm! That's wonderful to hear.",
		"😊 Your positive energy is contagious! I'm excited to help.",
		"✨ It sounds like you're in a great mood! How can I assist you today?",
	},
	mildPositive: {
		"😌 I sense some gentle positivity in your message.",
		"🙂 You seem content. I'm here if you need anything.",
		"👍 That sounds pretty good! How can I help you further?",
	},
	strongNegative: {
		"😞 I can hear the frustration in your words. I'm here to help.",
		"💙 That sounds really challenging. Let's work through this together.",
		"🤗 I'm sorry you're dealing with this. How can I support you?",
	},
	mildNegative: {
		"😐 I sense some concern in your message. I'm here to listen.",
		"🤝 It sounds like you might be feeling uncertain. Let's talk about it.",
		"💭 I notice some hesitation. Would you like to share more?",
	},
	neutral: {
		"🤔 I'm listening. Please tell me more about what you need.",
		"📝 I understand. How would you like me to help you with this?",
		"💡 Got it. What specific assistance are you looking for?",
	},
}

const (
	fallbackReply       = "I'm here to help! Could you tell me more about what you're thinking?"
	personalQualifier   = " I can sense this is quite personal and important to you."
	objectiveQualifier  = " Let's look at this objectively and find the best solution."
	defaultBarWidth     = 20
	noDataSummaryRender = "No sentiment data available."
)

// Config controls presentation details of a responder.
type Config struct {
	// BarWidth is the cell count of the polarity/subjectivity bars rendered by
	// FormatMeasurement. Values below 1 fall back to the default of 20.
	BarWidth int
}

// Responder maps sentiment measurements to empathetic replies and keeps a
// running per-conversation history. One instance serves one conversation;
// hosts driving several conversations use one responder each.
type Responder struct {
	mu       sync.RWMutex
	history  []sentiment.Record
	barWidth int
	now      func() time.Time
}

// New creates a responder with an empty history.
func New(cfg Config) *Responder {
	width := cfg.BarWidth
	if width < 1 {
		width = defaultBarWidth
	}
	return &Responder{
		history:  make([]sentiment.Record, 0, 16),
		barWidth: width,
		now:      time.Now,
	}
}

// ClassifyAndRespond selects the empathetic reply for a measurement. A nil
// measurement means the provider failed; the fixed elicitation prompt is
// returned and no error is ever surfaced. The method is pure: history is only
// touched by Record.
func (r *Responder) ClassifyAndRespond(m *sentiment.Measurement) string {
	if m == nil {
		return fallbackReply
	}

	base := replyBuckets[classify(m)][0]

	switch {
	case m.Subjectivity > highSubj:
		return base + personalQualifier
	case m.Subjectivity < lowSubj:
		return base + objectiveQualifier
	default:
		return base
	}
}

// classify picks the reply family from assessment and polarity magnitude.
func classify(m *sentiment.Measurement) bucket {
	switch m.Assessment {
	case sentiment.Positive:
		if m.Polarity > strongPolarity {
			return strongPositive
		}
		return mildPositive
	case sentiment.Negative:
		if m.Polarity < -strongPolarity {
			return strongNegative
		}
		return mildNegative
	default:
		return neutral
	}
}

// Record appends one conversation turn. The measurement may be nil; the turn
// still counts toward conversation length.
func (r *Responder) Record(inputText string, m *sentiment.Measurement, response string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, sentiment.Record{
		InputText:   inputText,
		Measurement: m,
		Response:    response,
		CreatedAt:   r.now().UTC(),
	})
}

// History returns a copy of the conversation history in insertion order.
func (r *Responder) History() []sentiment.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make([]sentiment.Record, len(r.history))
	copy(copied, r.history)
	return copied
}

// Summary aggregates the measured turns of one conversation.
type Summary struct {
	TotalRecords    int     `json:"totalRecords"`
	Measured        int     `json:"measured"`
	HasData         bool    `json:"hasData"`
	AvgPolarity     float64 `json:"avgPolarity"`
	AvgSubjectivity float64 `json:"avgSubjectivity"`
	PositiveCount   int     `json:"positiveCount"`
	NegativeCount   int     `json:"negativeCount"`
	NeutralCount    int     `json:"neutralCount"`
	PositivePct     float64 `json:"positivePct"`
	NegativePct     float64 `json:"negativePct"`
	NeutralPct      float64 `json:"neutralPct"`
	Mood            string  `json:"mood"`
	Tone            string  `json:"tone"`
}

// Summarize computes the aggregate report over the current history. With zero
// measured turns it returns the no-data sentinel instead of dividing by zero.
func (r *Responder) Summarize() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := Summary{TotalRecords: len(r.history)}

	var sumPolarity, sumSubjectivity float64
	for _, record := range r.history {
		m := record.Measurement
		if m == nil {
			continue
		}
		summary.Measured++
		sumPolarity += m.Polarity
		sumSubjectivity += m.Subjectivity

		switch m.Assessment {
		case sentiment.Positive:
			summary.PositiveCount++
		case sentiment.Negative:
			summary.NegativeCount++
		default:
			summary.NeutralCount++
		}
	}

	if summary.Measured == 0 {
		return summary
	}

	total := float64(summary.Measured)
	summary.HasData = true
	summary.AvgPolarity = sumPolarity / total
	summary.AvgSubjectivity = sumSubjectivity / total
	summary.PositivePct = float64(summary.PositiveCount) / total * 100
	summary.NegativePct = float64(summary.NegativeCount) / total * 100
	summary.NeutralPct = float64(summary.NeutralCount) / total * 100
	summary.Mood = moodLabel(summary.AvgPolarity)
	summary.Tone = toneLabel(summary.AvgSubjectivity)

	return summary
}

func moodLabel(avgPolarity float64) string {
	switch {
	case avgPolarity > 0.1:
		return "generally positive"
	case avgPolarity < -0.1:
		return "generally negative"
	default:
		return "balanced"
	}
}

func toneLabel(avgSubjectivity float64) string {
	switch {
	case avgSubjectivity > 0.6:
		return "high"
	case avgSubjectivity > 0.3:
		return "moderate"
	default:
		return "low"
	}
}

// FormatMeasurement renders one measurement with its assessment badge and
// proportional polarity/subjectivity bars. Rendering is deterministic for
// identical input.
func (r *Responder) FormatMeasurement(m sentiment.Measurement) string {
	mood, color := assessmentBadge(m.Assessment)

	// Polarity maps [-1,1] onto the bar via (p+1)/2; subjectivity is already
	// in [0,1]. Fractional cells truncate toward zero.
	polarityBar := bar((m.Polarity+1)/2, r.barWidth)
	subjectivityBar := bar(m.Subjectivity, r.barWidth)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Sentiment Analysis Results:\n", mood)
	fmt.Fprintf(&b, "📝 Text: %q\n", m.Text)
	fmt.Fprintf(&b, "%s Assessment: %s\n", color, strings.ToUpper(string(m.Assessment)))
	fmt.Fprintf(&b, "📊 Polarity: %+.2f [%s]\n", m.Polarity, polarityBar)
	fmt.Fprintf(&b, "📈 Subjectivity: %.2f [%s]", m.Subjectivity, subjectivityBar)
	if !m.Timestamp.IsZero() {
		fmt.Fprintf(&b, "\n⏰ Analyzed: %s", m.Timestamp.Format(time.RFC3339))
	}
	return b.String()
}

// FormatSummary renders an aggregate report produced by Summarize.
func (r *Responder) FormatSummary(s Summary) string {
	if !s.HasData {
		return noDataSummaryRender
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Conversation Summary (%d messages, %d measured):\n", s.TotalRecords, s.Measured)
	fmt.Fprintf(&b, "• Average Polarity: %+.2f\n", s.AvgPolarity)
	fmt.Fprintf(&b, "• Average Subjectivity: %.2f\n", s.AvgSubjectivity)
	fmt.Fprintf(&b, "• Positive: %d (%.1f%%)\n", s.PositiveCount, s.PositivePct)
	fmt.Fprintf(&b, "• Negative: %d (%.1f%%)\n", s.NegativeCount, s.NegativePct)
	fmt.Fprintf(&b, "• Neutral: %d (%.1f%%)\n", s.NeutralCount, s.NeutralPct)
	fmt.Fprintf(&b, "• Overall Mood: %s\n", s.Mood)
	fmt.Fprintf(&b, "• Emotional Tone: %s subjectivity", s.Tone)
	return b.String()
}

func assessmentBadge(a sentiment.Assessment) (mood, color string) {
	switch a {
	case sentiment.Positive:
		return "😊 Positive", "🟢"
	case sentiment.Negative:
		return "😢 Negative", "🔴"
	default:
		return "😐 Neutral", "⚪"
	}
}

func bar(normalized float64, width int) string {
	filled := int(normalized * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
