package diagnostics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmaxmax/go-sse"

	"github.com/sam522/sentiment-companion/internal/provider/gradio"
	"github.com/sam522/sentiment-companion/internal/provider/mcptool"
)

const probeText = "I love this technology!"

// CheckResult is the outcome of one connectivity check.
type CheckResult struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Duration time.Duration `json:"duration"`
	Detail   string        `json:"detail"`
}

// Probe exercises every way the hosted space can be reached: plain HTTP, the
// Gradio prediction API, the raw SSE stream and the full MCP handshake.
type Probe struct {
	baseURL    string
	sseURL     string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a probe for the space at baseURL with its MCP SSE endpoint.
func New(baseURL, sseURL string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Probe{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sseURL:     sseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Run executes all checks in order and reports per-check timing. A failing
// check never aborts the suite.
func (p *Probe) Run(ctx context.Context) []CheckResult {
	checks := []struct {
		name string
		fn   func(context.Context) (string, error)
	}{
		{"base connectivity", p.CheckBase},
		{"gradio prediction", p.CheckPrediction},
		{"sse stream", p.CheckSSE},
		{"mcp handshake", p.CheckMCP},
	}

	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		start := time.Now()
		detail, err := check.fn(ctx)

		result := CheckResult{
			Name:     check.name,
			OK:       err == nil,
			Duration: time.Since(start),
			Detail:   detail,
		}
		if err != nil {
			result.Detail = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// CheckBase verifies the space answers on its base URL.
func (p *Probe) CheckBase(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reach %s: %w", p.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d, content-type %s", resp.StatusCode, resp.Header.Get("Content-Type")), nil
}

// CheckPrediction runs one sentiment round-trip through the prediction API.
func (p *Probe) CheckPrediction(ctx context.Context) (string, error) {
	client := gradio.NewClient(p.baseURL, p.timeout)
	m, err := client.Analyze(ctx, probeText)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("assessment=%s polarity=%+.2f", m.Assessment, m.Polarity), nil
}

// CheckSSE connects to the raw SSE endpoint and reads the first events.
func (p *Probe) CheckSSE(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.sseURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reach %s: %w", p.sseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var count int
	var firstType string
	for ev, readErr := range sse.Read(resp.Body, nil) {
		if readErr != nil {
			break
		}
		if count == 0 {
			firstType = ev.Type
		}
		count++
		if count >= 3 {
			break
		}
	}

	if count == 0 {
		return "", fmt.Errorf("no events received from %s", p.sseURL)
	}
	return fmt.Sprintf("read %d events, first type=%q", count, firstType), nil
}

// CheckMCP performs the full MCP handshake, lists tools and calls the
// sentiment tool once.
func (p *Probe) CheckMCP(ctx context.Context) (string, error) {
	client := mcptool.NewClient(p.sseURL)
	defer client.Close()

	tools, err := client.Tools(ctx)
	if err != nil {
		return "", err
	}

	m, err := client.Analyze(ctx, probeText)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d tools, assessment=%s", len(tools), m.Assessment), nil
}

// Render formats check results as a human-readable report.
func Render(results []CheckResult) string {
	var b strings.Builder
	passed := 0

	for _, result := range results {
		status := "❌ FAIL"
		if result.OK {
			status = "✅ PASS"
			passed++
		}
		fmt.Fprintf(&b, "%s %-20s (%.2fs)", status, result.Name, result.Duration.Seconds())
		if result.Detail != "" {
			fmt.Fprintf(&b, " :: %s", result.Detail)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "🎯 Result: %d/%d checks passed", passed, len(results))
	return b.String()
}
