package gradio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
	"github.com/sam522/sentiment-companion/internal/provider"
)

// endpointShapes lists the prediction paths Gradio deployments have exposed
// across versions. The first shape that answers 200 is remembered for the rest
// of the client's lifetime.
var endpointShapes = []string{
	"/api/predict",
	"/call/predict",
	"/run/predict",
	"/gradio_api/predict",
}

var ErrNoEndpoint = errors.New("no usable prediction endpoint")

// Client calls the hosted sentiment function over the Gradio prediction API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	endpoint string // discovered prediction path, empty until first success
}

// NewClient creates a client for the Gradio space at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ping checks that the space answers on its base URL.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reach %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.baseURL)
	}
	return nil
}

// Analyze sends text to the prediction API and parses the sentiment payload.
// On the first call it walks the known endpoint shapes until one answers.
func (c *Client) Analyze(ctx context.Context, text string) (sentiment.Measurement, error) {
	for _, path := range c.candidatePaths() {
		measurement, err := c.predict(ctx, path, text)
		if err != nil {
			if ctx.Err() != nil {
				return sentiment.Measurement{}, ctx.Err()
			}
			log.Printf("[gradio] %s failed: %v", path, err)
			continue
		}

		c.mu.Lock()
		c.endpoint = path
		c.mu.Unlock()
		return measurement, nil
	}

	return sentiment.Measurement{}, fmt.Errorf("%w for %s", ErrNoEndpoint, c.baseURL)
}

// candidatePaths puts the discovered endpoint first so follow-up calls skip
// the trial loop.
func (c *Client) candidatePaths() []string {
	c.mu.Lock()
	discovered := c.endpoint
	c.mu.Unlock()

	if discovered == "" {
		return endpointShapes
	}

	paths := []string{discovered}
	for _, path := range endpointShapes {
		if path != discovered {
			paths = append(paths, path)
		}
	}
	return paths
}

// predictionResponse wraps the function output; Gradio returns the inner
// result as a JSON string in data[0].
type predictionResponse struct {
	Data []json.RawMessage `json:"data"`
}

func (c *Client) predict(ctx context.Context, path, text string) (sentiment.Measurement, error) {
	body, err := json.Marshal(map[string]any{"data": []string{text}})
	if err != nil {
		return sentiment.Measurement{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return sentiment.Measurement{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return sentiment.Measurement{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return sentiment.Measurement{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var prediction predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return sentiment.Measurement{}, fmt.Errorf("decode prediction response: %w", err)
	}
	if len(prediction.Data) == 0 {
		return sentiment.Measurement{}, errors.New("empty prediction data")
	}

	// data[0] is usually a JSON-encoded string carrying the measurement; some
	// deployments inline the object directly.
	var inner string
	if err := json.Unmarshal(prediction.Data[0], &inner); err != nil {
		inner = string(prediction.Data[0])
	}

	return provider.DecodeMeasurement(inner, text, time.Now())
}
