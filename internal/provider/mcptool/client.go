package mcptool

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sam522/sentiment-companion/internal/model/sentiment"
	"github.com/sam522/sentiment-companion/internal/provider"
)

const defaultToolName = "sentiment_analysis"

// Client calls the hosted sentiment function through the space's MCP endpoint
// over SSE. The MCP handshake happens lazily on first use.
type Client struct {
	endpoint string
	toolName string

	mu  sync.Mutex
	cli client.MCPClient
}

// NewClient creates a client for the MCP SSE endpoint, e.g.
// https://<space>/gradio_api/mcp/sse.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		toolName: defaultToolName,
	}
}

// Connect establishes the SSE transport and performs the MCP handshake.
// Calling it on a connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.cli != nil {
		return nil
	}

	sseClient, err := client.NewSSEMCPClient(c.endpoint)
	if err != nil {
		return fmt.Errorf("create SSE client: %w", err)
	}

	if err := sseClient.Start(ctx); err != nil {
		return fmt.Errorf("start SSE transport: %w", err)
	}

	req := mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo: mcp.Implementation{
				Name:    "sentiment-companion",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}
	if _, err := sseClient.Initialize(ctx, req); err != nil {
		sseClient.Close()
		return fmt.Errorf("mcp initialize: %w", err)
	}

	c.cli = sseClient
	log.Printf("[mcp] connected to %s", c.endpoint)
	return nil
}

// Close tears down the SSE transport.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cli != nil {
		if err := c.cli.Close(); err != nil {
			log.Printf("[mcp] close failed: %v", err)
		}
		c.cli = nil
	}
}

// Tools lists the tools the space advertises.
func (c *Client) Tools(ctx context.Context) ([]mcp.Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return nil, err
	}

	result, err := c.cli.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list: %w", err)
	}
	return result.Tools, nil
}

// Analyze calls the sentiment tool and decodes the first text content block
// as the measurement payload.
func (c *Client) Analyze(ctx context.Context, text string) (sentiment.Measurement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return sentiment.Measurement{}, err
	}

	req := mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      c.toolName,
			Arguments: map[string]any{"text": text},
		},
	}

	result, err := c.cli.CallTool(ctx, req)
	if err != nil {
		return sentiment.Measurement{}, fmt.Errorf("tools/call %s: %w", c.toolName, err)
	}

	raw, err := firstTextContent(result)
	if err != nil {
		return sentiment.Measurement{}, err
	}

	return provider.DecodeMeasurement(raw, text, time.Now())
}

func firstTextContent(result *mcp.CallToolResult) (string, error) {
	if result == nil || len(result.Content) == 0 {
		return "", errors.New("tool call returned no content")
	}

	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			return textContent.Text, nil
		}
	}
	return "", errors.New("tool call returned no text content")
}
