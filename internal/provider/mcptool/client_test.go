package mcptool

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestFirstTextContent(t *testing.T) {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: `{"polarity": 0.2}`},
		},
	}

	raw, err := firstTextContent(result)
	if err != nil {
		t.Fatalf("firstTextContent err: %v", err)
	}
	if raw != `{"polarity": 0.2}` {
		t.Fatalf("unexpected content: %q", raw)
	}
}

func TestFirstTextContentEmptyResult(t *testing.T) {
	if _, err := firstTextContent(&mcp.CallToolResult{}); err == nil {
		t.Fatal("expected error for empty result")
	}
	if _, err := firstTextContent(nil); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("https://example.hf.space/gradio_api/mcp/sse")
	if c.toolName != "sentiment_analysis" {
		t.Fatalf("unexpected tool name %q", c.toolName)
	}
}
