package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSpaceURL = "https://sam522-demo-mcp-server.hf.space"
	mcpSSEPath      = "/gradio_api/mcp/sse"
)

// Config aggregates the service configuration.
type Config struct {
	Server    ServerConfig
	Provider  ProviderConfig
	Responder ResponderConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// ProviderConfig selects and parameterizes the sentiment provider.
type ProviderConfig struct {
	// Kind is "gradio" (prediction API) or "mcp" (SSE tool transport).
	Kind    string
	BaseURL string
	SSEURL  string
	Timeout time.Duration
}

// ResponderConfig carries presentation settings for the responder core.
type ResponderConfig struct {
	BarWidth int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	providerCfg, err := loadProviderConfig()
	if err != nil {
		return nil, err
	}

	responderCfg, err := loadResponderConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Provider: providerCfg, Responder: responderCfg}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadProviderConfig() (ProviderConfig, error) {
	kind := strings.ToLower(getEnvOrDefault("SENTIMENT_PROVIDER", "gradio"))
	if kind != "gradio" && kind != "mcp" {
		return ProviderConfig{}, fmt.Errorf("invalid SENTIMENT_PROVIDER value %q: want gradio or mcp", kind)
	}

	baseURL := strings.TrimRight(getEnvOrDefault("SPACE_BASE_URL", defaultSpaceURL), "/")
	sseURL := getEnvOrDefault("MCP_SSE_URL", baseURL+mcpSSEPath)

	timeoutSeconds := 15
	if override, err := parseOptionalIntEnv("PROVIDER_TIMEOUT"); err != nil {
		return ProviderConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ProviderConfig{}, fmt.Errorf("PROVIDER_TIMEOUT must be at least 1 second, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return ProviderConfig{
		Kind:    kind,
		BaseURL: baseURL,
		SSEURL:  sseURL,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func loadResponderConfig() (ResponderConfig, error) {
	width := 20
	if override, err := parseOptionalIntEnv("BAR_WIDTH"); err != nil {
		return ResponderConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ResponderConfig{}, fmt.Errorf("BAR_WIDTH must be positive, got %d", *override)
		}
		width = *override
	}

	return ResponderConfig{BarWidth: width}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
