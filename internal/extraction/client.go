package extraction

import (
	"net/http"
	"time"
)

// ExtractionError represents an error that occurred while talking to
// the extraction model
type ExtractionError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return "extraction error: " + e.Op
	}
	return "extraction error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Client calls an OpenRouter-compatible chat completions API with a
// vision model to turn a receipt photo into a structured draft.
type Client struct {
	apiKey     string
	apiURL     string
	modelID    string
	httpClient *http.Client
}

// Config holds configuration for the extraction client
type Config struct {
	APIKey  string
	APIURL  string
	ModelID string
	Timeout time.Duration
}

// DefaultConfig returns a default configuration for the extraction client
func DefaultConfig() *Config {
	return &Config{
		APIURL:  "https://openrouter.ai/api/v1/chat/completions",
		ModelID: "meta-llama/llama-3.2-11b-vision-instruct:free",
		Timeout: 60 * time.Second,
	}
}

// NewClient creates a new extraction client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultConfig().APIURL
	}

	return &Client{
		apiKey:  config.APIKey,
		apiURL:  apiURL,
		modelID: config.ModelID,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}
