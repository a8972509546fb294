package gemini

import "net/http"

const (
	DefaultModel  = "gemini-1.5-flash"
	DefaultAPIURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Config configures the Gemini client.
type Config struct {
	APIKey     string
	Model      string
	APIURL     string
	HTTPClient *http.Client
}

// NewClient creates a new Gemini API client.
func NewClient(cfg Config) *geminiImpl {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return newGeminiImpl(cfg)
}
