package config

import (
	"strings"
	"time"
)

type API struct {
	BaseURL string        `yaml:"base_url" env:"ANPR_API_URL" env-default:"http://localhost:5100/api"`
	Timeout time.Duration `yaml:"timeout" env:"ANPR_HTTP_TIMEOUT" env-default:"15s"`
}

var _ APIConfig = API{}

// GetBaseURL returns the REST API root without a trailing slash.
func (a API) GetBaseURL() string {
	if a.BaseURL == "" {
		return "http://localhost:5100/api"
	}
	return strings.TrimRight(a.BaseURL, "/")
}

func (a API) GetHTTPTimeout() time.Duration {
	if a.Timeout <= 0 {
		return 15 * time.Second
	}
	return a.Timeout
}
