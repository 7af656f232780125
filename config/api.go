package config

import (
	"fmt"
	"regexp"
	"time"
)

// FacilityAPIConfig contains configuration for the external facility API.
type FacilityAPIConfig struct {
	// APIURL is the root of the facility API; the resource lives at
	// {APIURL}/voorzieningen.
	APIURL string `env:"API_URL" envDefault:"http://dev.localhost/api"`

	// TrustedOriginPattern is a regular expression matched against the full
	// URL of every outgoing request. Only matching requests get the bearer
	// credential attached. Matching is case-insensitive.
	TrustedOriginPattern string `env:"TRUSTED_ORIGIN_PATTERN" envDefault:"^(http://dev\\.localhost/api)(/.*)?$"`

	// Timeout bounds each facility API call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to facility API configuration values.
func (f *FacilityAPIConfig) Sanitize() {
	if f.Timeout <= 0 {
		f.Timeout = 30 * time.Second
	}
}

// CompileTrustedPattern compiles the trusted-origin pattern with
// case-insensitive matching.
func (f *FacilityAPIConfig) CompileTrustedPattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + f.TrustedOriginPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid trusted origin pattern %q: %w", f.TrustedOriginPattern, err)
	}
	return re, nil
}
