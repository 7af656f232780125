package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/wateralmanak/facility-console/config"
	"github.com/wateralmanak/facility-console/internal/facility"
	httpx "github.com/wateralmanak/facility-console/internal/http"
	"github.com/wateralmanak/facility-console/internal/transport"
)

// FacilityClientConfig contains configuration for the facility API client.
type FacilityClientConfig struct {
	Facility config.FacilityAPIConfig
	Logger   *slog.Logger
}

// BuildFacilityClient wires the facility CRUD client with the bearer-attaching
// transport. The authorizer reads the credential from each request's context,
// so the client itself is safely shared across requests.
func BuildFacilityClient(cfg FacilityClientConfig) (*facility.Client, error) {
	trusted, err := cfg.Facility.CompileTrustedPattern()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: cfg.Facility.Timeout,
		Transport: &transport.Authorizer{
			Trusted: trusted,
			Source:  httpx.ContextCredentialSource{},
		},
	}

	client, err := facility.NewClient(facility.Options{
		BaseURL:    cfg.Facility.APIURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("build facility client: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("facility client configured",
			"api_url", cfg.Facility.APIURL,
			"trusted_pattern", cfg.Facility.TrustedOriginPattern,
		)
	}

	return client, nil
}
