package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeKeycloak uses a Keycloak realm via OIDC.
	AuthModeKeycloak AuthMode = "keycloak"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "keycloak", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: keycloak, mock)", v)
	}
}

// KeycloakConfig contains Keycloak OIDC configuration.
type KeycloakConfig struct {
	URL          string `env:"URL"           envDefault:"http://dev.localhost/auth"`
	Realm        string `env:"REALM"         envDefault:"wateralmanak"`
	ClientID     string `env:"CLIENT_ID"     envDefault:"voorzieningen-beheer"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Username string   `env:"USERNAME" envDefault:"dev-user"`
	Roles    []string `env:"ROLES"    envDefault:"admin"    envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"keycloak"`

	// Keycloak configuration (used when Mode=keycloak).
	Keycloak KeycloakConfig `envPrefix:"KEYCLOAK_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}
