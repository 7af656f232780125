package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/wateralmanak/facility-console/config"
	"github.com/wateralmanak/facility-console/internal/adapters/devauth"
	"github.com/wateralmanak/facility-console/internal/adapters/keycloak"
	redisadapter "github.com/wateralmanak/facility-console/internal/adapters/redis"
	"github.com/wateralmanak/facility-console/internal/service"
)

// AuthConfig contains configuration for the session service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildSessionService creates a session service based on the configured auth
// mode. Returns nil if auth is not configured or configuration is invalid;
// the server still starts, with every protected route denying entry.
func BuildSessionService(cfg AuthConfig) *service.SessionService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("session service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	sessionStore := redisadapter.NewSessionStore(cfg.RedisClient)

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevSessionService(cfg, sessionStore)

	case config.AuthModeKeycloak:
		return buildKeycloakSessionService(cfg, sessionStore)

	default:
		return nil
	}
}

func buildDevSessionService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) *service.SessionService {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		Username: cfg.Auth.DevAuth.Username,
		Roles:    cfg.Auth.DevAuth.Roles,
		// session duration defaults inside provider
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewSessionService(service.SessionServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Logger:   cfg.Logger,
	})
}

func buildKeycloakSessionService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) *service.SessionService {
	// Only enable when fully configured
	kc := cfg.Auth.Keycloak
	if kc.URL == "" || kc.Realm == "" || kc.ClientID == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeKeycloak selected but required config missing; auth disabled",
				"url_empty", kc.URL == "",
				"realm_empty", kc.Realm == "",
				"client_id_empty", kc.ClientID == "",
			)
		}
		return nil
	}

	prov, err := keycloak.NewProvider(keycloak.ProviderConfig{
		BaseURL:      kc.URL,
		Realm:        kc.Realm,
		ClientID:     kc.ClientID,
		ClientSecret: kc.ClientSecret,
		RedirectURL:  kc.RedirectURL,
		Scope:        kc.Scope,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create keycloak provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewSessionService(service.SessionServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Logger:   cfg.Logger,
	})
}
