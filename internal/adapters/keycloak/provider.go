package keycloak

// Package keycloak implements the identity provider port against a Keycloak
// realm using standard OIDC discovery and the authorization code flow.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/ports"
)

// defaultCredentialLifetime is assumed when neither the token response nor
// the access token itself carries an expiry.
const defaultCredentialLifetime = time.Hour

// ProviderConfig holds configuration for one Keycloak realm client.
type ProviderConfig struct {
	// BaseURL is the Keycloak server root, e.g. "https://sso.example.com".
	BaseURL string
	// Realm is the realm name; the issuer is {BaseURL}/realms/{Realm}.
	Realm        string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	HTTPClient   *http.Client // optional, defaults to a 30s-timeout client
}

// Provider implements ports.IdentityProvider using OIDC discovery against a
// Keycloak realm.
type Provider struct {
	config        *oauth2.Config
	verifier      *gooidc.IDTokenVerifier
	endSessionURL string
	clientID      string
}

// discoveryClaims is the slice of the discovery document go-oidc does not
// surface through typed accessors.
type discoveryClaims struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
}

// NewProvider performs OIDC discovery for the realm and builds the provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("keycloak base URL is required")
	}
	if cfg.Realm == "" {
		return nil, errors.New("keycloak realm is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := issuerURL(cfg.BaseURL, cfg.Realm)
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	var extra discoveryClaims
	if claimsErr := op.Claims(&extra); claimsErr != nil {
		return nil, fmt.Errorf("parse discovery document: %w", claimsErr)
	}

	scope := cfg.Scope
	if scope == "" {
		scope = "openid profile"
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
		verifier:      op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		endSessionURL: extra.EndSessionEndpoint,
		clientID:      cfg.ClientID,
	}, nil
}

// Begin starts the authorization code flow with fresh state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
	)
	return authURL, state, nonce, nil
}

// Exchange redeems the authorization code, verifies the ID token and nonce,
// and maps Keycloak claims to a domain identity. The access token becomes
// the session's bearer credential.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return domainauth.Identity{}, errors.New("missing id_token in token response")
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if claims.Nonce != in.Nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	return identityFromClaims(claims, token), nil
}

// EndSessionURL builds the realm's end-session URL for a browser redirect.
func (p *Provider) EndSessionURL(in ports.EndSessionInput) (string, error) {
	if p.endSessionURL == "" {
		return "", nil
	}
	u, err := url.Parse(p.endSessionURL)
	if err != nil {
		return "", fmt.Errorf("parse end-session endpoint: %w", err)
	}
	q := u.Query()
	q.Set("client_id", p.clientID)
	if in.RedirectURL != "" {
		q.Set("post_logout_redirect_uri", in.RedirectURL)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// idTokenClaims is the Keycloak ID token shape this application consumes.
// Realm roles arrive under realm_access.roles.
type idTokenClaims struct {
	PreferredUsername string      `json:"preferred_username"`
	Sub               string      `json:"sub"`
	Nonce             string      `json:"nonce"`
	RealmAccess       realmAccess `json:"realm_access"`
}

type realmAccess struct {
	Roles []string `json:"roles"`
}

// identityFromClaims maps verified claims and the token response to a domain
// identity. Expiry precedence: token response, then the access token's own
// exp claim, then a fixed default.
func identityFromClaims(claims idTokenClaims, token *oauth2.Token) domainauth.Identity {
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Sub
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		if exp, ok := accessTokenExpiry(token.AccessToken); ok {
			expiresAt = exp
		} else {
			expiresAt = time.Now().Add(defaultCredentialLifetime)
		}
	}

	return domainauth.Identity{
		Username:  username,
		Roles:     mapRoles(claims.RealmAccess.Roles),
		Token:     token.AccessToken,
		ExpiresAt: expiresAt,
	}
}

// mapRoles converts realm role claims to domain roles, dropping empties.
func mapRoles(roles []string) []domainauth.Role {
	out := make([]domainauth.Role, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		out = append(out, domainauth.Role(r))
	}
	return out
}

// accessTokenExpiry extracts the exp claim from a JWT access token without
// validating the signature; the token is only inspected for its lifetime,
// never trusted for identity.
func accessTokenExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser()
	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// issuerURL joins the server root and realm into the OIDC issuer.
func issuerURL(baseURL, realm string) string {
	return strings.TrimSuffix(baseURL, "/") + "/realms/" + realm
}

// randomString generates a cryptographically secure URL-safe random string
// of exactly n characters.
func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	nBytes := (n*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
