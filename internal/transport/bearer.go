package transport

// Package transport decorates outgoing HTTP requests with the current
// session's bearer credential.

import (
	"context"
	"net/http"
	"regexp"
)

// CredentialSource yields the bearer credential for one outgoing request.
// The boolean is false when no non-expired credential is available.
type CredentialSource interface {
	Credential(ctx context.Context) (string, bool)
}

// Authorizer is an http.RoundTripper that attaches an Authorization header
// to requests whose URL matches the trusted-origin pattern. Requests to
// other origins, and requests made without an available credential, pass
// through unmodified — the backend answers 401 for unauthenticated calls;
// blocking navigation up front is the route guard's job, not this layer's.
type Authorizer struct {
	// Base is the underlying transport; http.DefaultTransport when nil.
	Base http.RoundTripper
	// Trusted matches the full request URL, mirroring the configured
	// trusted-origin pattern. Nil disables credential attachment.
	Trusted *regexp.Regexp
	// Source provides the credential for the request's context.
	Source CredentialSource
}

// RoundTrip implements http.RoundTripper. The incoming request is never
// mutated; when a credential is attached the request is cloned first.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	if a.Trusted == nil || a.Source == nil || !a.Trusted.MatchString(req.URL.String()) {
		return a.base().RoundTrip(req)
	}

	cred, ok := a.Source.Credential(req.Context())
	if !ok {
		return a.base().RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+cred)
	return a.base().RoundTrip(clone)
}

func (a *Authorizer) base() http.RoundTripper {
	if a.Base != nil {
		return a.Base
	}
	return http.DefaultTransport
}
