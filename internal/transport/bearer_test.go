package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticSource is a CredentialSource with a fixed answer.
type staticSource struct {
	cred string
	ok   bool
}

func (s staticSource) Credential(context.Context) (string, bool) { return s.cred, s.ok }

// recordingTransport captures the request it receives.
type recordingTransport struct {
	got *http.Request
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.got = req
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusOK)
	return rec.Result(), nil
}

func trustedPattern(t *testing.T) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(`(?i)^(http://dev\.localhost/api)(/.*)?$`)
	require.NoError(t, err)
	return re
}

func TestAuthorizer_AttachesBearerToTrustedOrigin(t *testing.T) {
	base := &recordingTransport{}
	a := &Authorizer{
		Base:    base,
		Trusted: trustedPattern(t),
		Source:  staticSource{cred: "token-123", ok: true},
	}

	req, err := http.NewRequest(http.MethodGet, "http://dev.localhost/api/voorzieningen", nil)
	require.NoError(t, err)

	resp, err := a.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer token-123", base.got.Header.Get("Authorization"))
	// The caller's request is never mutated.
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestAuthorizer_TrustedPatternIsCaseInsensitive(t *testing.T) {
	base := &recordingTransport{}
	a := &Authorizer{
		Base:    base,
		Trusted: trustedPattern(t),
		Source:  staticSource{cred: "token-123", ok: true},
	}

	req, err := http.NewRequest(http.MethodGet, "http://DEV.LOCALHOST/api/voorzieningen", nil)
	require.NoError(t, err)

	resp, err := a.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer token-123", base.got.Header.Get("Authorization"))
}

func TestAuthorizer_PassesThroughUntrustedOrigin(t *testing.T) {
	base := &recordingTransport{}
	a := &Authorizer{
		Base:    base,
		Trusted: trustedPattern(t),
		Source:  staticSource{cred: "token-123", ok: true},
	}

	req, err := http.NewRequest(http.MethodGet, "http://evil.example.com/api/voorzieningen", nil)
	require.NoError(t, err)

	resp, err := a.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, base.got.Header.Get("Authorization"))
	// Untrusted requests are forwarded as-is, not cloned.
	assert.Same(t, req, base.got)
}

func TestAuthorizer_PassesThroughWithoutCredential(t *testing.T) {
	base := &recordingTransport{}
	a := &Authorizer{
		Base:    base,
		Trusted: trustedPattern(t),
		Source:  staticSource{ok: false},
	}

	req, err := http.NewRequest(http.MethodGet, "http://dev.localhost/api/voorzieningen", nil)
	require.NoError(t, err)

	// The request still goes out; the backend decides what an anonymous
	// call is allowed to do.
	resp, err := a.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, base.got.Header.Get("Authorization"))
	assert.Same(t, req, base.got)
}

func TestAuthorizer_NilPatternDisablesAttachment(t *testing.T) {
	base := &recordingTransport{}
	a := &Authorizer{
		Base:   base,
		Source: staticSource{cred: "token-123", ok: true},
	}

	req, err := http.NewRequest(http.MethodGet, "http://dev.localhost/api/voorzieningen", nil)
	require.NoError(t, err)

	resp, err := a.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, base.got.Header.Get("Authorization"))
}

func TestAuthorizer_PreservesExistingHeaders(t *testing.T) {
	base := &recordingTransport{}
	a := &Authorizer{
		Base:    base,
		Trusted: trustedPattern(t),
		Source:  staticSource{cred: "token-123", ok: true},
	}

	req, err := http.NewRequest(http.MethodPost, "http://dev.localhost/api/voorzieningen", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", base.got.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer token-123", base.got.Header.Get("Authorization"))
}
