package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/guard"
)

// stubResolver records the session ID it was asked to recover.
type stubResolver struct {
	session domainauth.Session
	gotID   string
}

func (s *stubResolver) Recover(_ context.Context, sessionID string) domainauth.Session {
	s.gotID = sessionID
	return s.session
}

func TestResolveSession_ReadsCookie(t *testing.T) {
	resolver := &stubResolver{session: adminSession()}

	var seen domainauth.Session
	handler := ResolveSession(resolver)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "cookie-value"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "cookie-value", resolver.gotID)
	assert.Equal(t, "admin-user", seen.Username())
}

func TestResolveSession_NoCookie(t *testing.T) {
	resolver := &stubResolver{session: domainauth.Unauthenticated()}

	handler := ResolveSession(resolver)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, resolver.gotID)
}

func TestSessionFromContext_Default(t *testing.T) {
	sess := SessionFromContext(context.Background())
	assert.Equal(t, domainauth.StatusUnauthenticated, sess.Status())
}

func guardRequest(t *testing.T, sess domainauth.Session, requirement guard.Requirement, mutate func(*http.Request)) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	var called bool
	handler := Guard(requirement, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/voorzieningen", nil)
	if mutate != nil {
		mutate(req)
	}
	req = req.WithContext(WithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func TestGuard_PermitsAuthorized(t *testing.T) {
	rec, called := guardRequest(t, adminSession(), guard.RequireRole(domainauth.RoleAdmin), nil)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard_BrowserRedirectsAnonymous(t *testing.T) {
	rec, called := guardRequest(t, domainauth.Unauthenticated(), guard.RequireAuthenticated(), nil)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestGuard_BrowserRedirectsForbidden(t *testing.T) {
	// A missing role redirects the same way as missing authentication, so a
	// denied route looks identical either way.
	rec, called := guardRequest(t, viewerSession(), guard.RequireRole(domainauth.RoleAdmin), nil)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestGuard_JSONGets401(t *testing.T) {
	rec, called := guardRequest(t, domainauth.Unauthenticated(), guard.RequireAuthenticated(), func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
	})

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "authentication_required", body["error"])
}

func TestGuard_JSONGets403(t *testing.T) {
	rec, called := guardRequest(t, viewerSession(), guard.RequireRole(domainauth.RoleAdmin), func(r *http.Request) {
		r.Header.Set("X-Requested-With", "XMLHttpRequest")
	})

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "insufficient_permissions", body["error"])
}

func TestGuard_FaultedSessionIsDenied(t *testing.T) {
	sess := domainauth.Faulted(assert.AnError)
	rec, called := guardRequest(t, sess, guard.RequireAuthenticated(), nil)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestIsJSONRequest(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   bool
	}{
		{"no headers", http.Header{}, false},
		{"json accept", http.Header{"Accept": {"application/json"}}, true},
		{"browser accept listing json", http.Header{"Accept": {"text/html,application/json"}}, false},
		{"xhr header", http.Header{"X-Requested-With": {"XMLHttpRequest"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header = tt.header
			assert.Equal(t, tt.want, isJSONRequest(req))
		})
	}
}

func TestRecover_Middleware(t *testing.T) {
	handler := Recover(testLogger())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
