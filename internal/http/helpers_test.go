package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	apperrors "github.com/wateralmanak/facility-console/internal/errors"
	"github.com/wateralmanak/facility-console/internal/facility"
	mockauth "github.com/wateralmanak/facility-console/internal/mocks/auth"
	"github.com/wateralmanak/facility-console/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminSession() domainauth.Session {
	return domainauth.Authenticated(domainauth.Record{
		ID:        "s-admin",
		Username:  "admin-user",
		Roles:     []domainauth.Role{domainauth.RoleAdmin},
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func viewerSession() domainauth.Session {
	return domainauth.Authenticated(domainauth.Record{
		ID:        "s-viewer",
		Username:  "viewer-user",
		Roles:     []domainauth.Role{"viewer"},
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

// fakeFacilityAPI is an in-memory screen.API with call counters.
type fakeFacilityAPI struct {
	mu      sync.Mutex
	records []facility.Facility
	nextID  int

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeFacilityAPI(records ...facility.Facility) *fakeFacilityAPI {
	return &fakeFacilityAPI{records: records, nextID: 1}
}

func (a *fakeFacilityAPI) List(context.Context) ([]facility.Facility, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listCalls++
	out := make([]facility.Facility, len(a.records))
	copy(out, a.records)
	return out, nil
}

func (a *fakeFacilityAPI) Create(_ context.Context, rec facility.Facility) (facility.Facility, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.createCalls++
	rec.ID = "f-new"
	a.records = append(a.records, rec)
	return rec, nil
}

func (a *fakeFacilityAPI) Update(_ context.Context, id string, rec facility.Facility) (facility.Facility, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updateCalls++
	for i := range a.records {
		if a.records[i].ID == id {
			rec.ID = id
			a.records[i] = rec
			return rec, nil
		}
	}
	return facility.Facility{}, apperrors.NewRequestFailure(http.StatusNotFound, "voorziening not found")
}

func (a *fakeFacilityAPI) Delete(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleteCalls++
	for i := range a.records {
		if a.records[i].ID == id {
			a.records = append(a.records[:i], a.records[i+1:]...)
			return nil
		}
	}
	return apperrors.NewRequestFailure(http.StatusNotFound, "voorziening not found")
}

// testRouter bundles a router with the fakes behind it.
type testRouter struct {
	handler  http.Handler
	provider *mockauth.MockIdentityProvider
	store    *mockauth.MemorySessionStore
	api      *fakeFacilityAPI
}

func newTestRouter(t *testing.T, records ...facility.Facility) *testRouter {
	t.Helper()

	provider := mockauth.NewMockIdentityProvider()
	store := mockauth.NewMemorySessionStore()
	sessions := service.NewSessionService(service.SessionServiceOptions{
		Provider: provider,
		Sessions: store,
		Logger:   testLogger(),
	})
	api := newFakeFacilityAPI(records...)

	handler := NewRouter(RouterServices{
		Sessions:   sessions,
		Facilities: api,
		Logger:     testLogger(),
	})

	return &testRouter{handler: handler, provider: provider, store: store, api: api}
}

// login walks the full login flow against the router and returns the session
// cookie. The provider's DefaultIdentity decides the resulting roles.
func (tr *testRouter) login(t *testing.T) *http.Cookie {
	t.Helper()

	loginRec := httptest.NewRecorder()
	tr.handler.ServeHTTP(loginRec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.Equal(t, http.StatusFound, loginRec.Code)

	var state, nonce *http.Cookie
	for _, c := range loginRec.Result().Cookies() {
		switch c.Name {
		case "oauth_state":
			state = c
		case "oauth_nonce":
			nonce = c
		}
	}
	require.NotNil(t, state)
	require.NotNil(t, nonce)

	callbackReq := httptest.NewRequest(http.MethodGet, "/auth/callback?code=test-code&state="+state.Value, nil)
	callbackReq.AddCookie(state)
	callbackReq.AddCookie(nonce)
	callbackRec := httptest.NewRecorder()
	tr.handler.ServeHTTP(callbackRec, callbackReq)
	require.Equal(t, http.StatusFound, callbackRec.Code)

	for _, c := range callbackRec.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}
