package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/facility"
	"github.com/wateralmanak/facility-console/internal/screen"
)

func sampleFacilities() []facility.Facility {
	return []facility.Facility{
		{ID: "f-1", Name: "Tappunt Eerste", Longitude: 4.9, Latitude: 52.4},
		{ID: "f-2", Name: "Tappunt Tweede", Longitude: 5.1, Latitude: 52.1},
	}
}

func decodeScreen(t *testing.T, rec *httptest.ResponseRecorder) screenView {
	t.Helper()
	var view screenView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestFacilityList(t *testing.T) {
	tr := newTestRouter(t, sampleFacilities()...)
	sessionCookie := tr.login(t)

	req := httptest.NewRequest(http.MethodGet, "/voorzieningen", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeScreen(t, rec)
	assert.Len(t, view.Records, 2)
	assert.True(t, view.CanManage)
	assert.Equal(t, screen.FormClosed, view.Form)
	assert.Nil(t, view.Draft)
	assert.Equal(t, screen.NoticeNone, view.Notice.Kind)
}

func TestFacilityList_ViewerCannotManage(t *testing.T) {
	tr := newTestRouter(t, sampleFacilities()...)
	tr.provider.DefaultIdentity.Roles = []domainauth.Role{"viewer"}
	sessionCookie := tr.login(t)

	req := httptest.NewRequest(http.MethodGet, "/voorzieningen", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeScreen(t, rec).CanManage)
}

func TestFacilityCreate(t *testing.T) {
	tr := newTestRouter(t)
	sessionCookie := tr.login(t)

	body := `{"naam":"Nieuw tappunt","beschrijving":"","longitude":4.8,"latitude":52.3}`
	req := httptest.NewRequest(http.MethodPost, "/voorzieningen", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeScreen(t, rec)
	assert.Equal(t, 1, tr.api.createCalls)
	assert.Equal(t, screen.FormClosed, view.Form)
	assert.Equal(t, screen.NoticeSuccess, view.Notice.Kind)
	assert.Equal(t, "Voorziening created successfully", view.Notice.Message)
	require.Len(t, view.Records, 1)
	assert.Equal(t, "f-new", view.Records[0].ID)
}

func TestFacilityCreate_ValidationFailureKeepsForm(t *testing.T) {
	tr := newTestRouter(t)
	sessionCookie := tr.login(t)

	body := `{"naam":"  ","longitude":4.8,"latitude":52.3}`
	req := httptest.NewRequest(http.MethodPost, "/voorzieningen", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeScreen(t, rec)
	assert.Zero(t, tr.api.createCalls)
	assert.Equal(t, screen.FormCreating, view.Form)
	require.NotNil(t, view.Draft)
	assert.Equal(t, screen.NoticeFailure, view.Notice.Kind)
	assert.Equal(t, "Failed to save voorziening: naam is required", view.Notice.Message)
}

func TestFacilityCreate_MalformedJSON(t *testing.T) {
	tr := newTestRouter(t)
	sessionCookie := tr.login(t)

	req := httptest.NewRequest(http.MethodPost, "/voorzieningen", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_json", body["error"])
}

func TestFacilityUpdate(t *testing.T) {
	tr := newTestRouter(t, sampleFacilities()...)
	sessionCookie := tr.login(t)

	body := `{"naam":"Hernoemd","beschrijving":"","longitude":4.9,"latitude":52.4}`
	req := httptest.NewRequest(http.MethodPost, "/voorzieningen/f-1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeScreen(t, rec)
	assert.Equal(t, 1, tr.api.updateCalls)
	assert.Equal(t, screen.NoticeSuccess, view.Notice.Kind)
	assert.Equal(t, "Voorziening updated successfully", view.Notice.Message)
}

func TestFacilityUpdate_UnknownID(t *testing.T) {
	tr := newTestRouter(t, sampleFacilities()...)
	sessionCookie := tr.login(t)

	body := `{"naam":"Hernoemd","longitude":4.9,"latitude":52.4}`
	req := httptest.NewRequest(http.MethodPost, "/voorzieningen/missing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, tr.api.updateCalls)

	var respBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
	assert.Equal(t, "not_found", respBody["error"])
}

func TestFacilityDelete_Confirmed(t *testing.T) {
	tr := newTestRouter(t, sampleFacilities()...)
	sessionCookie := tr.login(t)

	form := url.Values{"confirm": {"true"}}
	req := httptest.NewRequest(http.MethodPost, "/voorzieningen/f-1/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeScreen(t, rec)
	assert.Equal(t, 1, tr.api.deleteCalls)
	assert.Equal(t, screen.NoticeSuccess, view.Notice.Kind)
	assert.Equal(t, "Voorziening deleted successfully", view.Notice.Message)
	assert.Len(t, view.Records, 1)
}

func TestFacilityDelete_ConfirmedViaJSON(t *testing.T) {
	tr := newTestRouter(t, sampleFacilities()...)
	sessionCookie := tr.login(t)

	req := httptest.NewRequest(http.MethodPost, "/voorzieningen/f-2/delete", strings.NewReader(`{"confirm":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, tr.api.deleteCalls)
}

func TestFacilityDelete_Unconfirmed(t *testing.T) {
	tr := newTestRouter(t, sampleFacilities()...)
	sessionCookie := tr.login(t)

	tests := []struct {
		name string
		body string
		ct   string
	}{
		{"empty body", "", ""},
		{"explicit false form", "confirm=false", "application/x-www-form-urlencoded"},
		{"explicit false json", `{"confirm":false}`, "application/json"},
		{"malformed json", "{oops", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/voorzieningen/f-1/delete", strings.NewReader(tt.body))
			if tt.ct != "" {
				req.Header.Set("Content-Type", tt.ct)
			}
			req.AddCookie(sessionCookie)
			rec := httptest.NewRecorder()
			tr.handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			view := decodeScreen(t, rec)
			assert.Zero(t, tr.api.deleteCalls)
			assert.Len(t, view.Records, 2)
			assert.Equal(t, screen.NoticeNone, view.Notice.Kind)
		})
	}
}
