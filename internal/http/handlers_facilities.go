package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/wateralmanak/facility-console/internal/errors"
	"github.com/wateralmanak/facility-console/internal/facility"
	"github.com/wateralmanak/facility-console/internal/screen"
)

// FacilityHandlers drives the facility screen over HTTP. A fresh screen is
// built per request from the context's session snapshot, so the admin check
// always reflects the session the guard middleware saw.
type FacilityHandlers struct {
	API    screen.API
	Logger *slog.Logger
}

func (h *FacilityHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// screenView is the rendered state of the facility screen.
type screenView struct {
	Records   []facility.Facility `json:"records"`
	CanManage bool                `json:"can_manage"`
	Form      screen.FormState    `json:"form"`
	Draft     *facility.Facility  `json:"draft,omitempty"`
	Notice    screen.Notice       `json:"notice"`
}

func renderScreen(w http.ResponseWriter, s *screen.FacilityScreen) {
	view := screenView{
		Records:   s.Records(),
		CanManage: s.CanManage(),
		Form:      s.Form(),
		Notice:    s.Notice(),
	}
	if s.Form() != screen.FormClosed {
		draft := s.Draft()
		view.Draft = &draft
	}
	WriteJSON(w, http.StatusOK, view)
}

func (h *FacilityHandlers) newScreen(r *http.Request) *screen.FacilityScreen {
	return screen.NewFacilityScreen(h.API, SessionFromContext(r.Context()))
}

// List handles GET /voorzieningen.
func (h *FacilityHandlers) List(w http.ResponseWriter, r *http.Request) {
	s := h.newScreen(r)
	s.Load(r.Context())
	renderScreen(w, s)
}

// Create handles POST /voorzieningen.
func (h *FacilityHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var draft facility.Facility
	if !DecodeJSON(w, r, &draft) {
		return
	}

	s := h.newScreen(r)
	if err := s.OpenCreate(); err != nil {
		h.writeScreenError(w, r, err)
		return
	}
	s.SetDraft(draft)
	if err := s.Save(r.Context()); err != nil {
		h.writeScreenError(w, r, err)
		return
	}
	renderScreen(w, s)
}

// Update handles POST /voorzieningen/{id}.
func (h *FacilityHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var draft facility.Facility
	if !DecodeJSON(w, r, &draft) {
		return
	}

	s := h.newScreen(r)
	s.Load(r.Context())
	if err := s.OpenEdit(id); err != nil {
		h.writeScreenError(w, r, err)
		return
	}
	s.SetDraft(draft)
	if err := s.Save(r.Context()); err != nil {
		h.writeScreenError(w, r, err)
		return
	}
	renderScreen(w, s)
}

// deleteRequest carries the explicit confirmation for a delete.
type deleteRequest struct {
	Confirm bool `json:"confirm"`
}

// Delete handles POST /voorzieningen/{id}/delete. Without confirm=true the
// request is a no-op: nothing is deleted and the screen state is unchanged.
func (h *FacilityHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	confirmed := h.deleteConfirmed(r)

	s := h.newScreen(r)
	s.Load(r.Context())
	if err := s.Delete(r.Context(), id, confirmed); err != nil {
		h.writeScreenError(w, r, err)
		return
	}
	renderScreen(w, s)
}

// deleteConfirmed reads the confirmation from a form field or a JSON body.
func (h *FacilityHandlers) deleteConfirmed(r *http.Request) bool {
	if v := r.FormValue("confirm"); v != "" {
		confirmed, err := strconv.ParseBool(v)
		return err == nil && confirmed
	}
	var req deleteRequest
	if !decodeOptionalJSON(r, &req) {
		return false
	}
	return req.Confirm
}

// decodeOptionalJSON decodes a JSON body when one is present, tolerating an
// empty body.
func decodeOptionalJSON(r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return false
	}
	return DecodeJSON(discardWriter{}, r, dst)
}

// discardWriter swallows the error response DecodeJSON would write; for the
// optional-body case a malformed body is treated as "not confirmed".
type discardWriter struct{}

func (discardWriter) Header() http.Header { return http.Header{} }

func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }

func (discardWriter) WriteHeader(int) {}

// writeScreenError maps screen-level failures to HTTP responses. Backend
// failures during save/delete never reach here; they become notices.
func (h *FacilityHandlers) writeScreenError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, screen.ErrNotPermitted) {
		h.logger().WarnContext(r.Context(), "facility mutation denied",
			slog.String("path", r.URL.Path),
			slog.String("username", SessionFromContext(r.Context()).Username()))
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "insufficient_permissions",
			Err:     errors.New("insufficient permissions"),
		})
		return
	}
	if rf, ok := apperrors.AsRequestFailure(err); ok && rf.Category() == apperrors.CategoryNotFound {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     err,
		})
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: "internal_error",
		Err:     err,
	})
}
