package screen

// Package screen holds the facility screen controller: the records list, the
// edit form state, and the notice area. It is UI-framework-free; HTTP
// handlers construct one per request and render its state.

import (
	"context"
	"errors"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	apperrors "github.com/wateralmanak/facility-console/internal/errors"
	"github.com/wateralmanak/facility-console/internal/facility"
)

// ErrNotPermitted is returned when a mutation is attempted without the admin
// role. The route guard already keeps non-admins off the mutation routes;
// the screen re-checks independently so a guard misconfiguration cannot turn
// into a mutation.
var ErrNotPermitted = errors.New("facility mutations require the admin role")

// API is the slice of the facility client the screen drives.
type API interface {
	List(ctx context.Context) ([]facility.Facility, error)
	Create(ctx context.Context, rec facility.Facility) (facility.Facility, error)
	Update(ctx context.Context, id string, rec facility.Facility) (facility.Facility, error)
	Delete(ctx context.Context, id string) error
}

// FormState is the edit form's mode.
type FormState string

const (
	FormClosed   FormState = "closed"
	FormCreating FormState = "creating"
	FormEditing  FormState = "editing"
)

// NoticeKind distinguishes success from failure notices.
type NoticeKind string

const (
	NoticeNone    NoticeKind = "none"
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

// Notice is the screen's transient message area. Each state change replaces
// the previous notice; notices never stack.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message,omitempty"`
}

// FacilityScreen drives the facility management view. canManage is evaluated
// once at construction from the session snapshot; it does not change for the
// lifetime of the screen.
type FacilityScreen struct {
	api       API
	canManage bool

	records []facility.Facility
	form    FormState
	draft   facility.Facility
	notice  Notice
}

// NewFacilityScreen builds a screen for the given session snapshot.
func NewFacilityScreen(api API, sess domainauth.Session) *FacilityScreen {
	return &FacilityScreen{
		api:       api,
		canManage: sess.HasRole(domainauth.RoleAdmin),
		records:   []facility.Facility{},
		form:      FormClosed,
		notice:    Notice{Kind: NoticeNone},
	}
}

// Records returns the currently loaded records in backend order.
func (s *FacilityScreen) Records() []facility.Facility { return s.records }

// CanManage reports whether mutation affordances are shown.
func (s *FacilityScreen) CanManage() bool { return s.canManage }

// Form returns the edit form's mode.
func (s *FacilityScreen) Form() FormState { return s.form }

// Draft returns the current edit buffer contents.
func (s *FacilityScreen) Draft() facility.Facility { return s.draft }

// Notice returns the current notice.
func (s *FacilityScreen) Notice() Notice { return s.notice }

// Load fetches the full record list. On failure the records are emptied, not
// left stale, and a failure notice is set.
func (s *FacilityScreen) Load(ctx context.Context) {
	records, err := s.api.List(ctx)
	if err != nil {
		s.records = []facility.Facility{}
		s.fail("Failed to load voorzieningen: " + failureText(err))
		return
	}
	if records == nil {
		records = []facility.Facility{}
	}
	s.records = records
}

// OpenCreate opens the form with an empty draft.
func (s *FacilityScreen) OpenCreate() error {
	if !s.canManage {
		return ErrNotPermitted
	}
	s.form = FormCreating
	s.draft = facility.Facility{}
	s.notice = Notice{Kind: NoticeNone}
	return nil
}

// OpenEdit opens the form pre-filled with a copy of the record, so edits
// never touch the list until saved.
func (s *FacilityScreen) OpenEdit(id string) error {
	if !s.canManage {
		return ErrNotPermitted
	}
	for _, rec := range s.records {
		if rec.ID == id {
			s.form = FormEditing
			s.draft = rec
			s.notice = Notice{Kind: NoticeNone}
			return nil
		}
	}
	return apperrors.NewRequestFailure(404, "voorziening not found")
}

// SetDraft replaces the edit buffer. When editing, the record identity is
// pinned to the record being edited; the submitted body cannot retarget it.
func (s *FacilityScreen) SetDraft(rec facility.Facility) {
	if s.form == FormEditing {
		rec.ID = s.draft.ID
	} else {
		rec.ID = ""
	}
	s.draft = rec
}

// CloseForm abandons the draft without touching the records or the backend.
func (s *FacilityScreen) CloseForm() {
	s.form = FormClosed
	s.draft = facility.Facility{}
}

// Save submits the draft: create when it has no ID, update otherwise. On
// success the list is refreshed, the form closes, and a success notice is
// set. On failure the form stays open with the draft intact.
func (s *FacilityScreen) Save(ctx context.Context) error {
	if !s.canManage {
		return ErrNotPermitted
	}
	if s.form == FormClosed {
		return errors.New("no draft to save")
	}

	if err := s.draft.Validate(); err != nil {
		s.fail("Failed to save voorziening: " + err.Error())
		return nil
	}

	var err error
	var message string
	if s.draft.IsDraft() {
		_, err = s.api.Create(ctx, s.draft)
		message = "Voorziening created successfully"
	} else {
		_, err = s.api.Update(ctx, s.draft.ID, s.draft)
		message = "Voorziening updated successfully"
	}
	if err != nil {
		s.fail("Failed to save voorziening: " + failureText(err))
		return nil
	}

	s.form = FormClosed
	s.draft = facility.Facility{}
	s.notice = Notice{Kind: NoticeSuccess, Message: message}
	// Refresh last: a failed refresh replaces the notice.
	s.Load(ctx)
	return nil
}

// Delete removes a record after an explicit confirmation. An unconfirmed
// delete is a complete no-op: no backend call, no state change, no notice.
func (s *FacilityScreen) Delete(ctx context.Context, id string, confirmed bool) error {
	if !s.canManage {
		return ErrNotPermitted
	}
	if !confirmed {
		return nil
	}

	if err := s.api.Delete(ctx, id); err != nil {
		s.fail("Failed to delete voorziening: " + failureText(err))
		return nil
	}

	s.notice = Notice{Kind: NoticeSuccess, Message: "Voorziening deleted successfully"}
	s.Load(ctx)
	return nil
}

// fail sets a failure notice without disturbing the form.
func (s *FacilityScreen) fail(message string) {
	s.notice = Notice{Kind: NoticeFailure, Message: message}
}

// failureText extracts the backend's message when the error is a request
// failure, so the notice shows "Not Found" rather than a Go error chain.
func failureText(err error) string {
	if rf, ok := apperrors.AsRequestFailure(err); ok {
		return rf.Message
	}
	return err.Error()
}
