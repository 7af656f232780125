package httpx

import (
	"context"
	"errors"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/service"
)

var errAuthNotConfigured = errors.New("authentication is not configured")

// DisabledSessions is the session service used when auth could not be
// configured. Every request resolves to the unauthenticated state, so the
// guard denies all protected routes while public routes keep working.
type DisabledSessions struct{}

var _ SessionServiceInterface = DisabledSessions{}

func (DisabledSessions) BeginLogin(context.Context, string) (*service.BeginLoginResult, error) {
	return nil, errAuthNotConfigured
}

func (DisabledSessions) CompleteLogin(context.Context, service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	return nil, errAuthNotConfigured
}

func (DisabledSessions) Recover(context.Context, string) domainauth.Session {
	return domainauth.Unauthenticated()
}

func (DisabledSessions) Logout(context.Context, string, string) string {
	return ""
}
