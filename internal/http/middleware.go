package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/guard"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver resolves the session snapshot for a session ID. It never
// returns an error; faults surface as the snapshot's error state.
type SessionResolver interface {
	Recover(ctx context.Context, sessionID string) domainauth.Session
}

// ResolveSession returns a middleware that resolves the session snapshot from
// the session_id cookie exactly once per request and stores it in the request
// context. Role checks downstream (guard, screen) all read this one snapshot.
func ResolveSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if cookie, err := r.Cookie("session_id"); err == nil {
				sessionID = cookie.Value
			}
			sess := sessions.Recover(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// Guard returns a middleware enforcing a route's access requirement. The
// decision comes from guard.Evaluate on the context's session snapshot; this
// layer only applies the side effects:
//   - browser requests are redirected to the landing page, for missing
//     authentication and for missing roles alike, so a denied route reveals
//     nothing about the view behind it
//   - JSON requests receive 401/403 error bodies instead of redirects
func Guard(requirement guard.Requirement, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			decision := guard.Evaluate(sess, requirement)
			if decision.Permitted() {
				next.ServeHTTP(w, r)
				return
			}

			switch decision {
			case guard.DenyUnauthenticated:
				logger.InfoContext(r.Context(), "navigation denied: not authenticated",
					slog.String("path", r.URL.Path))
				if isJSONRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "authentication_required",
						Err:     errors.New("authentication required"),
					})
					return
				}
			case guard.DenyForbidden:
				logger.WarnContext(r.Context(), "navigation denied: missing role",
					slog.String("path", r.URL.Path),
					slog.String("username", sess.Username()),
					slog.String("required_role", string(requirement.Role())))
				if isJSONRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusForbidden,
						ErrCode: "insufficient_permissions",
						Err:     errors.New("insufficient permissions"),
					})
					return
				}
			}

			http.Redirect(w, r, "/", http.StatusSeeOther)
		})
	}
}

// isJSONRequest reports whether the client asked for a JSON response rather
// than a browser navigation.
func isJSONRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
