package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/guard"
	"github.com/wateralmanak/facility-console/internal/screen"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Sessions     SessionServiceInterface
	Facilities   screen.API
	CookieDomain string
	Logger       *slog.Logger
}

// route pairs a mux pattern with its handler and access requirement. The
// requirement is the route's static declaration; the guard middleware
// evaluates it against the per-request session snapshot.
type route struct {
	pattern  string
	handler  http.HandlerFunc
	requires guard.Requirement
}

// NewRouter creates and configures the HTTP router. Every request passes
// through session resolution once; each route's guard applies its declared
// requirement.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Sessions,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	facilityHandlers := &FacilityHandlers{
		API:    services.Facilities,
		Logger: logger,
	}

	routes := []route{
		{"GET /", homeHandler, guard.Public()},
		{"GET /healthz", healthHandler, guard.Public()},
		{"HEAD /healthz", healthHandler, guard.Public()},

		{"GET /auth/login", authHandlers.Login, guard.Public()},
		{"GET /auth/callback", authHandlers.Callback, guard.Public()},
		{"POST /auth/logout", authHandlers.Logout, guard.Public()},
		{"GET /auth/status", authHandlers.Status, guard.Public()},

		{"GET /voorzieningen", facilityHandlers.List, guard.RequireAuthenticated()},
		{"POST /voorzieningen", facilityHandlers.Create, guard.RequireRole(domainauth.RoleAdmin)},
		{"POST /voorzieningen/{id}", facilityHandlers.Update, guard.RequireRole(domainauth.RoleAdmin)},
		{"POST /voorzieningen/{id}/delete", facilityHandlers.Delete, guard.RequireRole(domainauth.RoleAdmin)},
	}

	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.Handle(rt.pattern, Guard(rt.requires, logger)(rt.handler))
	}

	var handler http.Handler = mux
	handler = ResolveSession(services.Sessions)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
