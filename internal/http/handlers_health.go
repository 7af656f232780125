package httpx

import (
	"io"
	"net/http"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for readiness/liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// homeHandler serves the public landing page. It is the redirect target for
// every guard denial, so it must never require authentication itself.
func homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess := SessionFromContext(r.Context())
	body := map[string]any{
		"application":   "facility-console",
		"authenticated": sess.IsAuthenticated(),
	}
	if sess.IsAuthenticated() {
		body["username"] = sess.Username()
	}
	WriteJSON(w, http.StatusOK, body)
}
