package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// DefaultHeader is the header the PIN is read from when none is configured.
const DefaultHeader = "x-reviewer-pin"

// PINMiddleware returns middleware that enforces reviewer-PIN authentication
// on every request to the wrapped handler.
//
// Behaviour:
//   - If mode != "pin" or pin == "", all requests are allowed (pass-through).
//   - Otherwise the middleware reads the value of header (falling back to the
//     "pin" query parameter) and compares it to pin in constant time.
//   - A missing, empty, or incorrect PIN returns 401 with a JSON error body.
func PINMiddleware(mode, header, pin string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Non-pin modes or unconfigured PIN → allow everything.
			if mode != "pin" || pin == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(header)
			if got == "" {
				got = r.URL.Query().Get("pin")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(pin)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid reviewer pin"}) //nolint:errcheck
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
