package middleware

import (
	"net/http"
	"strings"

	"agency-backend/internal/auth"
	"agency-backend/internal/transport"
)

const AccessCookie = "agency_access"

// AdminAuth guards write endpoints. A request is admitted when it carries
// "Authorization: Bearer <credential>" where the credential is either the
// shared admin password or an admin access JWT, or when it carries a valid
// access cookie issued by the login endpoint.
func AdminAuth(passwords *auth.PasswordChecker, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwords == nil && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if token := BearerToken(r); token != "" {
				if manager != nil && looksLikeJWT(token) {
					if _, err := manager.ParseAccess(token); err == nil {
						next.ServeHTTP(w, r)
						return
					}
				}
				if passwords != nil && passwords.Check(token) == nil {
					next.ServeHTTP(w, r)
					return
				}
			}

			if manager != nil {
				if cookie, err := r.Cookie(AccessCookie); err == nil && cookie.Value != "" {
					if _, err := manager.ParseAccess(cookie.Value); err == nil {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func looksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2
}
