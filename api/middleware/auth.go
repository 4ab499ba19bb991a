package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/responses"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/validators"
	pkgAuth "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/auth"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

// Authenticator validates an admin session marker.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*pkgAuth.AdminClaims, error)
}

// RequireAdmin lets a request through only with a live admin session, read
// from the session cookie or a bearer header. Browsers are redirected to the
// login page and API clients receive 401.
func RequireAdmin(cfg config.SessionConfig, authn Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := AdminToken(r, cfg.CookieName)

			claims, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if pkgerrors.CodeOf(err) == pkgerrors.CodeUnauthorized && wantsHTML(r) {
					http.Redirect(w, r, cfg.LoginPath, http.StatusSeeOther)
					return
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithAdminSession(r.Context(), claims.SessionID())
			if logg != nil {
				ctx = logg.WithAdminSession(ctx, claims.SessionID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminToken returns the session marker from the cookie, falling back to the
// Authorization header.
func AdminToken(r *http.Request, cookieName string) string {
	if token := validators.CookieValue(r, cookieName); token != "" {
		return token
	}
	return validators.BearerToken(r)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "text/html")
}
