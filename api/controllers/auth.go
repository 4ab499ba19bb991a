package controllers

import (
	"net/http"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/middleware"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/responses"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/validators"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/auth"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

// AdminLogin exchanges the passphrase for a session cookie.
func AdminLogin(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, sessionCookie(cfg, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, result)
	}
}

// AdminLogout revokes the current session and clears the cookie.
func AdminLogout(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.AdminToken(r, cfg.CookieName)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookie := sessionCookie(cfg, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
		responses.WriteNoContent(w)
	}
}

func sessionCookie(cfg config.SessionConfig, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
