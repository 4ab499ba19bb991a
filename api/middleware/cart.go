package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

// CartTokenHeader carries the cart token for clients that do not keep cookies.
const CartTokenHeader = "X-Cart-Token"

// CartToken resolves the anonymous cart token from the cookie or header and
// mints a new one when neither holds a valid token. The cookie is refreshed on
// every request so its expiry follows the cart TTL.
func CartToken(cfg config.CartConfig, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cartTokenFrom(r, cfg.CookieName)
			if token == "" {
				token = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    token,
				Path:     "/",
				Expires:  time.Now().Add(cfg.TTL),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(CartTokenHeader, token)

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cartTokenFrom(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil {
		if token := strings.TrimSpace(c.Value); validCartToken(token) {
			return token
		}
	}
	if token := strings.TrimSpace(r.Header.Get(CartTokenHeader)); validCartToken(token) {
		return token
	}
	return ""
}

func validCartToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil
}
