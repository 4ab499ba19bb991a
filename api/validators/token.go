package validators

import (
	"net/http"
	"strings"
)

// BearerToken extracts the token from an Authorization header. The scheme is
// matched case-insensitively and a bare token is accepted.
func BearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// CookieValue returns the named cookie value or an empty string.
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
