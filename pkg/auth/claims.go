package auth

import "github.com/golang-jwt/jwt/v5"

// AdminSubject is the only subject a session marker is ever issued for.
const AdminSubject = "admin"

// AdminClaims is the signed payload of the admin session cookie. The jti is
// the id of the server-side session registered in Redis.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the jti of the marker.
func (c *AdminClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
