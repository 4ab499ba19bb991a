package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAdminToken issues a signed session marker for sessionID that expires
// after the configured TTL.
func MintAdminToken(cfg config.SessionConfig, now time.Time, sessionID string) (string, time.Time, error) {
	if cfg.Secret == "" {
		return "", time.Time{}, fmt.Errorf("session secret is required")
	}
	if cfg.Issuer == "" {
		return "", time.Time{}, fmt.Errorf("session issuer is required")
	}
	if cfg.TTL <= 0 {
		return "", time.Time{}, fmt.Errorf("session ttl must be positive")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", time.Time{}, fmt.Errorf("session id is required")
	}

	expiresAt := now.Add(cfg.TTL)
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   AdminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAdminToken validates the marker and returns its claims.
func ParseAdminToken(cfg config.SessionConfig, tokenString string) (*AdminClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithSubject(AdminSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("session token missing jti")
	}

	return claims, nil
}
