// Package auth implements the passphrase gate in front of the admin surface.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/auth"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/metrics"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/security"
)

const invalidPassphraseMessage = "invalid passphrase"

// LoginRequest is the login form.
type LoginRequest struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

// LoginResult carries the signed session marker and when it expires.
type LoginResult struct {
	Token     string    `json:"-"`
	SessionID string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service defines the behavior needed by the auth controller and middleware.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*pkgAuth.AdminClaims, error)
}

type passphraseSource interface {
	AdminPassphrase(ctx context.Context) (string, bool, error)
}

type sessionManager interface {
	Create(ctx context.Context) (string, error)
	Revoke(ctx context.Context, sessionID string) error
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// ServiceParams bundles the dependencies required to build the gate.
type ServiceParams struct {
	Settings           passphraseSource
	Sessions           sessionManager
	SessionConfig      config.SessionConfig
	FallbackPassphrase string
	Logger             *logger.Logger
	Metrics            *metrics.Storefront
}

type service struct {
	settings passphraseSource
	sessions sessionManager
	cfg      config.SessionConfig
	fallback string
	logg     *logger.Logger
	metrics  *metrics.Storefront
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Settings == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.SessionConfig.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &service{
		settings: params.Settings,
		sessions: params.Sessions,
		cfg:      params.SessionConfig,
		fallback: strings.TrimSpace(params.FallbackPassphrase),
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      time.Now,
	}, nil
}

// Login checks the passphrase and opens a session. The stored settings value
// wins over the environment fallback.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Passphrase == "" {
		return nil, pkgerrors.Field("passphrase", "is required")
	}

	secret, err := s.secret(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := security.MatchPassphrase(req.Passphrase, secret)
	if err != nil {
		s.logg.Error(ctx, "stored admin passphrase hash is unreadable", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "admin passphrase is misconfigured")
	}
	if !ok {
		s.metrics.AdminLogin(false)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidPassphraseMessage)
	}

	sessionID, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable")
	}
	token, expiresAt, err := pkgAuth.MintAdminToken(s.cfg, s.now().UTC(), sessionID)
	if err != nil {
		_ = s.sessions.Revoke(ctx, sessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	s.metrics.AdminLogin(true)
	s.logg.Info(s.logg.WithAdminSession(ctx, sessionID), "admin logged in")
	return &LoginResult{Token: token, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session behind token. Invalid or expired markers are
// ignored since there is nothing left to revoke.
func (s *service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	claims, err := pkgAuth.ParseAdminToken(s.cfg, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.SessionID()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable")
	}
	s.logg.Info(s.logg.WithAdminSession(ctx, claims.SessionID()), "admin logged out")
	return nil
}

// Authenticate validates the marker and confirms its session is still live.
func (s *service) Authenticate(ctx context.Context, token string) (*pkgAuth.AdminClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	claims, err := pkgAuth.ParseAdminToken(s.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session is invalid or expired")
	}
	live, err := s.sessions.HasSession(ctx, claims.SessionID())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable")
	}
	if !live {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session has been revoked")
	}
	return claims, nil
}

// secret resolves the configured passphrase. A settings read failure falls
// back to the environment value.
func (s *service) secret(ctx context.Context) (string, error) {
	stored, ok, err := s.settings.AdminPassphrase(ctx)
	if err != nil {
		s.logg.Warn(ctx, "reading admin settings failed, using environment passphrase: "+err.Error())
	}
	if err == nil && ok {
		return stored, nil
	}
	if s.fallback != "" {
		return s.fallback, nil
	}
	err = pkgerrors.New(pkgerrors.CodeConfiguration, "admin passphrase is not configured")
	s.logg.Error(ctx, "no admin passphrase in settings or environment", err)
	return "", err
}
