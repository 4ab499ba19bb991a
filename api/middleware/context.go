package middleware

import "context"

type contextKey string

const (
	ctxCartToken      contextKey = "cart_token"
	ctxAdminSessionID contextKey = "admin_session_id"
)

// CartTokenFromContext returns the cart token resolved by CartToken.
func CartTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartToken).(string); ok {
		return v
	}
	return ""
}

// AdminSessionFromContext returns the session id of an authenticated admin.
func AdminSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminSessionID).(string); ok {
		return v
	}
	return ""
}

// WithCartToken injects the cart token into the context.
func WithCartToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartToken, token)
}

// WithAdminSession injects the admin session id into the context.
func WithAdminSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminSessionID, sessionID)
}
