package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
)

var testCartCfg = config.CartConfig{CookieName: "cart_token", TTL: 720 * time.Hour}

func serveCart(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := CartToken(testCartCfg, true, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return seen, resp
}

func TestCartTokenMintsWhenAbsent(t *testing.T) {
	seen, resp := serveCart(t, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, resp.Header().Get(CartTokenHeader))

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "cart_token", cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestCartTokenReusesCookieThenHeader(t *testing.T) {
	fromCookie := uuid.NewString()
	fromHeader := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart_token", Value: fromCookie})
	req.Header.Set(CartTokenHeader, fromHeader)
	seen, _ := serveCart(t, req)
	assert.Equal(t, fromCookie, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartTokenHeader, fromHeader)
	seen, _ = serveCart(t, req)
	assert.Equal(t, fromHeader, seen)
}

func TestCartTokenReplacesGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart_token", Value: "../../etc"})
	seen, _ := serveCart(t, req)
	assert.NotEqual(t, "../../etc", seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
