package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/auth"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/cart"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/orders"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/settings"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/cache"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type memorySessions struct {
	live map[string]bool
}

func (m *memorySessions) Create(context.Context) (string, error) {
	id := uuid.NewString()
	m.live[id] = true
	return id, nil
}

func (m *memorySessions) Revoke(_ context.Context, id string) error {
	delete(m.live, id)
	return nil
}

func (m *memorySessions) HasSession(_ context.Context, id string) (bool, error) {
	return m.live[id], nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type harness struct {
	handler http.Handler
	cfg     *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		Session: config.SessionConfig{
			Secret:     "router-test-secret",
			Issuer:     "toppers-toolkit",
			TTL:        time.Hour,
			CookieName: "admin_session",
			LoginPath:  "/auth",
		},
		Admin:   config.AdminConfig{Passphrase: "open-sesame"},
		Cart:    config.CartConfig{CookieName: "cart_token", TTL: time.Hour},
		Catalog: config.CatalogConfig{DefaultImageURL: "https://example.com/placeholder.png", RecentLimit: 8},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newHarness(t *testing.T, redisP stubPinger) *harness {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.NoteMaterial{}, &models.Order{}, &models.Setting{}))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: &bytes.Buffer{}})
	reg := prometheus.NewRegistry()
	m := metrics.NewStorefront(reg)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), nil, logg, cfg.Catalog.DefaultImageURL, cfg.Catalog.RecentLimit)
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(orders.NewRepository(conn), cache.Nop{}, logg, m)
	require.NoError(t, err)
	engine, err := cart.NewEngine(cart.NewMemoryStorage(), logg, m)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(engine, catalogSvc, ordersSvc, logg)
	require.NoError(t, err)
	authSvc, err := auth.NewService(auth.ServiceParams{
		Settings:           settings.NewRepository(conn),
		Sessions:           &memorySessions{live: map[string]bool{}},
		SessionConfig:      cfg.Session,
		FallbackPassphrase: cfg.Admin.Passphrase,
		Logger:             logg,
		Metrics:            m,
	})
	require.NoError(t, err)

	handler := NewRouter(cfg, logg, stubPinger{}, redisP, reg, catalogSvc, cartSvc, ordersSvc, authSvc)
	return &harness{handler: handler, cfg: cfg}
}

func (h *harness) do(t *testing.T, method, path string, body any, cookies []*http.Cookie, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)

	var env envelope
	if resp.Body.Len() > 0 && strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	}
	return resp, env
}

func cookieNamed(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (h *harness) login(t *testing.T) *http.Cookie {
	t.Helper()
	resp, _ := h.do(t, http.MethodPost, "/api/admin/v1/auth/login", map[string]string{"passphrase": "open-sesame"}, nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	session := cookieNamed(resp, "admin_session")
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	return session
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t, stubPinger{})
	resp, _ := h.do(t, http.MethodGet, "/health/live", nil, nil, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp, _ = h.do(t, http.MethodGet, "/health/ready", nil, nil, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	down := newHarness(t, stubPinger{err: errors.New("connection refused")})
	resp, env := down.do(t, http.MethodGet, "/health/ready", nil, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "redis")
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h := newHarness(t, stubPinger{})

	resp, _ := h.do(t, http.MethodGet, "/api/admin/v1/notes", nil, nil, map[string]string{"Accept": "application/json"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp, _ = h.do(t, http.MethodGet, "/api/admin/v1/orders", nil, nil, map[string]string{"Accept": "text/html"})
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/auth", resp.Header().Get("Location"))

	resp, env := h.do(t, http.MethodPost, "/api/admin/v1/auth/login", map[string]string{"passphrase": "wrong"}, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid passphrase", env.Error.Message)

	session := h.login(t)
	resp, _ = h.do(t, http.MethodGet, "/api/admin/v1/notes", nil, []*http.Cookie{session}, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp, _ = h.do(t, http.MethodPost, "/api/admin/v1/auth/logout", nil, []*http.Cookie{session}, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	cleared := cookieNamed(resp, "admin_session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	resp, _ = h.do(t, http.MethodGet, "/api/admin/v1/notes", nil, []*http.Cookie{session}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestStorefrontPurchaseFlow(t *testing.T) {
	h := newHarness(t, stubPinger{})
	session := h.login(t)
	admin := []*http.Cookie{session}

	resp, env := h.do(t, http.MethodPost, "/api/admin/v1/notes", map[string]any{
		"subject_id":     "science",
		"subcategory_id": "physics",
		"chapter":        "Motion",
		"description":    "Handwritten notes on motion",
		"prices": map[string]any{
			"handwritten": map[string]any{"pdf": "50", "printed": "95"},
		},
	}, admin, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var note catalog.MaterialDTO
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "https://example.com/placeholder.png", note.ImageURL)

	resp, env = h.do(t, http.MethodGet, "/api/v1/notes/recent", nil, nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var recent []catalog.MaterialDTO
	require.NoError(t, json.Unmarshal(env.Data, &recent))
	require.Len(t, recent, 1)

	resp, env = h.do(t, http.MethodGet, "/api/v1/subjects/science/physics/chapters", nil, nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var page catalog.ChapterPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Chapters, 1)
	assert.Equal(t, "Motion", page.Chapters[0].Name)

	resp, _ = h.do(t, http.MethodGet, "/api/v1/subjects/science/astronomy/chapters", nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp, _ = h.do(t, http.MethodGet, "/api/v1/cart", nil, nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	cartCookie := cookieNamed(resp, "cart_token")
	require.NotNil(t, cartCookie)
	shopper := []*http.Cookie{cartCookie}

	resp, env = h.do(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"note_id": note.ID, "type": "Handwritten Notes"}, shopper, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var view cart.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Equal(t, 1, view.ItemCount)
	assert.Equal(t, "50", view.TotalPrice.String())

	resp, env = h.do(t, http.MethodPatch, "/api/v1/cart/items/"+view.Items[0].ID, map[string]string{"format": "Printed"}, shopper, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "95", view.TotalPrice.String())

	resp, env = h.do(t, http.MethodPost, "/api/v1/cart/checkout", map[string]string{"name": "A"}, shopper, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	resp, env = h.do(t, http.MethodPost, "/api/v1/cart/checkout", map[string]string{
		"name": "Aarav", "user_class": "10", "payment_method": "UPI",
	}, shopper, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var placed struct {
		Order   orders.OrderDTO `json:"order"`
		Message string          `json:"message"`
		Cart    cart.View       `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	assert.Equal(t, orders.PlacedMessage, placed.Message)
	assert.Equal(t, "95", placed.Order.TotalPrice.String())
	assert.Equal(t, 0, placed.Cart.ItemCount)

	resp, env = h.do(t, http.MethodGet, "/api/admin/v1/orders", nil, admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list orders.OrderList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Orders, 1)

	resp, _ = h.do(t, http.MethodPost, "/api/admin/v1/orders/"+placed.Order.ID.String()+"/complete", nil, admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	resp, _ = h.do(t, http.MethodPost, "/api/admin/v1/orders/"+placed.Order.ID.String()+"/complete", nil, admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp, env = h.do(t, http.MethodGet, "/api/admin/v1/orders?view=active", nil, admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Orders)

	resp, env = h.do(t, http.MethodGet, "/api/admin/v1/orders?view=all", nil, admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Orders, 1)

	resp, _ = h.do(t, http.MethodGet, "/api/admin/v1/orders?view=archived", nil, admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp, _ = h.do(t, http.MethodPost, "/api/admin/v1/orders/"+uuid.NewString()+"/complete", nil, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAdminNoteLifecycle(t *testing.T) {
	h := newHarness(t, stubPinger{})
	admin := []*http.Cookie{h.login(t)}

	resp, env := h.do(t, http.MethodPost, "/api/admin/v1/notes", map[string]any{
		"subject_id":     "maths",
		"subcategory_id": "maths",
		"chapter":        "Polynomials",
		"description":    "Typed notes",
		"prices":         map[string]any{"typed": map[string]any{"pdf": "20"}},
	}, admin, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var note catalog.MaterialDTO
	require.NoError(t, json.Unmarshal(env.Data, &note))
	path := "/api/admin/v1/notes/" + note.ID.String()

	resp, env = h.do(t, http.MethodPost, path+"/toggle-status", nil, admin, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "hidden", string(note.Status))

	resp, env = h.do(t, http.MethodGet, "/api/v1/notes/recent", nil, nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	resp, env = h.do(t, http.MethodPatch, path, map[string]any{"chapter": "Polynomials II"}, admin, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "Polynomials II", note.Chapter)

	resp, _ = h.do(t, http.MethodPost, "/api/admin/v1/notes", map[string]any{
		"subject_id":     "maths",
		"subcategory_id": "maths",
		"chapter":        "Empty",
		"description":    "No prices",
	}, admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp, _ = h.do(t, http.MethodDelete, path, nil, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp, _ = h.do(t, http.MethodGet, path, nil, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp, _ = h.do(t, http.MethodGet, "/api/admin/v1/notes/not-a-uuid", nil, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, stubPinger{})
	h.login(t)

	resp, _ := h.do(t, http.MethodGet, "/metrics", nil, nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "storefront_admin_logins_total")
}
