// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/chakravya/internal/cache"
	"github.com/olegiv/chakravya/internal/handler"
	"github.com/olegiv/chakravya/internal/handler/api"
	"github.com/olegiv/chakravya/internal/metrics"
	"github.com/olegiv/chakravya/internal/middleware"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/service"
	"github.com/olegiv/chakravya/internal/session"
	"github.com/olegiv/chakravya/internal/store"
	"github.com/olegiv/chakravya/internal/testutil"
)

const testSecret = "Test-Secret-Key-32-Bytes-Long!!1"

type testServer struct {
	*httptest.Server
	q         *store.Queries
	processor *testutil.FakeProcessor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.TestDB(t)
	q := db.Queries()
	processor := testutil.NewFakeProcessor()
	m := metrics.New()
	sessions, err := session.New(db.SQL, db.Driver, true)
	require.NoError(t, err)
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100})

	apiHandler := api.NewHandler(api.Deps{
		Queries:         q,
		Orders:          service.NewOrderService(q, processor, m, "inr"),
		Sessions:        sessions,
		LoginProtection: lp,
		Cache:           cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute}),
		CacheTTL:        time.Minute,
		Observer:        m,
	})

	router := NewRouter(Deps{
		IsDevelopment:   true,
		SessionSecret:   testSecret,
		RequestTimeout:  5 * time.Second,
		Users:           q,
		Sessions:        sessions,
		LoginProtection: lp,
		API:             apiHandler,
		Health:          handler.NewHealthHandler(q, q, sessions, true),
		Metrics:         m,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, q: q, processor: processor}
}

// client returns an HTTP client with its own cookie jar.
func (s *testServer) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (s *testServer) do(t *testing.T, c *http.Client, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (s *testServer) login(t *testing.T, email, password string) *http.Client {
	t.Helper()
	c := s.client(t)
	resp, body := s.do(t, c, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	return c
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Error.Code
}

func TestRouter_OrdersRequireSession(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, s.client(t), http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", errorCode(t, body))
}

func TestRouter_LoginSessionAndLogout(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateUser(t, s.q, "devotee@example.com", "correct-horse", model.RoleUser)

	c := s.login(t, "devotee@example.com", "correct-horse")

	resp, body := s.do(t, c, http.MethodGet, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.NotContains(t, string(body), "passwordHash")
	assert.Contains(t, string(body), "devotee@example.com")

	resp, body = s.do(t, c, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"redirect":"/"}`, string(body))

	resp, _ = s.do(t, c, http.MethodGet, "/api/auth/user", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_OrderAmountComesFromCatalog(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateUser(t, s.q, "devotee@example.com", "correct-horse", model.RoleUser)
	product := testutil.CreateProduct(t, s.q, "Sacred Beginning", "1299.00", true)
	c := s.login(t, "devotee@example.com", "correct-horse")

	resp, body := s.do(t, c, http.MethodPost, "/api/orders", map[string]any{
		"productId":       product.ID,
		"amount":          "1.00",
		"status":          model.OrderPaid,
		"shippingAddress": testutil.ShippingAddress(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var order model.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.True(t, order.Amount.Equal(product.Price), "amount = %s, want %s", order.Amount, product.Price)
	assert.Equal(t, model.OrderPending, order.Status)
}

func TestRouter_PaymentFlow(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateUser(t, s.q, "devotee@example.com", "correct-horse", model.RoleUser)
	product := testutil.CreateProduct(t, s.q, "Sacred Beginning", "1299.00", true)
	c := s.login(t, "devotee@example.com", "correct-horse")

	_, body := s.do(t, c, http.MethodPost, "/api/orders", map[string]any{
		"productId":       product.ID,
		"shippingAddress": testutil.ShippingAddress(),
	})
	var order model.Order
	require.NoError(t, json.Unmarshal(body, &order))

	resp, body := s.do(t, c, http.MethodPost, "/api/create-payment-intent", map[string]string{"orderId": order.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var intent api.PaymentIntentResponse
	require.NoError(t, json.Unmarshal(body, &intent))
	assert.NotEmpty(t, intent.ClientSecret)

	intentID := s.processor.LastIntentID()
	s.processor.Succeed(intentID)

	resp, body = s.do(t, c, http.MethodPost, "/api/orders/"+order.ID+"/payment", map[string]string{"paymentIntentId": intentID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"success":true,"message":"Payment confirmed"}`, string(body))

	paid, err := s.q.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, paid.Status)
	require.NotNil(t, paid.PaymentID)
	assert.Equal(t, intentID, *paid.PaymentID)
}

func TestRouter_OtherUsersOrderIsNotFound(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateUser(t, s.q, "owner@example.com", "correct-horse", model.RoleUser)
	testutil.CreateUser(t, s.q, "intruder@example.com", "correct-horse", model.RoleUser)
	product := testutil.CreateProduct(t, s.q, "Sacred Beginning", "1299.00", true)

	owner := s.login(t, "owner@example.com", "correct-horse")
	_, body := s.do(t, owner, http.MethodPost, "/api/orders", map[string]any{
		"productId":       product.ID,
		"shippingAddress": testutil.ShippingAddress(),
	})
	var order model.Order
	require.NoError(t, json.Unmarshal(body, &order))

	intruder := s.login(t, "intruder@example.com", "correct-horse")
	resp, body := s.do(t, intruder, http.MethodPost, "/api/create-payment-intent", map[string]string{"orderId": order.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorCode(t, body))
	assert.Empty(t, s.processor.Created())
}

func TestRouter_PaymentsDisabled(t *testing.T) {
	s := newTestServer(t)
	s.processor.Disabled = true
	testutil.CreateUser(t, s.q, "devotee@example.com", "correct-horse", model.RoleUser)
	c := s.login(t, "devotee@example.com", "correct-horse")

	resp, body := s.do(t, c, http.MethodPost, "/api/create-payment-intent", map[string]string{"orderId": "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "service_unavailable", errorCode(t, body))
}

func TestRouter_ContactIsPublic(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, s.client(t), http.MethodPost, "/api/contact", map[string]string{
		"name":    "Gopal",
		"email":   "gopal@example.com",
		"message": "When does the next kit ship?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var sub model.ContactSubmission
	require.NoError(t, json.Unmarshal(body, &sub))
	assert.Equal(t, model.ContactUnread, sub.Status)
}

func TestRouter_AdminRoutes(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateUser(t, s.q, "devotee@example.com", "correct-horse", model.RoleUser)
	testutil.CreateUser(t, s.q, "admin@example.com", "correct-horse", model.RoleAdmin)

	resp, _ := s.do(t, s.client(t), http.MethodGet, "/api/admin/contact-submissions", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	user := s.login(t, "devotee@example.com", "correct-horse")
	resp, body := s.do(t, user, http.MethodGet, "/api/admin/contact-submissions", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", errorCode(t, body))

	admin := s.login(t, "admin@example.com", "correct-horse")
	resp, body = s.do(t, admin, http.MethodGet, "/api/admin/contact-submissions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestRouter_CatalogHeaders(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateProduct(t, s.q, "Sacred Beginning", "1299.00", true)

	resp, body := s.do(t, s.client(t), http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=60", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, string(body), "Sacred Beginning")
}

func TestRouter_CrossSiteWriteRejected(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/contact", strings.NewReader(`{}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_UnknownAPIRoute(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, s.client(t), http.MethodGet, "/api/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorCode(t, body))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, s.client(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"healthy"`)

	resp, _ = s.do(t, s.client(t), http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Generate one labelled request before scraping.
	s.do(t, s.client(t), http.MethodGet, "/api/spiritual-tasks", nil)

	resp, body = s.do(t, s.client(t), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "chakravya_http_requests_total")
	assert.Empty(t, resp.Header.Get("X-Frame-Options"))
}
