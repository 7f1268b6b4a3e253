// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/chakravya/internal/cache"
	"github.com/olegiv/chakravya/internal/middleware"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/service"
	"github.com/olegiv/chakravya/internal/store"
	"github.com/olegiv/chakravya/internal/testutil"
)

type fixture struct {
	q         *store.Queries
	h         *Handler
	processor *testutil.FakeProcessor
	sessions  *scs.SessionManager
	cache     *cache.MemoryCache
}

// testSetup creates a migrated database and an API handler wired to a fake processor.
func testSetup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.TestDB(t)
	q := db.Queries()
	processor := testutil.NewFakeProcessor()
	sessions := scs.New()
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})

	h := NewHandler(Deps{
		Queries:         q,
		Orders:          service.NewOrderService(q, processor, nil, "inr"),
		Sessions:        sessions,
		LoginProtection: middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100, MaxFailedAttempts: 3}),
		Cache:           mem,
		CacheTTL:        time.Minute,
	})

	return &fixture{q: q, h: h, processor: processor, sessions: sessions, cache: mem}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with a JSON body, optional URL params and user.
func newJSONRequest(method, path, body string, params map[string]string, user *model.User) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	if user != nil {
		req = middleware.WithUser(req, *user)
	}
	return req
}

// newGetRequest creates an HTTP GET request with optional URL params and user.
func newGetRequest(path string, params map[string]string, user *model.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	if user != nil {
		req = middleware.WithUser(req, *user)
	}
	return req
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// executeInSession runs handler inside a loaded session and returns the
// recorder together with the session user id after the handler ran.
func (f *fixture) executeInSession(handler http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, string) {
	w := httptest.NewRecorder()
	var userID string
	f.sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(w, r)
		userID = f.sessions.GetString(r.Context(), middleware.SessionKeyUserID)
	})).ServeHTTP(w, req)
	return w, userID
}

// unmarshalBody decodes a JSON response body.
func unmarshalBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

// errorCode returns the code from an error envelope.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return unmarshalBody[ErrorResponse](t, w).Error.Code
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
