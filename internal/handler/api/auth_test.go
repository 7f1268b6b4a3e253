// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/olegiv/chakravya/internal/auth"
	"github.com/olegiv/chakravya/internal/middleware"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/testutil"
)

func TestLogin(t *testing.T) {
	f := testSetup(t)
	user := testutil.CreateUser(t, f.q, "seeker@example.com", "hare-krishna-108", model.RoleUser)

	t.Run("valid credentials", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"Seeker@Example.com","password":"hare-krishna-108"}`, nil, nil)
		w, sessionUser := f.executeInSession(f.h.Login, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, user.ID, sessionUser)
		assert.NotContains(t, w.Body.String(), "password")
		got := unmarshalBody[model.User](t, w)
		assert.Equal(t, "seeker@example.com", got.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"seeker@example.com","password":"wrong"}`, nil, nil)
		w, sessionUser := f.executeInSession(f.h.Login, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, sessionUser)
	})

	t.Run("unknown email", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"whatever"}`, nil, nil)
		w, _ := f.executeInSession(f.h.Login, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":""}`, nil, nil)
		w, _ := f.executeInSession(f.h.Login, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		details := unmarshalBody[ErrorResponse](t, w).Error.Details
		assert.Contains(t, details, "email")
		assert.Contains(t, details, "password")
	})

	t.Run("malformed json", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":`, nil, nil)
		w, _ := f.executeInSession(f.h.Login, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", errorCode(t, w))
	})
}

func TestLogin_Lockout(t *testing.T) {
	f := testSetup(t)
	testutil.CreateUser(t, f.q, "seeker@example.com", "hare-krishna-108", model.RoleUser)

	bad := `{"email":"seeker@example.com","password":"wrong"}`
	for range 2 {
		w, _ := f.executeInSession(f.h.Login, newJSONRequest(http.MethodPost, "/api/auth/login", bad, nil, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w, _ := f.executeInSession(f.h.Login, newJSONRequest(http.MethodPost, "/api/auth/login", bad, nil, nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "account_locked", errorCode(t, w))

	// Even the right password is refused while locked.
	good := `{"email":"seeker@example.com","password":"hare-krishna-108"}`
	w, sessionUser := f.executeInSession(f.h.Login, newJSONRequest(http.MethodPost, "/api/auth/login", good, nil, nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, sessionUser)
}

func TestLogin_RehashesLegacyBcrypt(t *testing.T) {
	f := testSetup(t)
	ctx := context.Background()

	legacy, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(legacy)
	u := &model.User{Email: "demo@chakravya.com", PasswordHash: &hash}
	require.NoError(t, f.q.CreateUser(ctx, u))

	req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"demo@chakravya.com","password":"password123"}`, nil, nil)
	w, _ := f.executeInSession(f.h.Login, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := f.q.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, auth.IsBcrypt(*stored.PasswordHash), "hash should be upgraded to argon2id")
	ok, err := auth.CheckPassword("password123", *stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogout(t *testing.T) {
	f := testSetup(t)
	user := testutil.CreateUser(t, f.q, "seeker@example.com", "hare-krishna-108", model.RoleUser)

	req := newJSONRequest(http.MethodPost, "/api/auth/logout", "", nil, nil)
	w := httptest.NewRecorder()
	var after string
	f.sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
		f.h.Logout(w, r)
		after = f.sessions.GetString(r.Context(), middleware.SessionKeyUserID)
	})).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"redirect": "/"}, unmarshalBody[map[string]string](t, w))
	assert.Empty(t, after)
}

func TestRegister(t *testing.T) {
	f := testSetup(t)

	body := `{"email":"New@Example.com","password":"a-long-password","firstName":"Gopal"}`
	w, sessionUser := f.executeInSession(f.h.Register, newJSONRequest(http.MethodPost, "/api/auth/register", body, nil, nil))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := unmarshalBody[model.User](t, w)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, model.RoleUser, got.Role)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Gopal", *got.FirstName)
	assert.Equal(t, got.ID, sessionUser)

	t.Run("duplicate email", func(t *testing.T) {
		w, _ := f.executeInSession(f.h.Register, newJSONRequest(http.MethodPost, "/api/auth/register", body, nil, nil))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		w, _ := f.executeInSession(f.h.Register, newJSONRequest(http.MethodPost, "/api/auth/register", `{"email":"x@example.com","password":"short"}`, nil, nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, unmarshalBody[ErrorResponse](t, w).Error.Details, "password")
	})
}

func TestCurrentUser(t *testing.T) {
	f := testSetup(t)
	user := testutil.CreateUser(t, f.q, "seeker@example.com", "hare-krishna-108", model.RoleUser)

	w := executeHandler(f.h.CurrentUser, newGetRequest("/api/auth/user", nil, &user))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.Equal(t, user.ID, unmarshalBody[model.User](t, w).ID)

	w = executeHandler(f.h.CurrentUser, newGetRequest("/api/auth/user", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	f := testSetup(t)
	user := testutil.CreateUser(t, f.q, "seeker@example.com", "hare-krishna-108", model.RoleUser)

	body := `{"firstName":"Radha","profileImageUrl":"https://img.example.com/me.png"}`
	w := executeHandler(f.h.UpdateProfile, newJSONRequest(http.MethodPatch, "/api/auth/user", body, nil, &user))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := unmarshalBody[model.User](t, w)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Radha", *got.FirstName)
	assert.Nil(t, got.LastName)

	w = executeHandler(f.h.UpdateProfile, newJSONRequest(http.MethodPatch, "/api/auth/user", `{"profileImageUrl":"not a url"}`, nil, &user))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
