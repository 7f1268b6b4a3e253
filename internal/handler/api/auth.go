// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/chakravya/internal/auth"
	"github.com/olegiv/chakravya/internal/middleware"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/store"
)

// CurrentUser handles GET /api/auth/user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/auth/user.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var in model.ProfileInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	updated, err := h.queries.UpdateUserProfile(r.Context(), user.ID, in)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "User not found")
			return
		}
		logAndInternalError(w, r, "failed to update profile", err)
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account", "email", email)
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)), nil)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil && !store.IsNotFound(err) {
		logAndInternalError(w, r, "database error during login", err)
		return
	}

	valid := false
	if err == nil && user.HasPassword() {
		valid, err = auth.CheckPassword(in.Password, *user.PasswordHash)
		if err != nil {
			slog.ErrorContext(r.Context(), "password check error", "user_id", user.ID, "error", err)
			valid = false
		}
	}

	if !valid {
		// Unknown emails count too, so responses do not reveal which accounts exist.
		h.loginFailed(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if auth.NeedsRehash(*user.PasswordHash) {
		if newHash, err := auth.HashPassword(in.Password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash); err != nil {
				slog.ErrorContext(r.Context(), "failed to re-hash password", "user_id", user.ID, "error", err)
			} else {
				slog.InfoContext(r.Context(), "password re-hashed", "user_id", user.ID)
			}
		}
	}

	if !h.startSession(w, r, user.ID) {
		return
	}

	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
	WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, email string) {
	slog.DebugContext(r.Context(), "failed login attempt", "email", email)
	if h.loginProtection != nil {
		if locked, d := h.loginProtection.RecordFailedAttempt(email); locked {
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(d)), nil)
			return
		}
	}
	WriteUnauthorized(w, "Invalid email or password")
}

// startSession renews the session token and stores the user id.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID string) bool {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, r, "session renewal error", err)
		return false
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, userID)
	return true
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.GetString(r.Context(), middleware.SessionKeyUserID)
	if err := h.sessions.Destroy(r.Context()); err != nil {
		logAndInternalError(w, r, "session destroy error", err)
		return
	}
	if userID != "" {
		slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"redirect": "/"})
}

// Register handles POST /api/auth/register. New accounts get the user role
// and are logged in immediately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.RegisterInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
		WriteConflict(w, "An account with this email already exists")
		return
	} else if !store.IsNotFound(err) {
		logAndInternalError(w, r, "failed to check email", err)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		logAndInternalError(w, r, "failed to hash password", err)
		return
	}

	user := &model.User{
		Email:        email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := h.queries.CreateUser(r.Context(), user); err != nil {
		// Lost a race with another registration for the same email
		if _, lookupErr := h.queries.GetUserByEmail(r.Context(), email); lookupErr == nil {
			WriteConflict(w, "An account with this email already exists")
			return
		}
		logAndInternalError(w, r, "failed to create user", err)
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}

	slog.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	WriteJSON(w, http.StatusCreated, user)
}

// formatDuration renders a lockout duration for humans.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	minutes := int(d.Round(time.Minute).Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
