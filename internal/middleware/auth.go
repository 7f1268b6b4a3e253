// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/chakravya/internal/logging"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the authenticated *model.User.
const ContextKeyUser ContextKey = "user"

// SessionKeyUserID is the session key holding the logged-in user's id.
const SessionKeyUserID = "user_id"

// UserLoader looks up users by id.
type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

// RequireUser creates middleware that requires a logged-in user and loads
// it into the request context. Requests without a session user get 401; a
// session whose user no longer exists is destroyed and also gets 401.
func RequireUser(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), SessionKeyUserID)
			if userID == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if !store.IsNotFound(err) {
					slog.ErrorContext(r.Context(), "failed to load session user", "user_id", userID, "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
					return
				}
				_ = sm.Destroy(r.Context())
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = logging.With(ctx, slog.String("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// WithUser returns a copy of r carrying user, as RequireUser would.
func WithUser(r *http.Request, user model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, user))
}

// RequireAdmin creates middleware that requires an admin user. It must run
// after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
			return
		}

		if !user.IsAdmin() {
			slog.WarnContext(r.Context(), "access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"user_role", user.Role,
				"required_role", model.RoleAdmin,
				"remote_addr", r.RemoteAddr,
			)
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Forbidden: insufficient permissions", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestPath attaches the request path to every log record written with
// the request context.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.With(r.Context(), slog.String("path", r.URL.Path))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
