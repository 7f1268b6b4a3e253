// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON handlers for the store, the practice tracker
// and the contact form.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/chakravya/internal/cache"
	"github.com/olegiv/chakravya/internal/middleware"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/service"
	"github.com/olegiv/chakravya/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Deps are the collaborators shared by all API handlers.
type Deps struct {
	Queries         *store.Queries
	Orders          *service.OrderService
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	// Cache backs the product catalog. Nil disables catalog caching.
	Cache    cache.Cache
	CacheTTL time.Duration
	Observer cache.Observer
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	queries         *store.Queries
	orders          *service.OrderService
	sessions        *scs.SessionManager
	loginProtection *middleware.LoginProtection
	validator       *model.Validator
	sanitizer       *bluemonday.Policy
	products        *cache.TypedCache[[]model.Product]
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		queries:         d.Queries,
		orders:          d.Orders,
		sessions:        d.Sessions,
		loginProtection: d.LoginProtection,
		validator:       model.NewValidator(),
		sanitizer:       bluemonday.StrictPolicy(),
	}
	if d.Cache != nil {
		h.products = cache.NewTypedCache[[]model.Product](d.Cache, "products", d.CacheTTL, d.Observer)
	}
	return h
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is returned by actions that have no resource to show.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteValidationError writes a 400 response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", fieldErrors)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 response with a generic message.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
}

// logAndInternalError logs err with the request context and writes a 500.
func logAndInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err)
	WriteInternalError(w)
}

// writeServiceError maps service sentinel errors to API responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, notFoundMsg string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, notFoundMsg)
	case errors.Is(err, service.ErrInvalidState):
		WriteError(w, http.StatusBadRequest, "invalid_state", "Order is not in a valid state for this operation", nil)
	case errors.Is(err, service.ErrPaymentUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "Payment processing is not configured", nil)
	case errors.Is(err, service.ErrPaymentVerification):
		WriteError(w, http.StatusBadRequest, "payment_verification_failed", "Payment could not be verified", nil)
	default:
		logAndInternalError(w, r, "request failed", err)
	}
}

// decodeAndValidate reads a JSON body into dst and validates it.
// Returns false if a response has already been written.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			WriteError(w, http.StatusRequestEntityTooLarge, "bad_request", "Request body too large", nil)
		case errors.Is(err, io.EOF):
			WriteBadRequest(w, "Request body is required")
		default:
			WriteBadRequest(w, "Invalid JSON body")
		}
		return false
	}

	if fields := h.validator.Struct(dst); fields != nil {
		WriteValidationError(w, fields)
		return false
	}
	return true
}

// requireUser returns the authenticated user loaded by middleware.RequireUser.
func requireUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Unauthorized")
		return nil, false
	}
	return user, true
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
