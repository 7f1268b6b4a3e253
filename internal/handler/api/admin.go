// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/store"
)

// ListContactSubmissions handles GET /api/admin/contact-submissions.
func (h *Handler) ListContactSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.queries.ListContactSubmissions(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list contact submissions", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(subs))
}

// UpdateContactSubmission handles PATCH /api/admin/contact-submissions/{id}.
func (h *Handler) UpdateContactSubmission(w http.ResponseWriter, r *http.Request) {
	var in model.StatusInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}
	if !model.ValidContactStatus(in.Status) {
		WriteValidationError(w, map[string]string{"status": "Must be one of unread, read, replied"})
		return
	}

	id := chi.URLParam(r, "id")
	sub, err := h.queries.UpdateContactSubmissionStatus(r.Context(), id, in.Status)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Contact submission not found")
			return
		}
		logAndInternalError(w, r, "failed to update contact submission", err)
		return
	}

	slog.InfoContext(r.Context(), "contact submission updated", "submission_id", id, "status", in.Status)
	WriteJSON(w, http.StatusOK, sub)
}

// UpdateOrderStatus handles PATCH /api/admin/orders/{id} for fulfilment.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in model.StatusInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}
	if !model.ValidFulfilmentStatus(in.Status) {
		WriteValidationError(w, map[string]string{"status": "Must be one of shipped, delivered"})
		return
	}

	order, err := h.orders.UpdateFulfilment(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		writeServiceError(w, r, "Order not found", err)
		return
	}
	WriteJSON(w, http.StatusOK, order)
}

// SetProductActive handles PATCH /api/admin/products/{id}. Deactivated
// products leave the catalog and can no longer be ordered.
func (h *Handler) SetProductActive(w http.ResponseWriter, r *http.Request) {
	var in model.ProductActiveInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.queries.GetProduct(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Product not found")
			return
		}
		logAndInternalError(w, r, "failed to load product", err)
		return
	}

	if err := h.queries.SetProductActive(r.Context(), id, *in.Active); err != nil {
		logAndInternalError(w, r, "failed to update product", err)
		return
	}
	if err := h.InvalidateProducts(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "failed to invalidate product cache", "error", err)
	}

	product, err := h.queries.GetProduct(r.Context(), id)
	if err != nil {
		logAndInternalError(w, r, "failed to reload product", err)
		return
	}

	slog.InfoContext(r.Context(), "product availability changed", "product_id", id, "active", *in.Active)
	WriteJSON(w, http.StatusOK, product)
}
