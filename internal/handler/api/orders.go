// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/chakravya/internal/model"
)

// ListOrders handles GET /api/orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), user.ID)
	if err != nil {
		logAndInternalError(w, r, "failed to list orders", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(orders))
}

// CreateOrder handles POST /api/orders. Any amount in the body is ignored;
// the order is priced from the product.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var in model.CreateOrderInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), user.ID, in)
	if err != nil {
		writeServiceError(w, r, "Product not found", err)
		return
	}
	WriteJSON(w, http.StatusOK, order)
}

// PaymentIntentResponse carries the processor client secret.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntent handles POST /api/create-payment-intent.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	// Fail fast before reading the body when payments are off
	if !h.orders.PaymentsEnabled() {
		WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "Payment processing is not configured", nil)
		return
	}

	var in model.PaymentIntentInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	secret, err := h.orders.CreatePaymentIntent(r.Context(), user.ID, in.OrderID)
	if err != nil {
		writeServiceError(w, r, "Order not found", err)
		return
	}
	WriteJSON(w, http.StatusOK, PaymentIntentResponse{ClientSecret: secret})
}

// ConfirmPayment handles POST /api/orders/{orderId}/payment.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if !h.orders.PaymentsEnabled() {
		WriteError(w, http.StatusServiceUnavailable, "service_unavailable", "Payment processing is not configured", nil)
		return
	}

	var in model.ConfirmPaymentInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	if err := h.orders.ConfirmPayment(r.Context(), user.ID, chi.URLParam(r, "orderId"), in.PaymentIntentID); err != nil {
		writeServiceError(w, r, "Order not found", err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Payment confirmed"})
}
