// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/store"
)

const activeProductsKey = "products:active"

// ListSpiritualTasks handles GET /api/spiritual-tasks.
func (h *Handler) ListSpiritualTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.queries.ListSpiritualTasks(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list spiritual tasks", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(tasks))
}

// ListProducts handles GET /api/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.activeProducts(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list products", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(products))
}

func (h *Handler) activeProducts(ctx context.Context) ([]model.Product, error) {
	if h.products == nil {
		return h.queries.ListActiveProducts(ctx)
	}
	return h.products.GetOrLoad(ctx, activeProductsKey, h.queries.ListActiveProducts)
}

// InvalidateProducts drops the cached catalog.
func (h *Handler) InvalidateProducts(ctx context.Context) error {
	if h.products == nil {
		return nil
	}
	return h.products.Delete(ctx, activeProductsKey)
}

// GetProduct handles GET /api/products/{id}. Inactive products are still
// returned so existing orders can show them.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.queries.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Product not found")
			return
		}
		logAndInternalError(w, r, "failed to get product", err)
		return
	}
	WriteJSON(w, http.StatusOK, product)
}
