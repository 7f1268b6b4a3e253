// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/chakravya/internal/model"
)

// SubmitContact handles POST /api/contact. Markup is stripped from the
// submitted fields before they are stored.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	sub := &model.ContactSubmission{
		Name:    h.plainText(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: h.plainText(in.Message),
	}
	fieldErrors := map[string]string{}
	if sub.Name == "" {
		fieldErrors["name"] = "This field is required"
	}
	if sub.Message == "" {
		fieldErrors["message"] = "This field is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	if err := h.queries.CreateContactSubmission(r.Context(), sub); err != nil {
		logAndInternalError(w, r, "failed to save contact submission", err)
		return
	}

	slog.InfoContext(r.Context(), "contact submission received", "submission_id", sub.ID)
	WriteJSON(w, http.StatusOK, sub)
}

// plainText strips tags and decodes the entities bluemonday escapes.
func (h *Handler) plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.sanitizer.Sanitize(s)))
}
