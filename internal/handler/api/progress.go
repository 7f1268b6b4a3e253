// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/store"
)

// ListProgress handles GET /api/user-progress. An optional ?date=YYYY-MM-DD
// restricts the result to rows last updated on that UTC day.
func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		rows []model.UserProgress
		err  error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, parseErr := time.Parse(time.DateOnly, raw)
		if parseErr != nil {
			WriteValidationError(w, map[string]string{"date": "Date must be in YYYY-MM-DD format"})
			return
		}
		rows, err = h.queries.ListUserProgressByDate(r.Context(), user.ID, day)
	} else {
		rows, err = h.queries.ListUserProgress(r.Context(), user.ID)
	}
	if err != nil {
		logAndInternalError(w, r, "failed to list progress", err)
		return
	}

	WriteJSON(w, http.StatusOK, nonNil(rows))
}

// UpsertProgress handles POST /api/user-progress. Each user has one row per
// task; posting again replaces target and completed.
func (h *Handler) UpsertProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var in model.ProgressInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	if _, err := h.queries.GetSpiritualTask(r.Context(), in.TaskID); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Spiritual task not found")
			return
		}
		logAndInternalError(w, r, "failed to load spiritual task", err)
		return
	}

	row, err := h.queries.UpsertUserProgress(r.Context(), &model.UserProgress{
		UserID:    user.ID,
		TaskID:    in.TaskID,
		Target:    *in.Target,
		Completed: in.Completed,
	})
	if err != nil {
		logAndInternalError(w, r, "failed to save progress", err)
		return
	}

	WriteJSON(w, http.StatusOK, row)
}
