// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payment

import "context"

// Disabled is the processor used when payments are switched off.
type Disabled struct{}

// Enabled always returns false.
func (Disabled) Enabled() bool { return false }

// CreateIntent always fails with ErrNotConfigured.
func (Disabled) CreateIntent(context.Context, IntentParams) (Intent, error) {
	return Intent{}, ErrNotConfigured
}

// GetIntent always fails with ErrNotConfigured.
func (Disabled) GetIntent(context.Context, string) (Intent, error) {
	return Intent{}, ErrNotConfigured
}
