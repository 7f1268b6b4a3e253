// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

// Errors returned by the services. Handlers map them to HTTP statuses with errors.Is.
var (
	// ErrNotFound means the entity is missing or not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the entity exists but is in the wrong state for the operation.
	ErrInvalidState = errors.New("invalid state")

	// ErrPaymentUnavailable means no payment processor is configured.
	ErrPaymentUnavailable = errors.New("payment processing unavailable")

	// ErrPaymentVerification means the processor's intent does not prove payment for the order.
	ErrPaymentVerification = errors.New("payment verification failed")
)
