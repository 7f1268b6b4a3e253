// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package payment abstracts the external payment processor. The Stripe
// implementation talks to the real API; Disabled is used when no provider
// is configured and refuses every call.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/olegiv/chakravya/internal/config"
)

var (
	// ErrNotConfigured is returned by every call on a disabled processor.
	ErrNotConfigured = errors.New("payment processor not configured")

	// ErrIntentNotFound is returned when the processor has no intent with the given id.
	ErrIntentNotFound = errors.New("payment intent not found")
)

// StatusSucceeded is the intent status of a completed payment.
const StatusSucceeded = "succeeded"

// Metadata keys attached to every intent.
const (
	MetaOrderID = "orderId"
	MetaUserID  = "userId"
)

// IntentParams describes a payment intent to create.
type IntentParams struct {
	// Amount in the currency's smallest unit (paise for INR).
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Intent is the processor's view of a payment attempt.
type Intent struct {
	ID           string
	Status       string
	Amount       int64
	Currency     string
	ClientSecret string
	Metadata     map[string]string
}

// Succeeded reports whether the processor considers the payment complete.
func (i Intent) Succeeded() bool {
	return i.Status == StatusSucceeded
}

// Processor creates and retrieves payment intents.
type Processor interface {
	// Enabled reports whether the processor can take payments.
	Enabled() bool
	CreateIntent(ctx context.Context, p IntentParams) (Intent, error)
	GetIntent(ctx context.Context, id string) (Intent, error)
}

// New returns the processor selected by cfg.PaymentProvider.
func New(cfg *config.Config) (Processor, error) {
	switch cfg.PaymentProvider {
	case config.PaymentStripe:
		if cfg.StripeSecretKey == "" {
			return nil, errors.New("stripe secret key is required")
		}
		return NewStripe(cfg.StripeSecretKey), nil
	case config.PaymentDisabled, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.PaymentProvider)
	}
}
