// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Stripe is a Processor backed by the Stripe PaymentIntents API.
type Stripe struct {
	api *client.API
}

// NewStripe creates a Stripe processor authenticated with secretKey.
// The client is per instance; the stripe package-level key is never set.
func NewStripe(secretKey string) *Stripe {
	return NewStripeWithBackends(secretKey, nil)
}

// NewStripeWithBackends creates a Stripe processor using custom backends,
// for pointing the client at a mock server.
func NewStripeWithBackends(secretKey string, backends *stripe.Backends) *Stripe {
	return &Stripe{api: client.New(secretKey, backends)}
}

// Enabled always returns true.
func (s *Stripe) Enabled() bool { return true }

// CreateIntent creates a PaymentIntent with automatic payment methods.
func (s *Stripe) CreateIntent(ctx context.Context, p IntentParams) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("creating payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

// GetIntent retrieves a PaymentIntent by id.
func (s *Stripe) GetIntent(ctx context.Context, id string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return Intent{}, fmt.Errorf("%w: %s", ErrIntentNotFound, id)
		}
		return Intent{}, fmt.Errorf("retrieving payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) Intent {
	return Intent{
		ID:           pi.ID,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		ClientSecret: pi.ClientSecret,
		Metadata:     pi.Metadata,
	}
}
