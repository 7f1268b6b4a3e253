// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/chakravya/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantEnabled bool
		wantErr     bool
	}{
		{"disabled", config.Config{PaymentProvider: config.PaymentDisabled}, false, false},
		{"empty provider", config.Config{}, false, false},
		{"stripe", config.Config{PaymentProvider: config.PaymentStripe, StripeSecretKey: "sk_test_123"}, true, false},
		{"stripe without key", config.Config{PaymentProvider: config.PaymentStripe}, false, true},
		{"unknown", config.Config{PaymentProvider: "paypal"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnabled, p.Enabled())
		})
	}
}

func TestDisabled(t *testing.T) {
	var p Processor = Disabled{}
	ctx := context.Background()

	assert.False(t, p.Enabled())

	_, err := p.CreateIntent(ctx, IntentParams{Amount: 129900, Currency: "inr"})
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = p.GetIntent(ctx, "pi_123")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestIntentSucceeded(t *testing.T) {
	assert.True(t, Intent{Status: "succeeded"}.Succeeded())
	assert.False(t, Intent{Status: "requires_payment_method"}.Succeeded())
	assert.False(t, Intent{}.Succeeded())
}
