// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/olegiv/chakravya/internal/payment"
)

// FakeProcessor is an in-memory payment.Processor. Created intents are
// stored and can be edited with SetIntent to script what GetIntent returns.
type FakeProcessor struct {
	Disabled bool

	mu       sync.Mutex
	intents  map[string]payment.Intent
	created  []payment.IntentParams
	getCalls int
	nextID   int
	GetErr   error
}

// NewFakeProcessor returns an enabled FakeProcessor.
func NewFakeProcessor() *FakeProcessor {
	return &FakeProcessor{intents: make(map[string]payment.Intent)}
}

// Enabled implements payment.Processor.
func (f *FakeProcessor) Enabled() bool { return !f.Disabled }

// CreateIntent implements payment.Processor.
func (f *FakeProcessor) CreateIntent(_ context.Context, p payment.IntentParams) (payment.Intent, error) {
	if f.Disabled {
		return payment.Intent{}, payment.ErrNotConfigured
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := fmt.Sprintf("pi_fake_%d", f.nextID)
	intent := payment.Intent{
		ID:           id,
		Status:       "requires_payment_method",
		Amount:       p.Amount,
		Currency:     p.Currency,
		ClientSecret: id + "_secret",
		Metadata:     maps.Clone(p.Metadata),
	}
	f.intents[id] = intent
	f.created = append(f.created, p)
	return intent, nil
}

// GetIntent implements payment.Processor.
func (f *FakeProcessor) GetIntent(_ context.Context, id string) (payment.Intent, error) {
	if f.Disabled {
		return payment.Intent{}, payment.ErrNotConfigured
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++
	if f.GetErr != nil {
		return payment.Intent{}, f.GetErr
	}
	intent, ok := f.intents[id]
	if !ok {
		return payment.Intent{}, payment.ErrIntentNotFound
	}
	return intent, nil
}

// SetIntent stores or replaces an intent.
func (f *FakeProcessor) SetIntent(intent payment.Intent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents[intent.ID] = intent
}

// Succeed marks the intent with the given id as succeeded and returns it.
func (f *FakeProcessor) Succeed(id string) payment.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent := f.intents[id]
	intent.Status = payment.StatusSucceeded
	f.intents[id] = intent
	return intent
}

// Created returns the parameters of every CreateIntent call.
func (f *FakeProcessor) Created() []payment.IntentParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]payment.IntentParams(nil), f.created...)
}

// LastIntentID returns the id of the most recently created intent.
func (f *FakeProcessor) LastIntentID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextID == 0 {
		return ""
	}
	return fmt.Sprintf("pi_fake_%d", f.nextID)
}

// GetCalls returns how many times GetIntent was called.
func (f *FakeProcessor) GetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

var _ payment.Processor = (*FakeProcessor)(nil)
