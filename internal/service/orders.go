// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the order and payment workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/chakravya/internal/metrics"
	"github.com/olegiv/chakravya/internal/model"
	"github.com/olegiv/chakravya/internal/payment"
	"github.com/olegiv/chakravya/internal/store"
)

// OrderService drives an order from creation through payment confirmation:
// pending → paid, with paid → shipped → delivered set by administrators.
type OrderService struct {
	queries   *store.Queries
	processor payment.Processor
	metrics   *metrics.Metrics
	currency  string
}

// NewOrderService creates an OrderService. m may be nil.
func NewOrderService(q *store.Queries, p payment.Processor, m *metrics.Metrics, currency string) *OrderService {
	if currency == "" {
		currency = "inr"
	}
	return &OrderService{
		queries:   q,
		processor: p,
		metrics:   m,
		currency:  strings.ToLower(currency),
	}
}

// PaymentsEnabled reports whether a processor is configured.
func (s *OrderService) PaymentsEnabled() bool {
	return s.processor.Enabled()
}

// CreateOrder creates a pending order for an active product. The amount is
// always the product's current price.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, in model.CreateOrderInput) (model.Order, error) {
	product, err := s.queries.GetProduct(ctx, in.ProductID)
	if err != nil {
		if store.IsNotFound(err) {
			return model.Order{}, fmt.Errorf("product %s: %w", in.ProductID, ErrNotFound)
		}
		return model.Order{}, fmt.Errorf("loading product: %w", err)
	}
	if !product.Active {
		return model.Order{}, fmt.Errorf("product %s is inactive: %w", in.ProductID, ErrNotFound)
	}

	order := &model.Order{
		UserID:          &userID,
		ProductID:       product.ID,
		Status:          model.OrderPending,
		Amount:          product.Price,
		ShippingAddress: in.ShippingAddress,
	}
	if err := s.queries.CreateOrder(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("creating order: %w", err)
	}

	s.metrics.OrderCreated()
	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"product_id", product.ID,
		"amount", order.Amount.StringFixed(2),
	)

	return *order, nil
}

// ListOrders returns the user's orders with their products, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.queries.ListOrdersForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// CreatePaymentIntent asks the processor for an intent covering the order
// amount and returns its client secret.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, userID, orderID string) (string, error) {
	if !s.processor.Enabled() {
		return "", ErrPaymentUnavailable
	}

	order, err := s.pendingOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}

	intent, err := s.processor.CreateIntent(ctx, payment.IntentParams{
		Amount:   model.MinorUnits(order.Amount),
		Currency: s.currency,
		Metadata: map[string]string{
			payment.MetaOrderID: order.ID,
			payment.MetaUserID:  userID,
		},
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return "", ErrPaymentUnavailable
		}
		return "", fmt.Errorf("creating payment intent for order %s: %w", order.ID, err)
	}

	slog.InfoContext(ctx, "payment intent created", "order_id", order.ID, "intent_id", intent.ID)
	return intent.ClientSecret, nil
}

// ConfirmPayment marks the order paid once the processor's intent proves
// payment: status succeeded, metadata naming this order and user, and the
// exact amount and currency. Any mismatch leaves the order pending.
func (s *OrderService) ConfirmPayment(ctx context.Context, userID, orderID, intentID string) error {
	if !s.processor.Enabled() {
		return ErrPaymentUnavailable
	}

	order, err := s.pendingOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			s.metrics.PaymentConfirmation(metrics.OutcomeInvalidState)
		}
		return err
	}

	intent, err := s.processor.GetIntent(ctx, intentID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrIntentNotFound):
			s.metrics.PaymentConfirmation(metrics.OutcomeMismatch)
			return fmt.Errorf("intent %s: %w", intentID, ErrPaymentVerification)
		case errors.Is(err, payment.ErrNotConfigured):
			return ErrPaymentUnavailable
		}
		s.metrics.PaymentConfirmation(metrics.OutcomeError)
		return fmt.Errorf("retrieving payment intent %s: %w", intentID, err)
	}

	if reason := s.verify(order, userID, intent); reason != "" {
		s.metrics.PaymentConfirmation(metrics.OutcomeMismatch)
		slog.WarnContext(ctx, "payment verification failed",
			"order_id", order.ID,
			"intent_id", intent.ID,
			"reason", reason,
		)
		return fmt.Errorf("%s: %w", reason, ErrPaymentVerification)
	}

	n, err := s.queries.MarkOrderPaid(ctx, order.ID, userID, intent.ID)
	if err != nil {
		s.metrics.PaymentConfirmation(metrics.OutcomeError)
		return fmt.Errorf("marking order %s paid: %w", order.ID, err)
	}
	if n == 0 {
		// A concurrent confirmation won the conditional update
		s.metrics.PaymentConfirmation(metrics.OutcomeInvalidState)
		return fmt.Errorf("order %s is no longer pending: %w", order.ID, ErrInvalidState)
	}

	s.metrics.PaymentConfirmation(metrics.OutcomePaid)
	slog.InfoContext(ctx, "order paid", "order_id", order.ID, "intent_id", intent.ID)
	return nil
}

// verify returns a non-empty reason when intent does not prove payment of order.
func (s *OrderService) verify(order model.Order, userID string, intent payment.Intent) string {
	switch {
	case !intent.Succeeded():
		return "intent status " + intent.Status
	case intent.Metadata[payment.MetaOrderID] != order.ID:
		return "intent belongs to another order"
	case intent.Metadata[payment.MetaUserID] != userID:
		return "intent belongs to another user"
	case intent.Amount != model.MinorUnits(order.Amount):
		return "intent amount does not match order"
	case !strings.EqualFold(intent.Currency, s.currency):
		return "intent currency does not match"
	}
	return ""
}

// pendingOrder loads the caller's order and requires it to be pending.
func (s *OrderService) pendingOrder(ctx context.Context, userID, orderID string) (model.Order, error) {
	order, err := s.queries.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return model.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return model.Order{}, fmt.Errorf("loading order: %w", err)
	}
	if !order.IsPending() {
		return model.Order{}, fmt.Errorf("order %s is %s: %w", order.ID, order.Status, ErrInvalidState)
	}
	return order, nil
}

// UpdateFulfilment moves a paid order to shipped, or a shipped one to
// delivered. Status must satisfy model.ValidFulfilmentStatus.
func (s *OrderService) UpdateFulfilment(ctx context.Context, orderID, status string) (model.Order, error) {
	if !model.ValidFulfilmentStatus(status) {
		return model.Order{}, fmt.Errorf("status %q: %w", status, ErrInvalidState)
	}

	current, err := s.queries.GetOrder(ctx, orderID)
	if err != nil {
		if store.IsNotFound(err) {
			return model.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return model.Order{}, fmt.Errorf("loading order: %w", err)
	}
	if !fulfilmentAllowed(current.Status, status) {
		return model.Order{}, fmt.Errorf("order %s cannot move from %s to %s: %w", orderID, current.Status, status, ErrInvalidState)
	}

	n, err := s.queries.UpdateOrderStatus(ctx, orderID, current.Status, status)
	if err != nil {
		return model.Order{}, fmt.Errorf("updating order status: %w", err)
	}
	if n == 0 {
		return model.Order{}, fmt.Errorf("order %s changed concurrently: %w", orderID, ErrInvalidState)
	}

	slog.InfoContext(ctx, "order status updated", "order_id", orderID, "from", current.Status, "to", status)

	updated, err := s.queries.GetOrder(ctx, orderID)
	if err != nil {
		return model.Order{}, fmt.Errorf("reloading order: %w", err)
	}
	return updated, nil
}

func fulfilmentAllowed(from, to string) bool {
	switch to {
	case model.OrderShipped:
		return from == model.OrderPaid
	case model.OrderDelivered:
		return from == model.OrderShipped
	}
	return false
}
