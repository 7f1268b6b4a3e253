// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
}

// ProfileInput is the body of PATCH /api/auth/user.
type ProfileInput struct {
	FirstName       *string `json:"firstName" validate:"omitempty,max=100"`
	LastName        *string `json:"lastName" validate:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,url,max=2048"`
}

// ProgressInput is the body of POST /api/user-progress.
type ProgressInput struct {
	TaskID    string `json:"taskId" validate:"required"`
	Target    *int   `json:"target" validate:"required,min=0"`
	Completed int    `json:"completed" validate:"min=0"`
}

// CreateOrderInput is the body of POST /api/orders. Any amount sent by the
// client is ignored: the struct has no field for it.
type CreateOrderInput struct {
	ProductID       string          `json:"productId" validate:"required"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// PaymentIntentInput is the body of POST /api/create-payment-intent.
type PaymentIntentInput struct {
	OrderID string `json:"orderId" validate:"required"`
}

// ConfirmPaymentInput is the body of POST /api/orders/{orderId}/payment.
type ConfirmPaymentInput struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// ContactInput is the body of POST /api/contact.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

// StatusInput is the body of the admin status update endpoints.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ProductActiveInput is the payload of PATCH /api/admin/products/{id}.
type ProductActiveInput struct {
	Active *bool `json:"active" validate:"required"`
}
