// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
)

// ShippingAddress is stored as a JSON document on the order.
type ShippingAddress struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required,pincode"`
	Phone   string `json:"phone" validate:"required,phone"`
}

// Order is a purchase of one product. Amount is copied from the product
// price at creation and never changes afterwards.
type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          *string         `gorm:"index" json:"userId"`
	ProductID       string          `gorm:"not null" json:"productId"`
	Status          string          `gorm:"not null" json:"status"`
	Amount          Money           `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentID       *string         `gorm:"column:payment_id" json:"paymentId"`
	ShippingAddress ShippingAddress `gorm:"serializer:json" json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// IsPending reports whether the order is still awaiting payment.
func (o *Order) IsPending() bool {
	return o.Status == OrderPending
}

// ValidFulfilmentStatus reports whether an admin may set the given status.
// Paid is reserved for verified payment confirmation.
func ValidFulfilmentStatus(status string) bool {
	return status == OrderShipped || status == OrderDelivered
}
