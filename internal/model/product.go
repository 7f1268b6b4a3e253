// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Product tiers.
const (
	Tier1 = "tier1"
	Tier2 = "tier2"
	Tier3 = "tier3"
)

// Feature is one line of a product's feature list.
type Feature struct {
	Name     string `json:"name"`
	Included bool   `json:"included"`
}

// Product is a purchasable gift box tier.
type Product struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Tier          string    `gorm:"not null" json:"tier"`
	Title         string    `gorm:"not null" json:"title"`
	Description   *string   `json:"description"`
	Price         Money     `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice *Money    `gorm:"type:numeric(10,2)" json:"originalPrice"`
	Features      []Feature `gorm:"serializer:json" json:"features"`
	Popular       bool      `gorm:"not null" json:"popular"`
	ImageURL      *string   `gorm:"column:image_url" json:"imageUrl"`
	Active        bool      `gorm:"not null" json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}
