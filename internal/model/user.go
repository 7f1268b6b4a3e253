// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain models persisted by the store and the
// request payloads accepted by the HTTP API.
package model

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account.
type User struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    *string   `gorm:"column:password_hash" json:"-"` // Never expose in JSON
	Role            string    `gorm:"not null" json:"role"`
	FirstName       *string   `gorm:"column:first_name" json:"firstName"`
	LastName        *string   `gorm:"column:last_name" json:"lastName"`
	ProfileImageURL *string   `gorm:"column:profile_image_url" json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
