// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Contact submission statuses.
const (
	ContactUnread  = "unread"
	ContactRead    = "read"
	ContactReplied = "replied"
)

// ContactSubmission is a message from the public contact form.
type ContactSubmission struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"not null" json:"message"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidContactStatus reports whether status is a known submission status.
func ValidContactStatus(status string) bool {
	switch status {
	case ContactUnread, ContactRead, ContactReplied:
		return true
	}
	return false
}
