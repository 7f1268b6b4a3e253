// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Spiritual task categories.
const (
	CategoryChanting   = "chanting"
	CategoryReading    = "reading"
	CategoryService    = "service"
	CategoryMeditation = "meditation"
)

// SpiritualTask is a practice a user can track progress against.
type SpiritualTask struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title         string  `gorm:"not null" json:"title"`
	Description   *string `json:"description"`
	Category      string  `gorm:"not null" json:"category"`
	DefaultTarget int     `gorm:"not null" json:"defaultTarget"`
	Unit          string  `gorm:"not null" json:"unit"`
}

// UserProgress holds the latest target and completion count for one task.
// There is at most one row per (UserID, TaskID); Date records the last update.
type UserProgress struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string         `gorm:"not null;uniqueIndex:idx_user_progress_user_task" json:"userId"`
	TaskID    string         `gorm:"not null;uniqueIndex:idx_user_progress_user_task" json:"taskId"`
	Target    int            `gorm:"not null" json:"target"`
	Completed int            `gorm:"not null" json:"completed"`
	Date      time.Time      `gorm:"not null" json:"date"`
	CreatedAt time.Time      `json:"createdAt"`
	Task      *SpiritualTask `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

// TableName overrides gorm's pluralised default.
func (UserProgress) TableName() string {
	return "user_progress"
}

// IsComplete reports whether the completion count has reached the target.
func (p *UserProgress) IsComplete() bool {
	return p.Target > 0 && p.Completed >= p.Target
}
