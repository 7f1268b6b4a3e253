// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role string
		want bool
	}{
		{"admin role", RoleAdmin, true},
		{"user role", RoleUser, false},
		{"empty role", "", false},
		{"Admin uppercase", "Admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserHasPassword(t *testing.T) {
	empty := ""
	hash := "$argon2id$..."

	if (&User{}).HasPassword() {
		t.Error("HasPassword() = true for nil hash")
	}
	if (&User{PasswordHash: &empty}).HasPassword() {
		t.Error("HasPassword() = true for empty hash")
	}
	if !(&User{PasswordHash: &hash}).HasPassword() {
		t.Error("HasPassword() = false for set hash")
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"1299.00", 129900},
		{"2499", 249900},
		{"0.01", 1},
		{"19.999", 2000},
		{"10.005", 1001},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := MinorUnits(MustMoney(tt.amount))
			if got != tt.want {
				t.Errorf("MinorUnits(%s) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"1299", `"1299.00"`},
		{"1499.5", `"1499.50"`},
		{"0.01", `"0.01"`},
		{"6999.00", `"6999.00"`},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := json.Marshal(MustMoney(tt.amount))
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal(%s) = %s, want %s", tt.amount, got, tt.want)
			}

			var back Money
			if err := json.Unmarshal(got, &back); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if !back.Equal(MustMoney(tt.amount)) {
				t.Errorf("Unmarshal(%s) = %s", got, back)
			}
		})
	}
}

func TestNewMoney_Invalid(t *testing.T) {
	if _, err := NewMoney("12,50"); err == nil {
		t.Error("NewMoney() should reject a malformed amount")
	}
}

func TestValidFulfilmentStatus(t *testing.T) {
	for status, want := range map[string]bool{
		OrderShipped:   true,
		OrderDelivered: true,
		OrderPaid:      false,
		OrderPending:   false,
		"cancelled":    false,
	} {
		if got := ValidFulfilmentStatus(status); got != want {
			t.Errorf("ValidFulfilmentStatus(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestValidContactStatus(t *testing.T) {
	for status, want := range map[string]bool{
		ContactUnread:  true,
		ContactRead:    true,
		ContactReplied: true,
		"archived":     false,
	} {
		if got := ValidContactStatus(status); got != want {
			t.Errorf("ValidContactStatus(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestUserProgressIsComplete(t *testing.T) {
	p := &UserProgress{Target: 16, Completed: 16}
	if !p.IsComplete() {
		t.Error("IsComplete() = false, want true")
	}
	p.Completed = 3
	if p.IsComplete() {
		t.Error("IsComplete() = true, want false")
	}
}
