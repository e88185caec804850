package model

import (
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     *string   `json:"username,omitempty" db:"username"`
	FirstName    *string   `json:"first_name,omitempty" db:"first_name"`
	LastName     *string   `json:"last_name,omitempty" db:"last_name"`
	APIToken     string    `json:"-" db:"api_token"`
	ReferralCode string    `json:"referral_code" db:"referral_code"`
	ReferredBy   *int64    `json:"referred_by,omitempty" db:"referred_by"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
