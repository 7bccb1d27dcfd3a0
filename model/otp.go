package model

import "time"

// OTPEntity represents a stored one-time code. Rows are deleted on every
// verify attempt against them, so at most one active code exists per
// identifier.
type OTPEntity struct {
	ID           uint64    `db:"id"`
	EmailOrPhone string    `db:"email_or_phone"`
	Code         string    `db:"otp"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
}
