package model

import "time"

// UserEntity represents the users table entity. Email and Phone are
// nullable: exactly one of them is set for OTP-created accounts.
type UserEntity struct {
	ID           uint64    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        *string   `db:"email" json:"email,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	PasswordHash string    `db:"password" json:"-"`
	Verified     bool      `db:"verified" json:"verified"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserFilter for querying users. Identifier matches either the email or the
// phone column.
type UserFilter struct {
	ID         uint64
	Identifier string
}

// RequestOTPRequest asks for a one-time code for an email or phone number.
type RequestOTPRequest struct {
	EmailOrPhone string `json:"email_or_phone" validate:"required"`
}

type RequestOTPResponse struct {
	Message string `json:"message"`
}

// VerifyOTPRequest submits a code. Name is only required when the
// identifier has no account yet.
type VerifyOTPRequest struct {
	Name         string `json:"name"`
	EmailOrPhone string `json:"email_or_phone" validate:"required"`
	OTP          string `json:"otp" validate:"required,len=6,numeric"`
}

type VerifyOTPResponse struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

type UserPayload struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsNewUser bool   `json:"is_new_user"`
}

// SetPasswordRequest sets a real credential on an OTP-created account.
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
