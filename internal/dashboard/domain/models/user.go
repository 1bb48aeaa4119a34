package models

import "time"

type User struct {
	ID            int64      `json:"user_id"` //nolint:tagliatelle
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	PasswordHash  string     `json:"-"`
	EmailVerified *time.Time `json:"email_verified,omitempty"` //nolint:tagliatelle
	CreatedAt     time.Time  `json:"created_at"`               //nolint:tagliatelle
}

// VerificationToken confirms ownership of the email in Identifier.
type VerificationToken struct {
	Identifier string    `json:"identifier"`
	Token      string    `json:"token"`
	Expires    time.Time `json:"expires"`
}

func (vt VerificationToken) Expired(now time.Time) bool {
	return !now.Before(vt.Expires)
}
