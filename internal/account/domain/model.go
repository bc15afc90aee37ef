package domain

import "time"

// Account is the identity record targeted by the recovery flow. Identity
// lifecycle (registration, login) is owned by another service; this one
// only reads accounts and manages their recovery token.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	// At most one recovery token is outstanding per account. Issuing a new
	// one overwrites any prior token; both fields are cleared on consume.
	ResetToken          string
	ResetTokenExpiresAt time.Time
}
