package domain

import (
	"context"
	"time"
)

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// FindByValidResetToken matches both the token and a strictly-future
	// expiry in a single lookup, so an expired-but-not-yet-cleared token can
	// never be read as valid between two separate checks.
	FindByValidResetToken(ctx context.Context, token string, now time.Time) (*Account, error)
	// SetResetToken overwrites any outstanding token on the account.
	SetResetToken(ctx context.Context, accountID, token string, expiresAt time.Time) error
	// ResetCredential stores the new password hash and clears the token and
	// its expiry in the same write.
	ResetCredential(ctx context.Context, accountID, passwordHash string) error
}
