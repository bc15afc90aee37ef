package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentease/listing-service/internal/account/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

const (
	tokenBytes        = 20
	tokenTTL          = time.Hour
	minPasswordLength = 8
)

// Mailer sends the confirmation after a successful reset. Delivery failure
// never rolls the reset back.
type Mailer interface {
	SendPasswordChanged(toEmail string) error
}

// RecoveryUsecase issues, validates and consumes single-use expiring
// recovery tokens.
type RecoveryUsecase struct {
	accounts domain.AccountRepository
	mailer   Mailer
	logger   *logger.Logger
	now      func() time.Time
}

func NewRecoveryUsecase(accounts domain.AccountRepository, mailer Mailer, log *logger.Logger) *RecoveryUsecase {
	return &RecoveryUsecase{
		accounts: accounts,
		mailer:   mailer,
		logger:   log,
		now:      time.Now,
	}
}

// Issue generates a fresh random token for the account behind the email and
// persists it with a one-hour expiry, replacing any token already
// outstanding.
func (uc *RecoveryUsecase) Issue(ctx context.Context, email string) error {
	account, err := uc.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.logger.Info("RecoveryUsecase.Issue: no account for email")
			return domain.ErrAccountNotFound
		}
		uc.logger.Error("RecoveryUsecase.Issue: account lookup failed", "error", err.Error())
		return err
	}

	token, err := newToken()
	if err != nil {
		uc.logger.Error("RecoveryUsecase.Issue: token generation failed", "error", err.Error())
		return err
	}

	expiresAt := uc.now().Add(tokenTTL)
	if err := uc.accounts.SetResetToken(ctx, account.ID, token, expiresAt); err != nil {
		uc.logger.Error("RecoveryUsecase.Issue: failed to persist token", "account_id", account.ID, "error", err.Error())
		return err
	}
	uc.logger.Info("RecoveryUsecase.Issue: recovery token issued", "account_id", account.ID)
	return nil
}

// Validate resolves the account holding the given secret, rejecting expired
// or unknown tokens.
func (uc *RecoveryUsecase) Validate(ctx context.Context, token string) (*domain.Account, error) {
	account, err := uc.accounts.FindByValidResetToken(ctx, token, uc.now())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpiredToken) {
			uc.logger.Info("RecoveryUsecase.Validate: token rejected")
			return nil, domain.ErrInvalidOrExpiredToken
		}
		uc.logger.Error("RecoveryUsecase.Validate: token lookup failed", "error", err.Error())
		return nil, err
	}
	return account, nil
}

// Consume redeems the token: it re-validates, replaces the credential and
// clears the token in the same write, then sends a confirmation mail. The
// confirmation carries no secret and its failure is only logged.
func (uc *RecoveryUsecase) Consume(ctx context.Context, token, newPassword string) (*domain.Account, error) {
	account, err := uc.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(newPassword) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("RecoveryUsecase.Consume: password hashing failed", "account_id", account.ID, "error", err.Error())
		return nil, err
	}

	if err := uc.accounts.ResetCredential(ctx, account.ID, string(hash)); err != nil {
		uc.logger.Error("RecoveryUsecase.Consume: failed to reset credential", "account_id", account.ID, "error", err.Error())
		return nil, err
	}
	account.PasswordHash = string(hash)
	account.ResetToken = ""
	account.ResetTokenExpiresAt = time.Time{}

	if err := uc.mailer.SendPasswordChanged(account.Email); err != nil {
		uc.logger.Warn("RecoveryUsecase.Consume: confirmation mail failed", "account_id", account.ID, "error", err.Error())
	}

	uc.logger.Info("RecoveryUsecase.Consume: password reset completed", "account_id", account.ID)
	return account, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
