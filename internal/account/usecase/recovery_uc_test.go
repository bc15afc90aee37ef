package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentease/listing-service/internal/account/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

type fakeAccountRepo struct {
	accounts map[string]*domain.Account // keyed by id
}

func newFakeAccountRepo(accounts ...*domain.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		copied := *a
		r.accounts[a.ID] = &copied
	}
	return r
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *fakeAccountRepo) FindByValidResetToken(_ context.Context, token string, now time.Time) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.ResetToken != "" && a.ResetToken == token && a.ResetTokenExpiresAt.After(now) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (r *fakeAccountRepo) SetResetToken(_ context.Context, accountID, token string, expiresAt time.Time) error {
	a, ok := r.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.ResetToken = token
	a.ResetTokenExpiresAt = expiresAt
	return nil
}

func (r *fakeAccountRepo) ResetCredential(_ context.Context, accountID, passwordHash string) error {
	a, ok := r.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	a.ResetToken = ""
	a.ResetTokenExpiresAt = time.Time{}
	return nil
}

type fakeMailer struct {
	sentTo  []string
	sendErr error
}

func (m *fakeMailer) SendPasswordChanged(toEmail string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = append(m.sentTo, toEmail)
	return nil
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:           "acc-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "old-hash",
	}
}

func newRecoveryFixture(accounts ...*domain.Account) (*RecoveryUsecase, *fakeAccountRepo, *fakeMailer) {
	repo := newFakeAccountRepo(accounts...)
	mail := &fakeMailer{}
	uc := NewRecoveryUsecase(repo, mail, logger.NewNop())
	return uc, repo, mail
}

func TestIssueStoresExpiringToken(t *testing.T) {
	uc, repo, _ := newRecoveryFixture(testAccount())
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return frozen }

	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))

	stored := repo.accounts["acc-1"]
	assert.Len(t, stored.ResetToken, 40, "20 random bytes hex-encoded")
	assert.Equal(t, frozen.Add(time.Hour), stored.ResetTokenExpiresAt)
}

func TestIssueNormalizesEmail(t *testing.T) {
	uc, repo, _ := newRecoveryFixture(testAccount())

	require.NoError(t, uc.Issue(context.Background(), "  Alice@Example.COM "))
	assert.NotEmpty(t, repo.accounts["acc-1"].ResetToken)
}

func TestIssueUnknownEmail(t *testing.T) {
	uc, _, _ := newRecoveryFixture(testAccount())

	err := uc.Issue(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestIssueOverwritesOutstandingToken(t *testing.T) {
	uc, repo, _ := newRecoveryFixture(testAccount())

	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	first := repo.accounts["acc-1"].ResetToken
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	second := repo.accounts["acc-1"].ResetToken

	assert.NotEqual(t, first, second)

	// The replaced token no longer validates.
	_, err := uc.Validate(context.Background(), first)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
	_, err = uc.Validate(context.Background(), second)
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	uc, repo, _ := newRecoveryFixture(testAccount())
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	token := repo.accounts["acc-1"].ResetToken

	account, err := uc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)

	_, err = uc.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
}

func TestValidateExpiredToken(t *testing.T) {
	uc, repo, _ := newRecoveryFixture(testAccount())
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return issued }
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	token := repo.accounts["acc-1"].ResetToken

	// One second past the expiry instant.
	uc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	_, err := uc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
}

func TestConsume(t *testing.T) {
	uc, repo, mail := newRecoveryFixture(testAccount())
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	token := repo.accounts["acc-1"].ResetToken

	account, err := uc.Consume(context.Background(), token, "brand-new-password")
	require.NoError(t, err)

	stored := repo.accounts["acc-1"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-password")))
	assert.Empty(t, stored.ResetToken)
	assert.True(t, stored.ResetTokenExpiresAt.IsZero())
	assert.Equal(t, []string{"alice@example.com"}, mail.sentTo)
	assert.Equal(t, "acc-1", account.ID)
}

func TestConsumeIsSingleUse(t *testing.T) {
	uc, repo, _ := newRecoveryFixture(testAccount())
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	token := repo.accounts["acc-1"].ResetToken

	_, err := uc.Consume(context.Background(), token, "brand-new-password")
	require.NoError(t, err)

	_, err = uc.Consume(context.Background(), token, "another-password")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)

	// The first reset stands.
	stored := repo.accounts["acc-1"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-password")))
}

func TestConsumeRejectsShortPassword(t *testing.T) {
	uc, repo, mail := newRecoveryFixture(testAccount())
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	token := repo.accounts["acc-1"].ResetToken

	_, err := uc.Consume(context.Background(), token, "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	// The token survives a rejected attempt, and no mail goes out.
	stored := repo.accounts["acc-1"]
	assert.Equal(t, token, stored.ResetToken)
	assert.Equal(t, "old-hash", stored.PasswordHash)
	assert.Empty(t, mail.sentTo)
}

func TestConsumeExpiredToken(t *testing.T) {
	uc, repo, _ := newRecoveryFixture(testAccount())
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return issued }
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	token := repo.accounts["acc-1"].ResetToken

	uc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err := uc.Consume(context.Background(), token, "brand-new-password")
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
	assert.Equal(t, "old-hash", repo.accounts["acc-1"].PasswordHash)
}

func TestConsumeSurvivesMailFailure(t *testing.T) {
	uc, repo, mail := newRecoveryFixture(testAccount())
	mail.sendErr = errors.New("smtp down")
	require.NoError(t, uc.Issue(context.Background(), "alice@example.com"))
	token := repo.accounts["acc-1"].ResetToken

	_, err := uc.Consume(context.Background(), token, "brand-new-password")
	assert.NoError(t, err, "mail delivery failure must not roll the reset back")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.accounts["acc-1"].PasswordHash), []byte("brand-new-password")))
}
