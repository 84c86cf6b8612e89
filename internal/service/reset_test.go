package service

import (
	"context"
	"testing"
	"time"

	"quinta/internal/errors"
	"quinta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memResetTokenRepo struct {
	tokens []*models.PasswordResetToken
	nextID int64
}

func (r *memResetTokenRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	r.nextID++
	token.ID = r.nextID
	clone := *token
	r.tokens = append(r.tokens, &clone)
	return nil
}

func (r *memResetTokenRepo) GetByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	for _, t := range r.tokens {
		if t.Token == token {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memResetTokenRepo) InvalidateForUser(_ context.Context, userID int64) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.Used = true
		}
	}
	return nil
}

// latestToken returns the most recently issued token string for assertions.
func (r *memResetTokenRepo) latestToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, r.tokens)
	return r.tokens[len(r.tokens)-1].Token
}

type resetFixture struct {
	service  *PasswordResetService
	tokens   *memResetTokenRepo
	users    *memUserRepo
	notifier *fakeNotifier
	userID   int64
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("oldsecret"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newMemUserRepo()
	require.NoError(t, users.Create(context.Background(), &models.User{
		Email:        "guest@example.com",
		PasswordHash: string(hash),
		FirstName:    "Dana",
		LastName:     "Ruiz",
		Role:         models.RoleCustomer,
		IsActive:     true,
	}))

	tokens := &memResetTokenRepo{}
	notifier := &fakeNotifier{}
	svc := NewPasswordResetService(tokens, users, notifier, "http://localhost:3000", bcrypt.MinCost)

	return &resetFixture{
		service:  svc,
		tokens:   tokens,
		users:    users,
		notifier: notifier,
		userID:   1,
	}
}

func TestPasswordResetTokenIsSingleUse(t *testing.T) {
	fx := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.service.Forgot(ctx, "guest@example.com"))

	// The reset link lands in the user's inbox.
	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, "guest@example.com", fx.notifier.sent[0].Recipient)
	assert.Equal(t, "PASSWORD RESET", fx.notifier.sent[0].Subject)
	token := fx.tokens.latestToken(t)
	assert.Contains(t, fx.notifier.sent[0].Body, "/reset-password?token="+token)

	require.NoError(t, fx.service.Reset(ctx, &models.ResetPasswordRequest{
		Token:       token,
		NewPassword: "newsecret",
	}))

	stored := fx.users.users[fx.userID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")))

	// The same token cannot reset the password twice.
	err := fx.service.Reset(ctx, &models.ResetPasswordRequest{
		Token:       token,
		NewPassword: "thirdsecret",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	stored = fx.users.users[fx.userID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")))
}

func TestPasswordResetRejectsExpiredToken(t *testing.T) {
	fx := newResetFixture(t)
	ctx := context.Background()

	expired := &models.PasswordResetToken{
		UserID:    fx.userID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, fx.tokens.Create(ctx, expired))

	err := fx.service.Reset(ctx, &models.ResetPasswordRequest{
		Token:       "stale-token",
		NewPassword: "newsecret",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	stored := fx.users.users[fx.userID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("oldsecret")))
}

func TestPasswordResetRejectsUnknownToken(t *testing.T) {
	fx := newResetFixture(t)

	err := fx.service.Reset(context.Background(), &models.ResetPasswordRequest{
		Token:       "no-such-token",
		NewPassword: "newsecret",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestForgotInvalidatesEarlierTokens(t *testing.T) {
	fx := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.service.Forgot(ctx, "guest@example.com"))
	first := fx.tokens.latestToken(t)

	require.NoError(t, fx.service.Forgot(ctx, "guest@example.com"))
	second := fx.tokens.latestToken(t)
	require.NotEqual(t, first, second)

	// Only the most recent token can reset the password.
	err := fx.service.Reset(ctx, &models.ResetPasswordRequest{
		Token:       first,
		NewPassword: "newsecret",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	require.NoError(t, fx.service.Reset(ctx, &models.ResetPasswordRequest{
		Token:       second,
		NewPassword: "newsecret",
	}))
}

func TestForgotUnknownEmailIsNotFound(t *testing.T) {
	fx := newResetFixture(t)

	err := fx.service.Forgot(context.Background(), "stranger@example.com")
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
	assert.Empty(t, fx.notifier.sent)
}
