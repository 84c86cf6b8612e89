package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quinta/internal/errors"
	"quinta/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 30 * time.Minute

// ResetTokenRepo is the slice of token storage the reset flow needs.
type ResetTokenRepo interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	InvalidateForUser(ctx context.Context, userID int64) error
}

// PasswordResetService issues single-use reset tokens and applies new
// passwords. Issuing a token invalidates any earlier outstanding ones.
type PasswordResetService struct {
	tokenRepo   ResetTokenRepo
	userRepo    UserRepo
	notifier    Notifier
	frontendURL string
	bcryptCost  int
}

func NewPasswordResetService(tokenRepo ResetTokenRepo, userRepo UserRepo, notifier Notifier, frontendURL string, bcryptCost int) *PasswordResetService {
	return &PasswordResetService{
		tokenRepo:   tokenRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		frontendURL: frontendURL,
		bcryptCost:  bcryptCost,
	}
}

// Forgot starts a reset: mints a token valid for 30 minutes and emails the
// reset link.
func (s *PasswordResetService) Forgot(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to look up user: %w", err))
	}
	if user == nil {
		return errors.NotFound("user not found")
	}

	if err := s.tokenRepo.InvalidateForUser(ctx, user.ID); err != nil {
		return errors.Internal(fmt.Errorf("failed to invalidate old tokens: %w", err))
	}

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return errors.Internal(fmt.Errorf("failed to create reset token: %w", err))
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token.Token)
	body := fmt.Sprintf(
		"We received a request to reset your password.\n"+
			"Use the link below within 30 minutes:\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		resetLink)

	if err := s.notifier.Notify(ctx, &models.Notification{
		Recipient: user.Email,
		Subject:   "PASSWORD RESET",
		Body:      body,
		Type:      models.NotificationEmail,
	}); err != nil {
		return errors.Internal(fmt.Errorf("failed to send reset email: %w", err))
	}

	return nil
}

// Reset applies a new password for a valid, unexpired, unused token and
// burns the token.
func (s *PasswordResetService) Reset(ctx context.Context, req *models.ResetPasswordRequest) error {
	token, err := s.tokenRepo.GetByToken(ctx, req.Token)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to look up reset token: %w", err))
	}
	if token == nil || token.Used {
		return errors.Validation("invalid or already used reset token")
	}
	if token.IsExpired() {
		return errors.Validation("reset token has expired")
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	if user == nil {
		return errors.NotFound("user not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return errors.Internal(fmt.Errorf("failed to update password: %w", err))
	}

	if err := s.tokenRepo.InvalidateForUser(ctx, user.ID); err != nil {
		return errors.Internal(fmt.Errorf("failed to burn reset token: %w", err))
	}

	return nil
}
