package repository

import (
	"context"
	"database/sql"

	"quinta/internal/database"
	"quinta/internal/models"
)

type ResetTokenRepository struct {
	db *database.DB
}

func NewResetTokenRepository(db *database.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at, used)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.Used,
	).Scan(&token.ID)
}

func (r *ResetTokenRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	reset := &models.PasswordResetToken{}
	query := `
		SELECT id, user_id, token, expires_at, used
		FROM password_reset_tokens
		WHERE token = $1`

	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.Token,
		&reset.ExpiresAt,
		&reset.Used,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return reset, err
}

// InvalidateForUser marks every outstanding token for the user as used, so
// only the most recently issued token can ever reset the password.
func (r *ResetTokenRepository) InvalidateForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE user_id = $1 AND NOT used`, userID)
	return err
}
