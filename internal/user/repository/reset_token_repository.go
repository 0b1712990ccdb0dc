package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
)

func (r *UserRepository) CreateResetToken(ctx context.Context, token *model.PasswordResetToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetResetTokenByHash looks up by stored hash only; plaintext tokens are never
// persisted or scanned. Returns (nil, nil) when no token matches.
func (r *UserRepository) GetResetTokenByHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	err := r.db.DB.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &token, nil
}

// ExpireActiveResetTokens invalidates every unused token for the user by
// forcing its expiry. Issuing a new token supersedes all prior ones.
func (r *UserRepository) ExpireActiveResetTokens(ctx context.Context, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("user_id = ? AND used_at IS NULL", userID).
		Update("expires_at", time.Now())

	if result.Error != nil {
		return fmt.Errorf("failed to expire reset tokens: %w", result.Error)
	}
	return nil
}

// ConsumeResetTokenAndSetPassword claims the token and rotates the password in
// one transaction. The conditional update on used_at is the guard against
// concurrent double-use: zero rows affected means another request got there
// first.
func (r *UserRepository) ConsumeResetTokenAndSetPassword(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		result := tx.Model(&model.PasswordResetToken{}).
			Where("id = ? AND used_at IS NULL", tokenID).
			Update("used_at", now)
		if result.Error != nil {
			return fmt.Errorf("failed to consume reset token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return appErrors.ErrResetTokenUsed
		}

		result = tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"password_hash": passwordHash,
				"updated_at":    now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update password: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return appErrors.ErrUserNotFound
		}

		return nil
	})
}

func (r *UserRepository) DeleteResetToken(ctx context.Context, tokenID uuid.UUID) error {
	return r.db.DB.WithContext(ctx).Delete(&model.PasswordResetToken{}, "id = ?", tokenID).Error
}

// DeleteExpiredResetTokens removes tokens expired for longer than olderThan.
func (r *UserRepository) DeleteExpiredResetTokens(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	result := r.db.DB.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&model.PasswordResetToken{})

	return result.Error
}
