package db

import (
	"context"
	"errors"
	"time"

	"lendtrack/models"
)

func (r *Repo) CreateResetToken(ctx context.Context, email, token string, expiresAt time.Time) (*models.ResetToken, error) {
	rt := &models.ResetToken{Email: email, Token: token, ExpiresAt: expiresAt}
	return rt, r.DB.WithContext(ctx).Create(rt).Error
}

func (r *Repo) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	var rt models.ResetToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// MarkResetTokenUsed 单次有效：WHERE used_at IS NULL 保证并发下也只成功一次。
func (r *Repo) MarkResetTokenUsed(ctx context.Context, token string) error {
	now := time.Now()
	res := r.DB.WithContext(ctx).Model(&models.ResetToken{}).
		Where("token = ? AND used_at IS NULL", token).
		Update("used_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("reset token already used or not found")
	}
	return nil
}
