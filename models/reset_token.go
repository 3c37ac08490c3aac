package models

import "time"

// ResetToken 一次性密码重置令牌，24h 过期。
type ResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;size:255;not null"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ResetToken) TableName() string { return "lt_reset_tokens" }
