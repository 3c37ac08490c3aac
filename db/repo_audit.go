package db

import (
	"context"
	"fmt"

	"lendtrack/models"
)

func (r *Repo) LogLoanAction(ctx context.Context, actorID, actorEmail, action, loanID string, detail *string) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		LoanID:     loanID,
		Detail:     detail,
	}
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}
	return entry, nil
}

func (r *Repo) ListAuditLog(ctx context.Context, actorID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.AuditLog
	err := r.DB.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
