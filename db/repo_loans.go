package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"lendtrack/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyReturned = errors.New("loan already returned")

type LoanQuery struct {
	Filter string // "", "all", "active", "overdue", "returned"
	Search string // 模糊搜索：item/recipient/description
	Sort   string // "newest"(默认), "oldest", "return-date", "name"
}

// CreateLoan 原子操作 = 新建 loan → 挂 initial 照片
func (r *Repo) CreateLoan(ctx context.Context, loan *models.Loan, photos []models.LoanPhoto) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loan).Error; err != nil {
			return err
		}
		for i := range photos {
			photos[i].LoanID = loan.ID
			photos[i].Type = models.PhotoTypeInitial
		}
		if len(photos) > 0 {
			if err := tx.Create(&photos).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Photos").First(loan, "id = ?", loan.ID).Error
	})
}

func (r *Repo) FindLoanByID(ctx context.Context, userID, id string) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).Preload("Photos").
		First(&l, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLoans 状态过滤走 returned_at / return_by 两列，和 loanstat.Derive 同一套规则。
func (r *Repo) ListLoans(ctx context.Context, userID string, q LoanQuery) ([]models.Loan, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Loan{}).Where("user_id = ?", userID)

	switch q.Filter {
	case "active":
		tx = tx.Where("returned_at IS NULL AND return_by >= NOW()")
	case "overdue":
		tx = tx.Where("returned_at IS NULL AND return_by < NOW()")
	case "returned":
		tx = tx.Where("returned_at IS NOT NULL")
	default:
		// all
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		tx = tx.Where(
			"LOWER(item_name) LIKE ? OR LOWER(recipient_name) LIKE ? OR LOWER(description) LIKE ?",
			pat, pat, pat,
		)
	}

	switch q.Sort {
	case "oldest":
		tx = tx.Order("created_at ASC")
	case "return-date":
		tx = tx.Order("return_by ASC")
	case "name":
		tx = tx.Order("item_name ASC")
	default: // newest
		tx = tx.Order("created_at DESC")
	}

	var loans []models.Loan
	err := tx.Preload("Photos", "type = ?", models.PhotoTypeInitial).Find(&loans).Error
	return loans, err
}

// ListAllLoans 聚合用：owner 全量快照，不带照片。
func (r *Repo) ListAllLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&loans).Error
	return loans, err
}

// ListOpenLoans 未归还的记录（逾期提醒用）。
func (r *Repo) ListOpenLoans(ctx context.Context, userID string) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND returned_at IS NULL", userID).
		Order("return_by ASC").
		Find(&loans).Error
	return loans, err
}

func (r *Repo) ListRecentLoans(ctx context.Context, userID string, n int) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Preload("Photos", "type = ?", models.PhotoTypeInitial).
		Find(&loans).Error
	return loans, err
}

// ReturnLoan 原子操作 = 锁行 → 设 returned_at/state_end → 挂 return 照片。
// 归还只发生一次，重复归还返回 ErrAlreadyReturned。
func (r *Repo) ReturnLoan(ctx context.Context, userID, loanID, stateEnd string, photos []models.LoanPhoto) (*models.Loan, error) {
	var l models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ? AND user_id = ?", loanID, userID).Error; err != nil {
			return err
		}
		if l.ReturnedAt != nil {
			return ErrAlreadyReturned
		}
		now := time.Now().UTC()
		l.ReturnedAt = &now
		l.StateEnd = &stateEnd
		if err := tx.Save(&l).Error; err != nil {
			return err
		}
		// return 照片只允许在 returned_at 已设置后写入，这里就是唯一写入点
		for i := range photos {
			photos[i].LoanID = l.ID
			photos[i].Type = models.PhotoTypeReturn
		}
		if len(photos) > 0 {
			if err := tx.Create(&photos).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Photos").First(&l, "id = ?", l.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLoan 连带删照片（保险起见显式删，不全靠外键级联）。
func (r *Repo) DeleteLoan(ctx context.Context, userID, loanID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.First(&l, "id = ? AND user_id = ?", loanID, userID).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", l.ID).Delete(&models.LoanPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&l).Error
	})
}

type ExportQuery struct {
	DateRange       string // "all", "30days", "90days", "year", "lastyear"
	IncludeReturned bool
	IncludePhotos   bool
}

func (r *Repo) ListLoansForExport(ctx context.Context, userID string, q ExportQuery) ([]models.Loan, error) {
	tx := r.DB.WithContext(ctx).Where("user_id = ?", userID)

	now := time.Now().UTC()
	switch q.DateRange {
	case "30days":
		tx = tx.Where("created_at >= ?", now.AddDate(0, 0, -30))
	case "90days":
		tx = tx.Where("created_at >= ?", now.AddDate(0, 0, -90))
	case "year":
		tx = tx.Where("created_at >= ? AND created_at <= ?",
			time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(now.Year(), 12, 31, 23, 59, 59, 0, time.UTC))
	case "lastyear":
		tx = tx.Where("created_at >= ? AND created_at <= ?",
			time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(now.Year()-1, 12, 31, 23, 59, 59, 0, time.UTC))
	}
	if !q.IncludeReturned {
		tx = tx.Where("returned_at IS NULL")
	}
	if q.IncludePhotos {
		tx = tx.Preload("Photos")
	}

	var loans []models.Loan
	err := tx.Order("created_at DESC").Find(&loans).Error
	return loans, err
}
