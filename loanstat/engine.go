// loanstat/engine.go
package loanstat

import (
	"math"
	"time"

	"lendtrack/models"
)

// 状态不落库，读取时由三个时间戳现算，避免状态列和日期不同步。
type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

// Derive 判定顺序固定：
//  1. returned_at 已设置 → returned（逾期后归还也算 returned，不算 overdue）
//  2. return_by < now（严格小于，正好到期还不算逾期）→ overdue
//  3. 其余 → active
func Derive(l *models.Loan, now time.Time) Status {
	if l.ReturnedAt != nil {
		return StatusReturned
	}
	if l.ReturnBy.Before(now) {
		return StatusOverdue
	}
	return StatusActive
}

// DaysOverdue 逾期天数，不足一天按一天算。非 overdue 状态一律返回 0，
// 已归还的记录不保留历史逾期天数（需要的话调用方自行比较 returned_at 和 return_by）。
func DaysOverdue(l *models.Loan, now time.Time) int {
	if Derive(l, now) != StatusOverdue {
		return 0
	}
	return ceilDays(now.Sub(l.ReturnBy))
}

// Duration 在外天数：ceil((end - borrowed_at) / 24h)，end 取 returned_at，
// 未归还取 now。归还后数值冻结；未归还时随 now 单调不减。
func Duration(l *models.Loan, now time.Time) int {
	end := now
	if l.ReturnedAt != nil {
		end = *l.ReturnedAt
	}
	return ceilDays(end.Sub(l.BorrowedAt))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
