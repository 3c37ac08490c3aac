package loanstat_test

import (
	"testing"
	"time"

	"lendtrack/loanstat"
	"lendtrack/models"

	"github.com/stretchr/testify/assert"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func openLoan(borrowed, returnBy time.Time) models.Loan {
	return models.Loan{
		ID:         "loan-1",
		BorrowedAt: borrowed,
		ReturnBy:   returnBy,
	}
}

func returnedLoan(borrowed, returnBy, returned time.Time) models.Loan {
	l := openLoan(borrowed, returnBy)
	l.ReturnedAt = &returned
	return l
}

func TestDeriveActive(t *testing.T) {
	l := openLoan(d(2024, 1, 1), d(2024, 2, 1))

	assert.Equal(t, loanstat.StatusActive, loanstat.Derive(&l, d(2024, 1, 15)))
	assert.Equal(t, 0, loanstat.DaysOverdue(&l, d(2024, 1, 15)))
	assert.Equal(t, 14, loanstat.Duration(&l, d(2024, 1, 15)))
}

func TestDeriveDueExactlyNowIsStillActive(t *testing.T) {
	l := openLoan(d(2024, 1, 1), d(2024, 2, 1))

	// return_by == now 还不算逾期（严格小于）
	assert.Equal(t, loanstat.StatusActive, loanstat.Derive(&l, d(2024, 2, 1)))
	assert.Equal(t, 0, loanstat.DaysOverdue(&l, d(2024, 2, 1)))
}

func TestDeriveOverdue(t *testing.T) {
	l := openLoan(d(2024, 1, 1), d(2024, 2, 1))

	assert.Equal(t, loanstat.StatusOverdue, loanstat.Derive(&l, d(2024, 2, 10)))
	assert.Equal(t, 9, loanstat.DaysOverdue(&l, d(2024, 2, 10)))
	assert.Equal(t, 40, loanstat.Duration(&l, d(2024, 2, 10)))
}

func TestDaysOverdueRoundsPartialDaysUp(t *testing.T) {
	l := openLoan(d(2024, 1, 1), d(2024, 2, 1))

	// 刚过期 1 小时也按 1 天算
	assert.Equal(t, 1, loanstat.DaysOverdue(&l, d(2024, 2, 1).Add(time.Hour)))
}

func TestReturnedAlwaysWins(t *testing.T) {
	// 晚还 4 天，但状态是 returned 不是 overdue，逾期天数归零
	l := returnedLoan(d(2024, 1, 1), d(2024, 2, 1), d(2024, 2, 5))

	for _, now := range []time.Time{d(2024, 2, 5), d(2024, 3, 1), d(2025, 1, 1)} {
		assert.Equal(t, loanstat.StatusReturned, loanstat.Derive(&l, now))
		assert.Equal(t, 0, loanstat.DaysOverdue(&l, now))
		assert.Equal(t, 35, loanstat.Duration(&l, now), "duration frozen at return time")
	}
}

func TestDurationMonotonicWhileActive(t *testing.T) {
	l := openLoan(d(2024, 1, 1), d(2024, 6, 1))

	prev := 0
	for i := 0; i < 60; i++ {
		cur := loanstat.Duration(&l, d(2024, 1, 1).Add(time.Duration(i)*13*time.Hour))
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestDurationSameDayReturnIsZero(t *testing.T) {
	l := returnedLoan(d(2024, 1, 1), d(2024, 2, 1), d(2024, 1, 1))

	assert.Equal(t, 0, loanstat.Duration(&l, d(2024, 5, 1)))
}
