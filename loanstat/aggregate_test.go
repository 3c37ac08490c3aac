package loanstat_test

import (
	"testing"
	"time"

	"lendtrack/loanstat"
	"lendtrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loan(item, recipient string, qty int, borrowed, returnBy time.Time, returned *time.Time) models.Loan {
	return models.Loan{
		ItemName:      item,
		RecipientName: recipient,
		Quantity:      qty,
		BorrowedAt:    borrowed,
		ReturnBy:      returnBy,
		ReturnedAt:    returned,
		CreatedAt:     borrowed,
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestSummarizeCountsAddUp(t *testing.T) {
	now := d(2024, 3, 31)
	loans := []models.Loan{
		loan("Drill", "Alice", 1, d(2024, 3, 1), d(2024, 4, 1), nil),              // active
		loan("Ladder", "Bob", 1, d(2024, 2, 1), d(2024, 3, 1), nil),              // overdue
		loan("Book", "Carol", 1, d(2024, 1, 1), d(2024, 2, 1), ptr(d(2024, 1, 20))), // returned
		loan("Tent", "Alice", 1, d(2024, 1, 5), d(2024, 2, 5), ptr(d(2024, 2, 10))), // returned (late)
	}

	s := loanstat.Summarize(loans, now)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 2, s.Returned)
	assert.Equal(t, s.Total, s.Active+s.Overdue+s.Returned)
	assert.Equal(t, 50, s.ReturnRate)
}

func TestSummarizeEmpty(t *testing.T) {
	s := loanstat.Summarize(nil, d(2024, 3, 31))
	assert.Equal(t, loanstat.Summary{}, s)
}

func TestSummarizeReturnRateRounds(t *testing.T) {
	now := d(2024, 6, 1)
	loans := []models.Loan{
		loan("A", "x", 1, d(2024, 5, 1), d(2024, 7, 1), ptr(d(2024, 5, 2))),
		loan("B", "x", 1, d(2024, 5, 1), d(2024, 7, 1), nil),
		loan("C", "x", 1, d(2024, 5, 1), d(2024, 7, 1), nil),
	}
	assert.Equal(t, 33, loanstat.Summarize(loans, now).ReturnRate)

	loans[1].ReturnedAt = ptr(d(2024, 5, 3))
	assert.Equal(t, 67, loanstat.Summarize(loans, now).ReturnRate)
}

func TestMostOverdue(t *testing.T) {
	now := d(2024, 3, 31)

	assert.Nil(t, loanstat.MostOverdue(nil, now))

	// 只有 active/returned 时也是 nil
	none := []models.Loan{
		loan("A", "x", 1, d(2024, 3, 1), d(2024, 4, 1), nil),
		loan("B", "x", 1, d(2024, 1, 1), d(2024, 2, 1), ptr(d(2024, 3, 1))),
	}
	assert.Nil(t, loanstat.MostOverdue(none, now))

	loans := []models.Loan{
		loan("Mild", "x", 1, d(2024, 3, 1), d(2024, 3, 28), nil),  // 3 天
		loan("Worst", "x", 1, d(2024, 2, 1), d(2024, 3, 1), nil),  // 30 天
		loan("Middle", "x", 1, d(2024, 2, 1), d(2024, 3, 10), nil), // 21 天
	}
	got := loanstat.MostOverdue(loans, now)
	require.NotNil(t, got)
	assert.Equal(t, "Worst", got.ItemName)
}

func TestMostOverdueTieKeepsInputOrder(t *testing.T) {
	now := d(2024, 3, 31)
	loans := []models.Loan{
		loan("First", "x", 1, d(2024, 2, 1), d(2024, 3, 1), nil),
		loan("Second", "y", 1, d(2024, 2, 5), d(2024, 3, 1), nil),
	}
	got := loanstat.MostOverdue(loans, now)
	require.NotNil(t, got)
	assert.Equal(t, "First", got.ItemName)
}

func TestByCategoryLabels(t *testing.T) {
	loans := []models.Loan{
		loan("Book - JavaScript Guide", "x", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("Book of Recipes", "x", 2, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("Drill", "x", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("- broken label", "x", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("", "x", 3, d(2024, 1, 1), d(2024, 2, 1), nil),
	}

	m := loanstat.ByCategory(loans)
	assert.Equal(t, map[string]int{
		"Book":  3,
		"Drill": 1,
		"Other": 4,
	}, m)
}

func TestTopCategoriesOrderAndTruncate(t *testing.T) {
	loans := []models.Loan{
		loan("Book A", "x", 2, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("Tool A", "x", 2, d(2024, 1, 1), d(2024, 2, 1), nil), // 与 Book 并列，但 Book 先出现
		loan("Game A", "x", 5, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("Cable A", "x", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
	}

	top := loanstat.TopCategories(loans, 3)
	require.Len(t, top, 3)
	assert.Equal(t, loanstat.CategoryCount{Name: "Game", Value: 5}, top[0])
	assert.Equal(t, loanstat.CategoryCount{Name: "Book", Value: 2}, top[1])
	assert.Equal(t, loanstat.CategoryCount{Name: "Tool", Value: 2}, top[2])
}

func TestTimelineCarryAndSweep(t *testing.T) {
	now := d(2024, 3, 31)
	loans := []models.Loan{
		// 窗口前借出、窗口前归还：整段窗口计入 returned
		loan("A", "x", 1, d(2024, 3, 1), d(2024, 4, 1), ptr(d(2024, 3, 10))),
		// 窗口前借出、仍在借：计入初始 active
		loan("B", "x", 1, d(2024, 3, 2), d(2024, 4, 1), nil),
		// 窗口前借出、窗口内归还
		loan("E", "x", 1, d(2024, 3, 20), d(2024, 4, 1), ptr(d(2024, 3, 28))),
		// 窗口内借出、窗口内归还
		loan("C", "x", 1, d(2024, 3, 27), d(2024, 4, 10), ptr(d(2024, 3, 29))),
		// 窗口内借出、仍在借
		loan("D", "x", 1, d(2024, 3, 28), d(2024, 4, 10), nil),
	}

	points := loanstat.Timeline(loans, 5, now)
	require.Len(t, points, 6)

	want := []loanstat.TimelinePoint{
		{Date: "2024-03-26", Active: 2, Returned: 1},
		{Date: "2024-03-27", Active: 3, Returned: 1},
		{Date: "2024-03-28", Active: 3, Returned: 2},
		{Date: "2024-03-29", Active: 2, Returned: 3},
		{Date: "2024-03-30", Active: 2, Returned: 3},
		{Date: "2024-03-31", Active: 2, Returned: 3},
	}
	assert.Equal(t, want, points)
}

func TestTimelineEmpty(t *testing.T) {
	points := loanstat.Timeline(nil, 2, d(2024, 3, 31))
	require.Len(t, points, 3)
	for _, p := range points {
		assert.Zero(t, p.Active)
		assert.Zero(t, p.Returned)
	}
}

func TestMonthlyActivityIncludesEmptyMonths(t *testing.T) {
	now := d(2024, 3, 15)

	loans := []models.Loan{
		// 一月开借、三月归还：两头各记一笔
		loan("A", "x", 1, d(2024, 1, 10), d(2024, 2, 10), ptr(d(2024, 3, 5))),
		loan("B", "x", 1, d(2024, 3, 1), d(2024, 4, 1), nil),
	}

	out := loanstat.MonthlyActivity(loans, 3, now)
	want := []loanstat.MonthActivity{
		{Month: "2024-01", Created: 1, Returned: 0},
		{Month: "2024-02", Created: 0, Returned: 0}, // 没有活动的月份也要出现
		{Month: "2024-03", Created: 1, Returned: 1},
	}
	assert.Equal(t, want, out)
}

func TestDurationHistogramCoversEveryLoan(t *testing.T) {
	now := d(2024, 6, 1)
	loans := []models.Loan{
		loan("A", "x", 1, d(2024, 5, 30), d(2024, 7, 1), nil),                        // 2 天
		loan("B", "x", 1, d(2024, 5, 1), d(2024, 7, 1), ptr(d(2024, 5, 8))),          // 7 天
		loan("C", "x", 1, d(2024, 5, 1), d(2024, 7, 1), ptr(d(2024, 5, 31))),         // 30 天
		loan("D", "x", 1, d(2024, 2, 1), d(2024, 7, 1), ptr(d(2024, 4, 1))),          // 60 天
		loan("E", "x", 1, d(2023, 12, 1), d(2024, 7, 1), ptr(d(2024, 2, 29))),        // 90 天
		loan("F", "x", 1, d(2023, 1, 1), d(2023, 2, 1), nil),                         // >90 天
	}

	h := loanstat.DurationHistogram(loans, now)
	assert.Equal(t, 1, h.Under7Days)
	assert.Equal(t, 2, h.Days7To30)
	assert.Equal(t, 2, h.Months1To3)
	assert.Equal(t, 1, h.Over3Months)
	assert.Equal(t, len(loans), h.Under7Days+h.Days7To30+h.Months1To3+h.Over3Months)
}

func TestTopBorrowers(t *testing.T) {
	loans := []models.Loan{
		loan("A", "Alice", 1, d(2024, 1, 1), d(2024, 2, 1), ptr(d(2024, 1, 5))),
		loan("B", "Bob", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("C", "Alice", 1, d(2024, 1, 2), d(2024, 2, 1), nil),
		loan("D", "Alice", 1, d(2024, 1, 3), d(2024, 2, 1), ptr(d(2024, 1, 9))),
		loan("E", "Carol", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("F", "Bob", 1, d(2024, 1, 4), d(2024, 2, 1), ptr(d(2024, 1, 8))),
	}

	top := loanstat.TopBorrowers(loans, 2)
	require.Len(t, top, 2)
	assert.Equal(t, loanstat.BorrowerStat{Name: "Alice", Total: 3, Returned: 2, ReturnRate: 67}, top[0])
	assert.Equal(t, loanstat.BorrowerStat{Name: "Bob", Total: 2, Returned: 1, ReturnRate: 50}, top[1])
}

func TestTopBorrowersTieKeepsFirstSeen(t *testing.T) {
	loans := []models.Loan{
		loan("A", "Bob", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
		loan("B", "Alice", 1, d(2024, 1, 1), d(2024, 2, 1), nil),
	}
	top := loanstat.TopBorrowers(loans, 5)
	require.Len(t, top, 2)
	assert.Equal(t, "Bob", top[0].Name)
	assert.Equal(t, "Alice", top[1].Name)
}
