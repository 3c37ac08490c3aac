package loanstat_test

import (
	"testing"

	"lendtrack/loanstat"
	"lendtrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics(t *testing.T) {
	now := d(2024, 3, 31)
	loans := []models.Loan{
		// 按时归还：1/1 借，2/1 应还，1/21 还（20 天）
		loan("Drill", "Alice", 1, d(2024, 1, 1), d(2024, 2, 1), ptr(d(2024, 1, 21))),
		// 晚还：1/1 借，2/1 应还，2/11 还（41 天）
		loan("Tent", "Bob", 1, d(2024, 1, 1), d(2024, 2, 1), ptr(d(2024, 2, 11))),
		// 逾期未还：3/1 借，3/21 应还（30 天在外）
		loan("Ladder", "Alice", 1, d(2024, 3, 1), d(2024, 3, 21), nil),
		// 在借：3/11 借（20 天在外）
		loan("Book", "Carol", 1, d(2024, 3, 11), d(2024, 4, 11), nil),
	}

	m := loanstat.ComputeMetrics(loans, now)
	assert.Equal(t, 4, m.TotalLoans)
	assert.Equal(t, 3, m.UniqueBorrowers)
	assert.Equal(t, 28, m.AvgDurationDays) // round((20+41+30+20)/4) = round(27.75)
	assert.Equal(t, 25, m.OverdueRate)     // 1/4
	assert.Equal(t, 50, m.OnTimeRate)      // 按时 1 / 已归还 2
}

func TestComputeMetricsEmpty(t *testing.T) {
	// 没有记录时所有比率为 0，不能除零
	assert.Equal(t, loanstat.Metrics{}, loanstat.ComputeMetrics(nil, d(2024, 3, 31)))
}

func TestComputeMetricsNoReturnsNoOnTimeRate(t *testing.T) {
	loans := []models.Loan{
		loan("A", "x", 1, d(2024, 3, 1), d(2024, 4, 1), nil),
	}
	assert.Equal(t, 0, loanstat.ComputeMetrics(loans, d(2024, 3, 15)).OnTimeRate)
}

func TestOverdueSeverity(t *testing.T) {
	now := d(2024, 3, 31)
	loans := []models.Loan{
		loan("ok", "x", 1, d(2024, 3, 1), d(2024, 4, 1), nil),                    // 不逾期
		loan("mild", "x", 1, d(2024, 3, 1), d(2024, 3, 28), nil),                 // 3 天
		loan("edge7", "x", 1, d(2024, 3, 1), d(2024, 3, 24), nil),                // 7 天
		loan("moderate", "x", 1, d(2024, 2, 1), d(2024, 3, 10), nil),             // 21 天
		loan("edge30", "x", 1, d(2024, 2, 1), d(2024, 3, 1), nil),                // 30 天
		loan("severe", "x", 1, d(2024, 1, 1), d(2024, 2, 1), nil),                // 59 天
		loan("late but returned", "x", 1, d(2024, 1, 1), d(2024, 2, 1), ptr(now)), // 不计
	}

	s := loanstat.OverdueSeverity(loans, now)
	assert.Equal(t, loanstat.Severity{Mild: 2, Moderate: 2, Severe: 1}, s)
}

func TestMostOverdueN(t *testing.T) {
	now := d(2024, 3, 31)
	loans := []models.Loan{
		loan("three", "x", 1, d(2024, 3, 1), d(2024, 3, 28), nil),
		loan("thirty", "x", 1, d(2024, 2, 1), d(2024, 3, 1), nil),
		loan("active", "x", 1, d(2024, 3, 1), d(2024, 4, 1), nil),
		loan("twentyone", "x", 1, d(2024, 2, 1), d(2024, 3, 10), nil),
	}

	top := loanstat.MostOverdueN(loans, 2, now)
	require.Len(t, top, 2)
	assert.Equal(t, "thirty", top[0].ItemName)
	assert.Equal(t, "twentyone", top[1].ItemName)

	assert.Empty(t, loanstat.MostOverdueN(nil, 3, now))
}

func TestAverageDurationByItem(t *testing.T) {
	now := d(2024, 6, 1)
	loans := []models.Loan{
		loan("Drill", "x", 1, d(2024, 1, 1), d(2024, 3, 1), ptr(d(2024, 1, 11))), // 10
		loan("Drill", "x", 1, d(2024, 2, 1), d(2024, 3, 1), ptr(d(2024, 2, 21))), // 20
		loan("Tent", "x", 1, d(2024, 1, 1), d(2024, 3, 1), ptr(d(2024, 2, 10))),  // 40
		loan("Ladder", "x", 1, d(2024, 5, 1), d(2024, 7, 1), nil),                // 未归还，不计
	}

	out := loanstat.AverageDurationByItem(loans, 10, now)
	require.Len(t, out, 2)
	assert.Equal(t, loanstat.ItemDuration{ItemName: "Tent", AverageDays: 40}, out[0])
	assert.Equal(t, loanstat.ItemDuration{ItemName: "Drill", AverageDays: 15}, out[1])
}
