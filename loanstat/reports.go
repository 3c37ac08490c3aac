// loanstat/reports.go
package loanstat

import (
	"math"
	"sort"
	"time"

	"lendtrack/models"
)

// Metrics 报表页顶部的汇总指标。
type Metrics struct {
	TotalLoans      int `json:"totalLoans"`
	UniqueBorrowers int `json:"uniqueBorrowers"`
	AvgDurationDays int `json:"avgDurationDays"`
	OverdueRate     int `json:"overdueRate"` // overdue / total
	OnTimeRate      int `json:"onTimeRate"`  // 按时归还 / 已归还
}

func ComputeMetrics(loans []models.Loan, now time.Time) Metrics {
	m := Metrics{TotalLoans: len(loans)}

	borrowers := make(map[string]struct{})
	durationSum := 0
	overdue, returned, onTime := 0, 0, 0
	for i := range loans {
		l := &loans[i]
		borrowers[l.RecipientName] = struct{}{}
		durationSum += Duration(l, now)
		if Derive(l, now) == StatusOverdue {
			overdue++
		}
		if l.ReturnedAt != nil {
			returned++
			// 按时 = 归还不晚于应还日（这是独立指标，不影响 DaysOverdue）
			if !l.ReturnedAt.After(l.ReturnBy) {
				onTime++
			}
		}
	}
	m.UniqueBorrowers = len(borrowers)
	if m.TotalLoans > 0 {
		m.AvgDurationDays = int(math.Round(float64(durationSum) / float64(m.TotalLoans)))
	}
	m.OverdueRate = pct(overdue, m.TotalLoans)
	m.OnTimeRate = pct(onTime, returned)
	return m
}

// Severity 逾期程度分层：≤7 / 8..30 / >30 天。
type Severity struct {
	Mild     int `json:"mild"`
	Moderate int `json:"moderate"`
	Severe   int `json:"severe"`
}

func OverdueSeverity(loans []models.Loan, now time.Time) Severity {
	var s Severity
	for i := range loans {
		switch d := DaysOverdue(&loans[i], now); {
		case d == 0:
		case d <= 7:
			s.Mild++
		case d <= 30:
			s.Moderate++
		default:
			s.Severe++
		}
	}
	return s
}

// MostOverdueN 逾期天数降序取前 n 条，并列保持输入顺序。
func MostOverdueN(loans []models.Loan, n int, now time.Time) []models.Loan {
	type entry struct {
		loan models.Loan
		days int
	}
	var overdue []entry
	for i := range loans {
		if d := DaysOverdue(&loans[i], now); d > 0 {
			overdue = append(overdue, entry{loan: loans[i], days: d})
		}
	}
	sort.SliceStable(overdue, func(i, j int) bool { return overdue[i].days > overdue[j].days })
	if n > 0 && len(overdue) > n {
		overdue = overdue[:n]
	}
	out := make([]models.Loan, 0, len(overdue))
	for _, e := range overdue {
		out = append(out, e.loan)
	}
	return out
}

type ItemDuration struct {
	ItemName    string `json:"itemName"`
	AverageDays int    `json:"averageDays"`
}

// AverageDurationByItem 已归还记录按物品名求平均在外天数，降序取前 limit。
func AverageDurationByItem(loans []models.Loan, limit int, now time.Time) []ItemDuration {
	type acc struct {
		total int
		count int
	}
	sums := make(map[string]*acc)
	var order []string
	for i := range loans {
		if loans[i].ReturnedAt == nil {
			continue
		}
		name := loans[i].ItemName
		a, ok := sums[name]
		if !ok {
			a = &acc{}
			sums[name] = a
			order = append(order, name)
		}
		a.total += Duration(&loans[i], now)
		a.count++
	}
	out := make([]ItemDuration, 0, len(order))
	for _, name := range order {
		a := sums[name]
		out = append(out, ItemDuration{
			ItemName:    name,
			AverageDays: int(math.Round(float64(a.total) / float64(a.count))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageDays > out[j].AverageDays })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
