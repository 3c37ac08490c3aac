// loanstat/aggregate.go
//
// 仪表盘/报表用的聚合：对已按 owner 过滤的一批 Loan 做单遍折叠，
// 全部纯函数，now 显式传入。空输入永远合法（零值/空切片/nil）。
package loanstat

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"lendtrack/models"
)

type Summary struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Overdue    int `json:"overdue"`
	Returned   int `json:"returned"`
	ReturnRate int `json:"returnRate"` // round(returned/total*100)，total==0 时为 0
}

func Summarize(loans []models.Loan, now time.Time) Summary {
	var s Summary
	for i := range loans {
		switch Derive(&loans[i], now) {
		case StatusActive:
			s.Active++
		case StatusOverdue:
			s.Overdue++
		case StatusReturned:
			s.Returned++
		}
		s.Total++
	}
	s.ReturnRate = pct(s.Returned, s.Total)
	return s
}

// MostOverdue 逾期最久的一条；没有逾期记录时返回 nil。
// 并列时取输入顺序靠前的（严格大于才替换）。
func MostOverdue(loans []models.Loan, now time.Time) *models.Loan {
	var best *models.Loan
	bestDays := 0
	for i := range loans {
		if d := DaysOverdue(&loans[i], now); d > bestDays {
			best = &loans[i]
			bestDays = d
		}
	}
	return best
}

// ByCategory 按物品名第一个空格/连字符之前的词归类（启发式，仅用于展示），
// 空标签归入 "Other"，按 quantity 累加。
func ByCategory(loans []models.Loan) map[string]int {
	m := make(map[string]int)
	for i := range loans {
		m[categoryLabel(loans[i].ItemName)] += loans[i].Quantity
	}
	return m
}

type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TopCategories 数量降序取前 n（并列保持首次出现顺序）。
func TopCategories(loans []models.Loan, n int) []CategoryCount {
	sums := make(map[string]int)
	var order []string
	for i := range loans {
		label := categoryLabel(loans[i].ItemName)
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += loans[i].Quantity
	}
	out := make([]CategoryCount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryCount{Name: name, Value: sums[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func categoryLabel(itemName string) string {
	cut := strings.IndexFunc(itemName, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	label := itemName
	if cut >= 0 {
		label = itemName[:cut]
	}
	if label = strings.TrimSpace(label); label == "" {
		return "Other"
	}
	return label
}

type TimelinePoint struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Active   int    `json:"active"`
	Returned int    `json:"returned"`
}

// Timeline 最近 windowDays 天（含今天）每天的在借/已还累计。
// 实现为两条有序事件流（开借、归还）上的扫描线：窗口前开借的记录
// 先折进初始计数（窗口前已还的进 returned，其余进 active），
// 之后逐天推进两个游标，不对每一天重扫全部记录。
func Timeline(loans []models.Loan, windowDays int, now time.Time) []TimelinePoint {
	start := dateOf(now).AddDate(0, 0, -windowDays)
	end := dateOf(now)

	var opens, closes []time.Time
	active, returned := 0, 0
	for i := range loans {
		o := dateOf(loans[i].BorrowedAt)
		var c *time.Time
		if loans[i].ReturnedAt != nil {
			cc := dateOf(*loans[i].ReturnedAt)
			c = &cc
		}
		if o.Before(start) {
			if c != nil && c.Before(start) {
				returned++
				continue
			}
			active++
			if c != nil {
				closes = append(closes, *c)
			}
			continue
		}
		opens = append(opens, o)
		if c != nil {
			closes = append(closes, *c)
		}
	}
	sort.Slice(opens, func(i, j int) bool { return opens[i].Before(opens[j]) })
	sort.Slice(closes, func(i, j int) bool { return closes[i].Before(closes[j]) })

	points := make([]TimelinePoint, 0, windowDays+1)
	oi, ci := 0, 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for oi < len(opens) && !opens[oi].After(d) {
			active++
			oi++
		}
		for ci < len(closes) && !closes[ci].After(d) {
			active--
			returned++
			ci++
		}
		points = append(points, TimelinePoint{
			Date:     d.Format("2006-01-02"),
			Active:   active,
			Returned: returned,
		})
	}
	return points
}

type MonthActivity struct {
	Month    string `json:"month"` // YYYY-MM
	Created  int    `json:"created"`
	Returned int    `json:"returned"`
}

// MonthlyActivity 最近 monthsBack 个自然月（含当月）的开借/归还独立计数。
// 某月开借、隔两个月归还的记录分别计入两个月份，不挪动。没有活动的月份也输出。
func MonthlyActivity(loans []models.Loan, monthsBack int, now time.Time) []MonthActivity {
	created := make(map[string]int)
	returned := make(map[string]int)
	for i := range loans {
		created[loans[i].CreatedAt.Format("2006-01")]++
		if loans[i].ReturnedAt != nil {
			returned[loans[i].ReturnedAt.Format("2006-01")]++
		}
	}

	cur := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthActivity, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		key := cur.AddDate(0, -i, 0).Format("2006-01")
		out = append(out, MonthActivity{
			Month:    key,
			Created:  created[key],
			Returned: returned[key],
		})
	}
	return out
}

// Histogram 借出时长分桶，四桶互斥且覆盖所有记录（不分状态）。
type Histogram struct {
	Under7Days  int `json:"under7Days"`  // < 7
	Days7To30   int `json:"days7To30"`   // 7..30
	Months1To3  int `json:"months1To3"`  // 31..90
	Over3Months int `json:"over3Months"` // > 90
}

func DurationHistogram(loans []models.Loan, now time.Time) Histogram {
	var h Histogram
	for i := range loans {
		switch d := Duration(&loans[i], now); {
		case d < 7:
			h.Under7Days++
		case d <= 30:
			h.Days7To30++
		case d <= 90:
			h.Months1To3++
		default:
			h.Over3Months++
		}
	}
	return h
}

type BorrowerStat struct {
	Name       string `json:"name"`
	Total      int    `json:"total"`
	Returned   int    `json:"returned"`
	ReturnRate int    `json:"returnRate"`
}

// TopBorrowers 按 recipient_name 精确分组（没有独立的借用人实体），
// 借出次数降序取前 limit，并列保持首次出现顺序。
func TopBorrowers(loans []models.Loan, limit int) []BorrowerStat {
	idx := make(map[string]int)
	var stats []BorrowerStat
	for i := range loans {
		name := loans[i].RecipientName
		j, ok := idx[name]
		if !ok {
			j = len(stats)
			idx[name] = j
			stats = append(stats, BorrowerStat{Name: name})
		}
		stats[j].Total++
		if loans[i].ReturnedAt != nil {
			stats[j].Returned++
		}
	}
	for j := range stats {
		stats[j].ReturnRate = pct(stats[j].Returned, stats[j].Total)
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func pct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// dateOf 压到当天零点，跨天比较都用它。
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
