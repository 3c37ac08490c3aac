// controllers/report_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"lendtrack/app"
	"lendtrack/loanstat"

	"github.com/gin-gonic/gin"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/reports/monthly-activity?months=12
func (rc *ReportController) MonthlyActivity(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))
	if months <= 0 || months > 36 {
		months = 12
	}

	loans, err := rc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"data": loanstat.MonthlyActivity(loans, months, time.Now())})
}

// GET /api/reports/loan-duration
func (rc *ReportController) LoanDuration(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	loans, err := rc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	h := loanstat.DurationHistogram(loans, time.Now())
	// 前端图表直接用这套标签
	c.JSON(http.StatusOK, app.H{"durations": app.H{
		"< 7 days":   h.Under7Days,
		"7-30 days":  h.Days7To30,
		"1-3 months": h.Months1To3,
		"> 3 months": h.Over3Months,
	}})
}

// GET /api/reports/top-borrowers?limit=5
func (rc *ReportController) TopBorrowers(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	loans, err := rc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"borrowers": loanstat.TopBorrowers(loans, limit)})
}

// GET /api/reports/overdue-analysis
func (rc *ReportController) OverdueAnalysis(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	loans, err := rc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	now := time.Now()
	s := loanstat.Summarize(loans, now)
	open := s.Active + s.Overdue
	overduePct := 0
	if open > 0 {
		overduePct = int(float64(s.Overdue)/float64(open)*100 + 0.5)
	}

	worst := loanstat.MostOverdueN(loans, 3, now)
	type overdueItem struct {
		ID            string `json:"id"`
		ItemName      string `json:"itemName"`
		RecipientName string `json:"recipientName"`
		DaysOverdue   int    `json:"daysOverdue"`
	}
	items := make([]overdueItem, 0, len(worst))
	for i := range worst {
		items = append(items, overdueItem{
			ID:            worst[i].ID,
			ItemName:      worst[i].ItemName,
			RecipientName: worst[i].RecipientName,
			DaysOverdue:   loanstat.DaysOverdue(&worst[i], now),
		})
	}

	c.JSON(http.StatusOK, app.H{
		"overdueCount":      s.Overdue,
		"overduePercentage": overduePct,
		"severity":          loanstat.OverdueSeverity(loans, now),
		"mostOverdue":       items,
	})
}

// GET /api/reports/metrics
func (rc *ReportController) Metrics(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	loans, err := rc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	now := time.Now()
	c.JSON(http.StatusOK, app.H{
		"metrics":          loanstat.ComputeMetrics(loans, now),
		"averageDurations": loanstat.AverageDurationByItem(loans, 10, now),
	})
}
