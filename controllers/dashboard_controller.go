// controllers/dashboard_controller.go
//
// 仪表盘接口：一次取 owner 的全量快照，剩下的全交给 loanstat 的纯函数。
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"lendtrack/app"
	"lendtrack/loanstat"

	"github.com/gin-gonic/gin"
)

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

// GET /api/dashboard/stats
func (dc *DashboardController) Stats(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	loans, err := dc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	recent, err := dc.Repo.ListRecentLoans(c.Request.Context(), uid, 5)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app.H{
		"stats":  loanstat.Summarize(loans, time.Now()),
		"recent": recent,
	})
}

// GET /api/dashboard/overdue 逾期提醒；没有逾期时 alert 为 null
func (dc *DashboardController) Overdue(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	open, err := dc.Repo.ListOpenLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	now := time.Now()
	count := loanstat.Summarize(open, now).Overdue
	worst := loanstat.MostOverdue(open, now)
	if worst == nil {
		c.JSON(http.StatusOK, app.H{"count": 0, "alert": nil})
		return
	}
	c.JSON(http.StatusOK, app.H{
		"count": count,
		"alert": app.H{
			"loan":        worst,
			"daysOverdue": loanstat.DaysOverdue(worst, now),
		},
	})
}

// GET /api/dashboard/categories
func (dc *DashboardController) Categories(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	loans, err := dc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": loanstat.TopCategories(loans, 10)})
}

// GET /api/dashboard/timeline?days=30
func (dc *DashboardController) Timeline(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}

	loans, err := dc.Repo.ListAllLoans(c.Request.Context(), uid)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"timeline": loanstat.Timeline(loans, days, time.Now())})
}
