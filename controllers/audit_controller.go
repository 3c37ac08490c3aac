package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lendtrack/app"
)

type AuditController struct{ *Srv }

func NewAuditController(s *Srv) *AuditController { return &AuditController{Srv: s} }

// GET /api/audit?limit=50 本人最近的操作审计
func (ac *AuditController) ListAuditLog(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := ac.Repo.ListAuditLog(c.Request.Context(), uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"entries": entries})
}
