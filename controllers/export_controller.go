// controllers/export_controller.go
package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lendtrack/app"
	"lendtrack/db"

	"github.com/gin-gonic/gin"
)

type ExportController struct{ *Srv }

func NewExportController(s *Srv) *ExportController { return &ExportController{Srv: s} }

// GET /api/loans/export?format=csv|json|html&dateRange=all|30days|90days|year|lastyear
//
//	&includePhotos=true&includeReturned=true
func (ec *ExportController) Export(c *gin.Context) {
	uid, email, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	format := c.DefaultQuery("format", "csv")
	q := db.ExportQuery{
		DateRange:       c.DefaultQuery("dateRange", "all"),
		IncludePhotos:   c.Query("includePhotos") == "true",
		IncludeReturned: c.Query("includeReturned") == "true",
	}

	loans, err := ec.Repo.ListLoansForExport(c.Request.Context(), uid, q)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	now := time.Now()
	stamp := now.Format("2006-01-02")

	switch format {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="loans-export-%s.csv"`, stamp))
		c.Data(http.StatusOK, "text/csv", []byte(GenerateCSV(loans, q.IncludePhotos, now)))
	case "json":
		b, err := json.MarshalIndent(loans, "", "  ")
		if err != nil {
			c.JSON(500, app.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="loans-export-%s.json"`, stamp))
		c.Data(http.StatusOK, "application/json", b)
	case "html":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="loans-export-%s.html"`, stamp))
		c.Data(http.StatusOK, "text/html", []byte(GenerateHTML(loans, email, now)))
	default:
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid format"})
	}
}
