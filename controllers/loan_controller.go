// controllers/loan_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"lendtrack/app"
	"lendtrack/db"
	"lendtrack/models"
	"lendtrack/upload"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

func currentUser(c *gin.Context) (id, email string, ok bool) {
	v, ok1 := c.Get("userID")
	w, ok2 := c.Get("email")
	if !ok1 || !ok2 {
		return "", "", false
	}
	id, _ = v.(string)
	email, _ = w.(string)
	return id, email, id != ""
}

type createLoanForm struct {
	RecipientName string `form:"recipientName" binding:"required,max=100"`
	ItemName      string `form:"itemName" binding:"required,max=100"`
	Description   string `form:"description" binding:"omitempty,max=500"`
	Quantity      int    `form:"quantity" binding:"required,min=1"`
	BorrowedAt    string `form:"borrowedAt" binding:"required"`
	ReturnBy      string `form:"returnBy" binding:"required"`
	StateStart    string `form:"stateStart" binding:"required,max=200"`
}

// 表单里日期既可能是 2024-01-15 也可能带时间，两种都收
func parseFormDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t.UTC(), err
}

// 创建借出记录（multipart：字段 + initial 照片）
func (lc *LoanController) CreateLoan(c *gin.Context) {
	uid, email, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	var in createLoanForm
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	borrowedAt, err := parseFormDate(in.BorrowedAt)
	if err != nil {
		c.JSON(400, app.H{"error": "invalid borrowedAt date"})
		return
	}
	returnBy, err := parseFormDate(in.ReturnBy)
	if err != nil {
		c.JSON(400, app.H{"error": "invalid returnBy date"})
		return
	}

	// 开借日不能在未来（宽限到当天结束），应还日必须晚于开借日
	now := time.Now().UTC()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	if borrowedAt.After(endOfToday) {
		c.JSON(400, app.H{"error": "loan date cannot be in the future"})
		return
	}
	if !returnBy.After(borrowedAt) {
		c.JSON(400, app.H{"error": "return date must be after loan date"})
		return
	}

	var files []models.LoanPhoto
	if form, err := c.MultipartForm(); err == nil && form != nil {
		saved, err := upload.SaveAll(c, form.File["photos"], lc.Cfg.UploadDir)
		if err != nil {
			c.JSON(400, app.H{"error": err.Error()})
			return
		}
		for _, sf := range saved {
			files = append(files, models.LoanPhoto{ID: uuid.NewString(), URL: sf.URL})
		}
	}

	loan := &models.Loan{
		ID:            uuid.NewString(),
		UserID:        uid,
		RecipientName: in.RecipientName,
		ItemName:      in.ItemName,
		Description:   in.Description,
		Quantity:      in.Quantity,
		BorrowedAt:    borrowedAt,
		ReturnBy:      returnBy,
		StateStart:    in.StateStart,
	}
	if err := lc.Repo.CreateLoan(c.Request.Context(), loan, files); err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	_, _ = lc.Repo.LogLoanAction(c.Request.Context(), uid, email, models.AuditLoanCreate, loan.ID, &loan.ItemName)
	c.JSON(http.StatusCreated, app.H{"loan": loan})
}

// 列表：?filter=all|active|overdue|returned&search=&sort=newest|oldest|return-date|name
func (lc *LoanController) ListLoans(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	q := db.LoanQuery{
		Filter: c.DefaultQuery("filter", "all"),
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "newest"),
	}
	loans, err := lc.Repo.ListLoans(c.Request.Context(), uid, q)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": loans})
}

func (lc *LoanController) GetLoan(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	loan, err := lc.Repo.FindLoanByID(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "loan not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"loan": loan})
}

type returnLoanForm struct {
	StateEnd string `form:"stateEnd" binding:"required,max=200"`
}

// 归还（multipart：stateEnd + return 照片）。只能归还一次。
func (lc *LoanController) ReturnLoan(c *gin.Context) {
	uid, email, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	loanID := c.Param("id")

	var in returnLoanForm
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "final condition is required (max 200 characters)"})
		return
	}

	var files []models.LoanPhoto
	if form, err := c.MultipartForm(); err == nil && form != nil {
		saved, err := upload.SaveAll(c, form.File["photos"], lc.Cfg.UploadDir)
		if err != nil {
			c.JSON(400, app.H{"error": err.Error()})
			return
		}
		for _, sf := range saved {
			files = append(files, models.LoanPhoto{ID: uuid.NewString(), URL: sf.URL})
		}
	}

	loan, err := lc.Repo.ReturnLoan(c.Request.Context(), uid, loanID, in.StateEnd, files)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyReturned):
			c.JSON(http.StatusConflict, app.H{"error": "loan already returned"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, app.H{"error": "loan not found"})
		default:
			c.JSON(500, app.H{"error": err.Error()})
		}
		return
	}

	_, _ = lc.Repo.LogLoanAction(c.Request.Context(), uid, email, models.AuditLoanReturn, loan.ID, &loan.ItemName)
	c.JSON(http.StatusOK, app.H{"loan": loan})
}

// 删除记录（连带照片）
func (lc *LoanController) DeleteLoan(c *gin.Context) {
	uid, email, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	loanID := c.Param("id")

	if err := lc.Repo.DeleteLoan(c.Request.Context(), uid, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "loan not found"})
			return
		}
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	_, _ = lc.Repo.LogLoanAction(c.Request.Context(), uid, email, models.AuditLoanDelete, loanID, nil)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
