package routes

import (
	"time"

	"lendtrack/app"
	"lendtrack/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	loanCtl := controllers.NewLoanController(s)
	dashCtl := controllers.NewDashboardController(s)
	reportCtl := controllers.NewReportController(s)
	exportCtl := controllers.NewExportController(s)
	auditCtl := controllers.NewAuditController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSessions(), s.Repo)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// 静态照片
	r.Static("/uploads", a.Config.UploadDir)

	// ------------------------------
	// 账号（邮箱+密码）
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/reset-password", authCtl.RequestPasswordReset)
		auth.POST("/reset-password/confirm", authCtl.ConfirmPasswordReset)
	}
	authed := r.Group("/api/auth", authMW, seenMW)
	{
		authed.GET("/me", authCtl.Me)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// Passkey（免密码登录；绑定需已登录）
	// ------------------------------
	wa := r.Group("/webauthn")
	{
		wa.POST("/login/begin", s.BeginLogin)
		wa.POST("/login/finish", s.FinishLogin)
	}
	creds := r.Group("/api/credentials", authMW, seenMW)
	{
		creds.POST("/add/begin", s.BeginAddCredential)
		creds.POST("/add/finish", s.FinishAddCredential)
	}

	// ------------------------------
	// 借出记录
	// ------------------------------
	loans := r.Group("/api/loans", authMW, seenMW)
	{
		loans.POST("", loanCtl.CreateLoan)
		loans.GET("", loanCtl.ListLoans) // ?filter=&search=&sort=
		loans.GET("/export", exportCtl.Export)
		loans.GET("/:id", loanCtl.GetLoan)
		loans.POST("/:id/return", loanCtl.ReturnLoan)
		loans.DELETE("/:id", loanCtl.DeleteLoan)
	}

	// ------------------------------
	// 仪表盘 / 报表
	// ------------------------------
	dash := r.Group("/api/dashboard", authMW, seenMW)
	{
		dash.GET("/stats", dashCtl.Stats)
		dash.GET("/overdue", dashCtl.Overdue)
		dash.GET("/categories", dashCtl.Categories)
		dash.GET("/timeline", dashCtl.Timeline) // ?days=30
	}
	reports := r.Group("/api/reports", authMW, seenMW)
	{
		reports.GET("/monthly-activity", reportCtl.MonthlyActivity) // ?months=12
		reports.GET("/loan-duration", reportCtl.LoanDuration)
		reports.GET("/top-borrowers", reportCtl.TopBorrowers) // ?limit=5
		reports.GET("/overdue-analysis", reportCtl.OverdueAnalysis)
		reports.GET("/metrics", reportCtl.Metrics)
	}

	// 审计
	audit := r.Group("/api/audit", authMW, seenMW)
	{
		audit.GET("", auditCtl.ListAuditLog)
	}
}
