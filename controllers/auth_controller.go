// controllers/auth_controller.go
package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"lendtrack/app"
	"lendtrack/db"
	"lendtrack/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

const bcryptCost = 12

type registerReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"`
}

// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": passwordRuleMessage()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	u := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if db.IsDuplicateEmail(err) {
			c.JSON(http.StatusConflict, app.H{"error": "email already registered"})
			return
		}
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	// 注册即登录
	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(500, app.H{"error": "create app session failed"})
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u})
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		// 不区分“用户不存在”和“密码错误”
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid email or password"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(500, app.H{"error": "create app session failed"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "user": u})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(ac.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	v, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	uid, _ := v.(string)

	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	credCount, _ := ac.Repo.CountCredentials(c.Request.Context(), uid)
	c.JSON(http.StatusOK, app.H{"user": u, "passkeys": credCount})
}

// POST /api/auth/reset-password
func (ac *AuthController) RequestPasswordReset(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// 邮箱不存在也返回 ok，避免探测注册账号
	if _, err := ac.Repo.FindUserByEmail(c.Request.Context(), email); err != nil {
		c.JSON(http.StatusOK, app.H{"ok": true})
		return
	}

	buf := make([]byte, 16)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	if _, err := ac.Repo.CreateResetToken(c.Request.Context(), email, token, time.Now().Add(24*time.Hour)); err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	// 没有邮件投递，令牌直接回给调用方
	c.JSON(http.StatusOK, app.H{"ok": true, "token": token})
}

// POST /api/auth/reset-password/confirm
func (ac *AuthController) ConfirmPasswordReset(c *gin.Context) {
	var in struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,strongpwd"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": passwordRuleMessage()})
		return
	}

	rt, err := ac.Repo.GetResetToken(c.Request.Context(), in.Token)
	if err != nil || rt.UsedAt != nil || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusForbidden, app.H{"error": "invalid or expired reset token"})
		return
	}
	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), rt.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	if err := ac.Repo.UpdateUserPassword(c.Request.Context(), u.ID, string(hash)); err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	_ = ac.Repo.MarkResetTokenUsed(c.Request.Context(), in.Token)

	// 改密后踢掉所有旧会话
	_ = ac.AppSess.RevokeAllForUser(c.Request.Context(), u.ID)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
