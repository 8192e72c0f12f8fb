package handler

import (
	"errors"
	"net/http"
	"time"

	"xcontract-core/internal/middleware"
	"xcontract-core/internal/models"
	"xcontract-core/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 登录失败锁定策略
const (
	maxFailedLogins = 5
	lockoutDuration = 10 * time.Minute
)

// AuthHandler 负责注册/登录/登出/当前用户接口
type AuthHandler struct {
	DB             *gorm.DB
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	MinPasswordLen int
	SecureCookie   bool // 非 debug 模式下为 true，cookie 带 Secure 标记
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours int, bcryptCost, minPasswordLen int, secureCookie bool) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:             db,
		JWTSecret:      jwtSecret,
		TokenTTL:       time.Duration(ttlHours) * time.Hour,
		BcryptCost:     bcryptCost,
		MinPasswordLen: minPasswordLen,
		SecureCookie:   secureCookie,
	}
}

// ---------- 注册 ----------

type registerReq struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"max=64"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "参数错误")
		return
	}

	email := util.NormalizeEmail(req.Email)
	if err := util.ValidateEmail(email); err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "邮箱格式不正确")
		return
	}
	if err := util.ValidatePassword(req.Password, h.MinPasswordLen); err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "密码长度不符合要求")
		return
	}

	// 先查重，给出明确的 409；唯一索引兜底并发下的竞态
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "邮箱已注册")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "密码加密失败")
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = email
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		DisplayName:  displayName,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Error(c, http.StatusConflict, util.CodeConflict, "邮箱已注册")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建用户失败")
		return
	}

	util.Success(c, util.Response{
		"ok":   true,
		"user": user.Safe(),
	})
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// 统一的认证失败提示：不区分"用户不存在"、"已停用"和"密码错误"
const loginFailedMsg = "邮箱或密码错误"

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "参数错误")
		return
	}

	email := util.NormalizeEmail(req.Email)

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, loginFailedMsg)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
		}
		return
	}

	if !user.IsActive {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, loginFailedMsg)
		return
	}

	now := time.Now()

	// 检查是否被锁定
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "账户已锁定，请稍后再试")
		return
	}

	// 校验密码
	if !util.CheckPassword(req.Password, user.PasswordHash) {
		// 密码错误：递增失败次数，达到上限则锁定
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			lockUntil := now.Add(lockoutDuration)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = h.DB.Save(&user).Error
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, loginFailedMsg)
		return
	}

	// 登录成功：重置失败计数，记录登录 IP 和时间
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = c.ClientIP()
	user.LastLoginAt = &now
	_ = h.DB.Save(&user).Error

	token, err := util.GenerateToken(h.JWTSecret, &user, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "生成 token 失败")
		return
	}

	h.setSessionCookie(c, token, int(h.TokenTTL.Seconds()))

	util.Success(c, util.Response{
		"ok":    true,
		"token": token,
		"user":  user.Safe(),
	})
}

// ---------- 登出 ----------

// Logout 清除会话 cookie。已签发的 token 在自然过期前仍然有效（无吊销列表）。
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	util.Success(c, util.Response{"ok": true})
}

// ---------- 当前用户 ----------

// Me 返回当前会话的 claims（需要经过 AuthMiddleware）
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":           claims.UserID,
			"email":        claims.Email,
			"role":         claims.Role,
			"display_name": claims.DisplayName,
		},
	})
}

// setSessionCookie 写/清 HttpOnly 会话 cookie，SameSite=Lax。
// 跨域部署需要 SameSite=None + Secure，由反向代理层处理。
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.SecureCookie, true)
}
