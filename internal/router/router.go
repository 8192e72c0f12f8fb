package router

import (
	"xcontract-core/internal/config"
	"xcontract-core/internal/handler"
	"xcontract-core/internal/middleware"
	"xcontract-core/internal/models"
	"xcontract-core/internal/sqlguard"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(
		db,
		jwtSecret,
		cfg.JWT.ExpireHours,
		cfg.Security.BcryptCost,
		cfg.Security.MinPasswordLen,
		!cfg.Debug(),
	)

	// 注册/登录/登出不需要鉴权
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost, cfg.Security.MinPasswordLen))

	// 管理接口：owner/admin
	admin := protected.Group("")
	admin.Use(middleware.RequireRole(models.RoleOwner, models.RoleAdmin))
	admin.GET("/users", handler.ListUsers(db))
	admin.GET("/audit", handler.ListAuditLogs(db))

	// 只读 SQL 控制台：仅在显式开启时注册路由，
	// 关闭时路径不存在，对外表现为普通 404。
	if cfg.SQLConsole.Enabled {
		sqlHandler := handler.NewSQLConsoleHandler(sqlguard.New(db), cfg.Debug())
		api.POST("/test/sql", sqlHandler.RunSQL)
	}

	return r
}
