package middleware

import (
	"xcontract-core/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditMiddleware 记录已登录用户的操作到 audit_logs。
// 放在 AuthMiddleware 之后；未登录请求不记录。
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestID", requestID)

		// 执行请求
		c.Next()

		claims, ok := CurrentClaims(c)
		if !ok {
			return
		}

		userID := claims.UserID
		entry := models.AuditLog{
			RequestID: requestID,
			UserID:    &userID,
			Email:     claims.Email,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
