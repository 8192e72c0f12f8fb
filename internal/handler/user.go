package handler

import (
	"net/http"
	"strconv"

	"xcontract-core/internal/models"
	"xcontract-core/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListUsers 返回全部用户（仅 owner/admin，经 RequireRole 保护）。
// 永远不返回密码哈希。
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("id").Find(&users).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
			return
		}

		out := make([]models.SafeUser, 0, len(users))
		for i := range users {
			out = append(out, users[i].Safe())
		}

		util.Success(c, util.Response{
			"count": len(out),
			"users": out,
		})
	}
}

// ListAuditLogs 分页返回操作日志，按时间倒序（仅 owner/admin）。
func ListAuditLogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
		if pageSize < 1 || pageSize > 200 {
			pageSize = 50
		}

		var total int64
		if err := db.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询日志失败")
			return
		}

		var logs []models.AuditLog
		if err := db.Order("id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&logs).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询日志失败")
			return
		}

		util.Success(c, util.Response{
			"total": total,
			"page":  page,
			"logs":  logs,
		})
	}
}
