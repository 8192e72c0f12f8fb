package handler

import (
	"errors"
	"net/http"

	"xcontract-core/internal/middleware"
	"xcontract-core/internal/models"
	"xcontract-core/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 修改当前用户密码
func ChangePassword(db *gorm.DB, bcryptCost, minPasswordLen int) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "参数错误")
			return
		}

		if err := util.ValidatePassword(req.NewPassword, minPasswordLen); err != nil {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "新密码长度不符合要求")
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "用户不存在")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询用户失败")
			}
			return
		}

		// 校验旧密码
		if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
			util.Error(c, http.StatusUnprocessableEntity, util.CodeValidation, "原密码错误")
			return
		}

		hash, err := util.HashPassword(req.NewPassword, bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "密码加密失败")
			return
		}

		if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "更新密码失败")
			return
		}

		util.Success(c, util.Response{
			"message": "密码修改成功，请使用新密码重新登录",
		})
	}
}
