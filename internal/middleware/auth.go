package middleware

import (
	"net/http"
	"strings"

	"xcontract-core/internal/models"
	"xcontract-core/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie name the login handler sets.
const SessionCookie = "session"

const claimsKey = "sessionClaims"

// AuthMiddleware 校验会话令牌，并把解析出的 claims 放入 context。
// 令牌只需验签 + 过期检查，不回查数据库。
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Cookie session（登录接口默认写这里）
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			tokenStr = cookie
		}

		// 2) Header: Authorization: Bearer xxx
		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = parts[1]
				}
			}
		}

		// 3) URL 查询参数 ?token=xxx（用于无法自定义 Header 的场景）
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "登录已失效，请重新登录")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentClaims returns the verified session claims set by AuthMiddleware.
func CurrentClaims(c *gin.Context) (*util.SessionClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*util.SessionClaims)
	return claims, ok && claims != nil
}

// RequireRole restricts access to the given roles.
// It MUST be used AFTER AuthMiddleware.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			c.Abort()
			return
		}
		if !claims.Role.In(allowed...) {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "权限不足")
			c.Abort()
			return
		}
		c.Next()
	}
}
