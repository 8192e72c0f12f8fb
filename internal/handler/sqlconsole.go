package handler

import (
	"net/http"

	"xcontract-core/internal/sqlguard"
	"xcontract-core/internal/util"

	"github.com/gin-gonic/gin"
)

// SQLConsoleHandler 开发用只读 SQL 查询接口。
// 路由仅在 sql_console.enabled 时注册；关闭时路径不存在，自然 404。
type SQLConsoleHandler struct {
	Gate  sqlguard.QueryGate
	Debug bool
}

func NewSQLConsoleHandler(gate sqlguard.QueryGate, debug bool) *SQLConsoleHandler {
	return &SQLConsoleHandler{Gate: gate, Debug: debug}
}

type sqlReq struct {
	SQL    string                 `json:"sql" binding:"required"`
	Params map[string]interface{} `json:"params"`
	Limit  int                    `json:"limit"`
}

// RunSQL 校验并执行单条只读查询
func (h *SQLConsoleHandler) RunSQL(c *gin.Context) {
	var req sqlReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	safeSQL, err := h.Gate.Validate(req.SQL, req.Limit)
	if err != nil {
		// 拒绝时说明违反了哪条规则
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	result, err := h.Gate.Execute(c.Request.Context(), safeSQL, req.Params)
	if err != nil {
		// 生产模式不泄漏底层存储错误
		msg := "查询执行失败"
		if h.Debug {
			msg = err.Error()
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, msg)
		return
	}

	util.Success(c, util.Response{
		"ok":    true,
		"count": result.Count,
		"rows":  result.Rows,
	})
}
