package handler

import (
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// DeclarationHandler 出口报关处理器
type DeclarationHandler struct {
	svc *service.DeclarationService
}

func NewDeclarationHandler(svc *service.DeclarationService) *DeclarationHandler {
	return &DeclarationHandler{svc: svc}
}

// StartSession 开启报关填报会话
// POST /api/v1/procurement/packages/:id/declaration-sessions
func (h *DeclarationHandler) StartSession(c *gin.Context) {
	view, err := h.svc.StartSession(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		writeServiceError(c, err, "开启填报会话失败")
		return
	}
	Created(c, view)
}

// SetFields 写入当前步骤字段
// PUT /api/v1/procurement/declaration-sessions/:id/fields
func (h *DeclarationHandler) SetFields(c *gin.Context) {
	var req struct {
		Values map[string]string `json:"values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.SetFields(c.Param("id"), req.Values)
	if err != nil {
		writeServiceError(c, err, "写入字段失败")
		return
	}

	Success(c, view)
}

// Advance 进入下一步
// POST /api/v1/procurement/declaration-sessions/:id/advance
func (h *DeclarationHandler) Advance(c *gin.Context) {
	view, err := h.svc.Advance(c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "进入下一步失败")
		return
	}
	Success(c, view)
}

// Retreat 回到上一步
// POST /api/v1/procurement/declaration-sessions/:id/retreat
func (h *DeclarationHandler) Retreat(c *gin.Context) {
	view, err := h.svc.Retreat(c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "回到上一步失败")
		return
	}
	Success(c, view)
}

// Progress 查询填报进度
// GET /api/v1/procurement/declaration-sessions/:id
func (h *DeclarationHandler) Progress(c *gin.Context) {
	view, err := h.svc.Progress(c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "查询进度失败")
		return
	}
	Success(c, view)
}

// Finalize 完成填报并生成报关单
// POST /api/v1/procurement/declaration-sessions/:id/finalize
func (h *DeclarationHandler) Finalize(c *gin.Context) {
	decl, err := h.svc.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "生成报关单失败")
		return
	}
	Created(c, decl)
}

// List 报关单列表
// GET /api/v1/procurement/declarations?status=xxx&package_id=xxx
func (h *DeclarationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":     c.Query("status"),
		"package_id": c.Query("package_id"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取报关单列表失败: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// Get 报关单详情
// GET /api/v1/procurement/declarations/:id
func (h *DeclarationHandler) Get(c *gin.Context) {
	decl, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取报关单失败")
		return
	}
	Success(c, decl)
}

// ChangeStatus 报关单状态流转
// POST /api/v1/procurement/declarations/:id/status
func (h *DeclarationHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	decl, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err, "状态流转失败")
		return
	}

	Success(c, decl)
}
