package handler

import (
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// EvaluationHandler 供应商评价处理器
type EvaluationHandler struct {
	svc *service.EvaluationService
}

func NewEvaluationHandler(svc *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{svc: svc}
}

// List 评价列表
// GET /api/v1/procurement/evaluations?supplier_id=xxx&status=xxx
func (h *EvaluationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"supplier_id": c.Query("supplier_id"),
		"status":      c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取评价列表失败: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// Get 评价详情
// GET /api/v1/procurement/evaluations/:id
func (h *EvaluationHandler) Get(c *gin.Context) {
	eval, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取评价失败")
		return
	}
	Success(c, eval)
}

// Create 创建评价
// POST /api/v1/procurement/evaluations
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req service.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	eval, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err, "创建评价失败")
		return
	}

	Created(c, eval)
}

// Update 更新评价（仅草稿）
// PUT /api/v1/procurement/evaluations/:id
func (h *EvaluationHandler) Update(c *gin.Context) {
	var req service.UpdateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	eval, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "更新评价失败")
		return
	}

	Success(c, eval)
}

// Submit 提交评价
// POST /api/v1/procurement/evaluations/:id/submit
func (h *EvaluationHandler) Submit(c *gin.Context) {
	eval, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "提交评价失败")
		return
	}
	Success(c, eval)
}

// Approve 批准评价并刷新供应商评级
// POST /api/v1/procurement/evaluations/:id/approve
func (h *EvaluationHandler) Approve(c *gin.Context) {
	eval, err := h.svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "批准评价失败")
		return
	}
	Success(c, eval)
}
