package handler

import (
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler 审批处理器
type ApprovalHandler struct {
	svc *service.ApprovalService
}

func NewApprovalHandler(svc *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{svc: svc}
}

// Submit 提交或覆盖审批决定
// PUT /api/v1/procurement/packages/:id/approvals/:supplierId
func (h *ApprovalHandler) Submit(c *gin.Context) {
	var req service.SubmitApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	approval, err := h.svc.Submit(c.Request.Context(), c.Param("id"), c.Param("supplierId"), GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err, "提交审批失败")
		return
	}

	Success(c, approval)
}

// Status 查询单个供应商的审批状态
// GET /api/v1/procurement/packages/:id/approvals/:supplierId
func (h *ApprovalHandler) Status(c *gin.Context) {
	status, err := h.svc.Status(c.Request.Context(), c.Param("id"), c.Param("supplierId"))
	if err != nil {
		writeServiceError(c, err, "查询审批状态失败")
		return
	}
	Success(c, gin.H{"decision": status})
}

// List 采购包下全部审批记录
// GET /api/v1/procurement/packages/:id/approvals
func (h *ApprovalHandler) List(c *gin.Context) {
	approvals, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取审批列表失败")
		return
	}
	Success(c, approvals)
}

// PackageStatus 采购包审批全景
// GET /api/v1/procurement/packages/:id/approval-status
func (h *ApprovalHandler) PackageStatus(c *gin.Context) {
	status, err := h.svc.PackageStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "查询审批全景失败")
		return
	}
	Success(c, status)
}
