package handler

import (
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// POHandler 采购订单处理器
type POHandler struct {
	svc *service.POService
}

func NewPOHandler(svc *service.POService) *POHandler {
	return &POHandler{svc: svc}
}

// List 采购订单列表
// GET /api/v1/procurement/purchase-orders?status=xxx&package_id=xxx&supplier_id=xxx
func (h *POHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":      c.Query("status"),
		"package_id":  c.Query("package_id"),
		"supplier_id": c.Query("supplier_id"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取采购订单列表失败: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// Get 采购订单详情
// GET /api/v1/procurement/purchase-orders/:id
func (h *POHandler) Get(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取采购订单失败")
		return
	}
	Success(c, po)
}

// EligibleSuppliers 采购包下可开单的供应商
// GET /api/v1/procurement/packages/:id/eligible-suppliers
func (h *POHandler) EligibleSuppliers(c *gin.Context) {
	supplierIDs, err := h.svc.EligibleSuppliers(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "查询可开单供应商失败")
		return
	}
	Success(c, supplierIDs)
}

// EligibleItems 供应商在采购包下可开单的明细
// GET /api/v1/procurement/packages/:id/eligible-items?supplier_id=xxx
func (h *POHandler) EligibleItems(c *gin.Context) {
	supplierID := c.Query("supplier_id")
	if supplierID == "" {
		BadRequest(c, "缺少 supplier_id 参数")
		return
	}

	items, err := h.svc.EligibleItems(c.Request.Context(), c.Param("id"), supplierID)
	if err != nil {
		writeServiceError(c, err, "查询可开单明细失败")
		return
	}
	Success(c, items)
}

// Preview 预览采购订单（只组装不落库）
// POST /api/v1/procurement/purchase-orders/preview
func (h *POHandler) Preview(c *gin.Context) {
	var req service.AssemblePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Assemble(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err, "组装采购订单失败")
		return
	}

	Success(c, po)
}

// Create 创建采购订单
// POST /api/v1/procurement/purchase-orders
func (h *POHandler) Create(c *gin.Context) {
	var req service.AssemblePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err, "创建采购订单失败")
		return
	}

	Created(c, po)
}

// ChangeStatus 采购订单状态流转
// POST /api/v1/procurement/purchase-orders/:id/status
func (h *POHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err, "状态流转失败")
		return
	}

	Success(c, po)
}
