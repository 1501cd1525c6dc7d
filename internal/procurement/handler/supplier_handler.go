package handler

import (
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// SupplierHandler 供应商处理器
type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// List 供应商列表
// GET /api/v1/procurement/suppliers?search=xxx&status=xxx
func (h *SupplierHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"status": c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取供应商列表失败: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// Get 供应商详情
// GET /api/v1/procurement/suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "供应商不存在")
		return
	}
	Success(c, supplier)
}

// Create 创建供应商
// POST /api/v1/procurement/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err, "创建供应商失败")
		return
	}

	Created(c, supplier)
}

// Update 更新供应商
// PUT /api/v1/procurement/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "更新供应商失败")
		return
	}

	Success(c, supplier)
}

// Rollup 供应商在某采购包下的报价汇总
// GET /api/v1/procurement/suppliers/:id/rollup?package_id=xxx
func (h *SupplierHandler) Rollup(c *gin.Context) {
	packageID := c.Query("package_id")
	if packageID == "" {
		BadRequest(c, "缺少 package_id 参数")
		return
	}

	result, err := h.svc.Rollup(c.Request.Context(), c.Param("id"), packageID)
	if err != nil {
		writeServiceError(c, err, "获取供应商汇总失败")
		return
	}

	Success(c, result)
}
