package handler

import (
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// ItemHandler 采购明细处理器
type ItemHandler struct {
	svc *service.ItemService
}

func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// List 采购包下的明细列表
// GET /api/v1/procurement/packages/:id/items
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取明细列表失败")
		return
	}
	Success(c, items)
}

// Get 明细详情
// GET /api/v1/procurement/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取明细失败")
		return
	}
	Success(c, item)
}

// Create 新增明细
// POST /api/v1/procurement/packages/:id/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "新增明细失败")
		return
	}

	Created(c, item)
}

// Update 更新明细
// PUT /api/v1/procurement/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "更新明细失败")
		return
	}

	Success(c, item)
}

// Deliver 标记明细已交付
// POST /api/v1/procurement/items/:id/deliver
func (h *ItemHandler) Deliver(c *gin.Context) {
	item, err := h.svc.Deliver(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "标记交付失败")
		return
	}
	Success(c, item)
}
