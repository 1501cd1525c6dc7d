package handler

import (
	"fmt"
	"net/url"

	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// PackageHandler 采购包处理器
type PackageHandler struct {
	svc       *service.PackageService
	exportSvc *service.ExportService
}

func NewPackageHandler(svc *service.PackageService, exportSvc *service.ExportService) *PackageHandler {
	return &PackageHandler{svc: svc, exportSvc: exportSvc}
}

// List 采购包列表
// GET /api/v1/procurement/packages?status=xxx&engineer_id=xxx&search=xxx
func (h *PackageHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":      c.Query("status"),
		"engineer_id": c.Query("engineer_id"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取采购包列表失败: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// Get 采购包详情
// GET /api/v1/procurement/packages/:id
func (h *PackageHandler) Get(c *gin.Context) {
	pkg, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "采购包不存在")
		return
	}
	Success(c, pkg)
}

// Create 创建采购包
// POST /api/v1/procurement/packages
func (h *PackageHandler) Create(c *gin.Context) {
	var req service.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	pkg, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err, "创建采购包失败")
		return
	}

	Created(c, pkg)
}

// Update 更新采购包
// PUT /api/v1/procurement/packages/:id
func (h *PackageHandler) Update(c *gin.Context) {
	var req service.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	pkg, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "更新采购包失败")
		return
	}

	Success(c, pkg)
}

// ChangeStatus 采购包状态流转
// POST /api/v1/procurement/packages/:id/status
func (h *PackageHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	pkg, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err, "状态流转失败")
		return
	}

	Success(c, pkg)
}

// BODApprove 董事会批准采购包
// POST /api/v1/procurement/packages/:id/bod-approve
func (h *PackageHandler) BODApprove(c *gin.Context) {
	pkg, err := h.svc.BODApprove(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "批准失败")
		return
	}
	Success(c, pkg)
}

// Summary 采购包汇总
// GET /api/v1/procurement/packages/:id/summary
func (h *PackageHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取汇总失败")
		return
	}
	Success(c, summary)
}

// ExportCBE 导出评标对比表
// GET /api/v1/procurement/packages/:id/cbe-export
func (h *PackageHandler) ExportCBE(c *gin.Context) {
	f, filename, err := h.exportSvc.ExportCBE(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "导出失败")
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "写出文件失败: "+err.Error())
	}
}
