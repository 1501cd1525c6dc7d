package handler

import (
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler 看板处理器
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary 看板概览
// GET /api/v1/procurement/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		InternalError(c, "获取看板数据失败: "+err.Error())
		return
	}
	Success(c, summary)
}
