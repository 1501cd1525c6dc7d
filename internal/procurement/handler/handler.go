package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/bitfantasy/procure/internal/shared/wizard"
	"github.com/gin-gonic/gin"
)

// Handlers 采购处理器集合
type Handlers struct {
	Package     *PackageHandler
	Item        *ItemHandler
	Supplier    *SupplierHandler
	Quote       *QuoteHandler
	Approval    *ApprovalHandler
	PO          *POHandler
	Evaluation  *EvaluationHandler
	Declaration *DeclarationHandler
	Dashboard   *DashboardHandler
}

// NewHandlers 创建采购处理器集合
func NewHandlers(
	pkgSvc *service.PackageService,
	itemSvc *service.ItemService,
	supplierSvc *service.SupplierService,
	quoteSvc *service.QuoteService,
	approvalSvc *service.ApprovalService,
	poSvc *service.POService,
	evalSvc *service.EvaluationService,
	declSvc *service.DeclarationService,
	exportSvc *service.ExportService,
	dashboardSvc *service.DashboardService,
) *Handlers {
	return &Handlers{
		Package:     NewPackageHandler(pkgSvc, exportSvc),
		Item:        NewItemHandler(itemSvc),
		Supplier:    NewSupplierHandler(supplierSvc),
		Quote:       NewQuoteHandler(quoteSvc),
		Approval:    NewApprovalHandler(approvalSvc),
		PO:          NewPOHandler(poSvc),
		Evaluation:  NewEvaluationHandler(evalSvc),
		Declaration: NewDeclarationHandler(declSvc),
		Dashboard:   NewDashboardHandler(dashboardSvc),
	}
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

// writeServiceError 按错误类型选择响应码
func writeServiceError(c *gin.Context, err error, action string) {
	var vErr *service.ValidationError
	var inErr *service.IneligibleItemError
	var mcErr *service.MixedCurrencyError
	var trErr *service.TransitionError
	var wErr *wizard.ValidationError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, action+": 记录不存在")
	case errors.As(err, &vErr), errors.As(err, &inErr), errors.As(err, &mcErr), errors.As(err, &trErr), errors.As(err, &wErr):
		BadRequest(c, action+": "+err.Error())
	default:
		InternalError(c, action+": "+err.Error())
	}
}

func listResponse(items interface{}, page, pageSize int, total int64) ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}
}
