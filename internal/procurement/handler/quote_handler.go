package handler

import (
	"fmt"
	"io"
	"net/url"

	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// QuoteHandler 报价处理器
type QuoteHandler struct {
	svc *service.QuoteService
}

func NewQuoteHandler(svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

// List 明细下的报价列表
// GET /api/v1/procurement/items/:id/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	quotes, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取报价列表失败")
		return
	}
	Success(c, quotes)
}

// Get 报价详情
// GET /api/v1/procurement/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	quote, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取报价失败")
		return
	}
	Success(c, quote)
}

// BestQuote 明细的最优合规报价
// GET /api/v1/procurement/items/:id/best-quote
func (h *QuoteHandler) BestQuote(c *gin.Context) {
	quote, err := h.svc.BestQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "获取最优报价失败")
		return
	}
	Success(c, quote)
}

// Create 提交报价
// POST /api/v1/procurement/items/:id/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.svc.Create(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err, "提交报价失败")
		return
	}

	Created(c, quote)
}

// Update 更新报价
// PUT /api/v1/procurement/quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	var req service.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "更新报价失败")
		return
	}

	Success(c, quote)
}

// Prefer 设为优选报价
// POST /api/v1/procurement/quotes/:id/prefer
func (h *QuoteHandler) Prefer(c *gin.Context) {
	quote, err := h.svc.Prefer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "设置优选失败")
		return
	}
	Success(c, quote)
}

// BODApprove 董事会批准报价
// POST /api/v1/procurement/quotes/:id/bod-approve
func (h *QuoteHandler) BODApprove(c *gin.Context) {
	quote, err := h.svc.BODApprove(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "批准失败")
		return
	}
	Success(c, quote)
}

// UploadDocument 上传报价附件
// POST /api/v1/procurement/quotes/:id/documents
func (h *QuoteHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请选择上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "读取文件失败: "+err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	quote, err := h.svc.UploadDocument(c.Request.Context(), c.Param("id"),
		fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		writeServiceError(c, err, "上传附件失败")
		return
	}

	Success(c, quote)
}

// DownloadDocument 下载报价附件
// GET /api/v1/procurement/quotes/:id/documents/download?object=xxx
func (h *QuoteHandler) DownloadDocument(c *gin.Context) {
	objectName := c.Query("object")
	if objectName == "" {
		BadRequest(c, "缺少 object 参数")
		return
	}

	reader, err := h.svc.DownloadDocument(c.Request.Context(), c.Param("id"), objectName)
	if err != nil {
		writeServiceError(c, err, "下载附件失败")
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(objectName)))
	if _, err := io.Copy(c.Writer, reader); err != nil {
		InternalError(c, "写出文件失败: "+err.Error())
	}
}
