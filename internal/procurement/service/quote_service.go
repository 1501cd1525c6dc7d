package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/bitfantasy/procure/internal/shared/storage"
	"github.com/google/uuid"
)

// QuoteService 报价服务
type QuoteService struct {
	quoteRepo    *repository.QuoteRepository
	itemRepo     *repository.ItemRepository
	supplierRepo *repository.SupplierRepository
	store        *storage.Client
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	itemRepo *repository.ItemRepository,
	supplierRepo *repository.SupplierRepository,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
	}
}

// SetStorage 注入对象存储（为空时仅保留附件元数据）
func (s *QuoteService) SetStorage(store *storage.Client) {
	s.store = store
}

// List 获取行项的报价列表
func (s *QuoteService) List(ctx context.Context, itemID string) ([]entity.Quote, error) {
	return s.quoteRepo.FindByItem(ctx, itemID)
}

// Get 获取报价详情
func (s *QuoteService) Get(ctx context.Context, id string) (*entity.Quote, error) {
	return s.quoteRepo.FindByID(ctx, id)
}

// BestQuote 行项的最优合规报价，无合规报价时返回nil
func (s *QuoteService) BestQuote(ctx context.Context, itemID string) (*entity.Quote, error) {
	quotes, err := s.quoteRepo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return BestCompliantQuote(quotes), nil
}

// CreateQuoteRequest 创建报价请求
type CreateQuoteRequest struct {
	SupplierID     string     `json:"supplier_id" binding:"required"`
	Price          float64    `json:"price"`
	Currency       string     `json:"currency" binding:"required"`
	DeliveryTerm   string     `json:"delivery_term"`
	DeliveryDays   int        `json:"delivery_days" binding:"required"`
	MaterialOrigin string     `json:"material_origin"`
	ValidUntil     *time.Time `json:"valid_until"`
	Notes          string     `json:"notes"`
}

// Create 创建报价
func (s *QuoteService) Create(ctx context.Context, itemID, userID string, req *CreateQuoteRequest) (*entity.Quote, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("行项不存在")
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, fmt.Errorf("供应商不存在")
	}

	var missing []string
	if req.Price < 0 {
		missing = append(missing, "price")
	}
	if !entity.ValidCurrency(req.Currency) {
		missing = append(missing, "currency")
	}
	if req.DeliveryTerm != "" && !entity.ValidIncoterm(req.DeliveryTerm) {
		missing = append(missing, "delivery_term")
	}
	if req.DeliveryDays <= 0 {
		missing = append(missing, "delivery_days")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	q := &entity.Quote{
		ID:             uuid.New().String()[:32],
		ItemID:         itemID,
		SupplierID:     req.SupplierID,
		Price:          req.Price,
		Currency:       req.Currency,
		DeliveryTerm:   req.DeliveryTerm,
		DeliveryDays:   req.DeliveryDays,
		MaterialOrigin: req.MaterialOrigin,
		ValidUntil:     req.ValidUntil,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}

	if err := s.quoteRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return s.quoteRepo.FindByID(ctx, q.ID)
}

// UpdateQuoteRequest 更新报价请求
type UpdateQuoteRequest struct {
	Price               *float64   `json:"price"`
	Currency            *string    `json:"currency"`
	DeliveryTerm        *string    `json:"delivery_term"`
	DeliveryDays        *int       `json:"delivery_days"`
	MaterialOrigin      *string    `json:"material_origin"`
	ValidUntil          *time.Time `json:"valid_until"`
	Notes               *string    `json:"notes"`
	TechnicalCompliance *bool      `json:"technical_compliance"`
}

// Update 更新报价（含技术合规评定）
func (s *QuoteService) Update(ctx context.Context, id string, req *UpdateQuoteRequest) (*entity.Quote, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		if *req.Price < 0 {
			return nil, &ValidationError{Fields: []string{"price"}}
		}
		q.Price = *req.Price
	}
	if req.Currency != nil {
		if !entity.ValidCurrency(*req.Currency) {
			return nil, &ValidationError{Fields: []string{"currency"}}
		}
		q.Currency = *req.Currency
	}
	if req.DeliveryTerm != nil {
		if !entity.ValidIncoterm(*req.DeliveryTerm) {
			return nil, &ValidationError{Fields: []string{"delivery_term"}}
		}
		q.DeliveryTerm = *req.DeliveryTerm
	}
	if req.DeliveryDays != nil {
		if *req.DeliveryDays <= 0 {
			return nil, &ValidationError{Fields: []string{"delivery_days"}}
		}
		q.DeliveryDays = *req.DeliveryDays
	}
	if req.MaterialOrigin != nil {
		q.MaterialOrigin = *req.MaterialOrigin
	}
	if req.ValidUntil != nil {
		q.ValidUntil = req.ValidUntil
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}
	if req.TechnicalCompliance != nil {
		q.TechnicalCompliance = *req.TechnicalCompliance
	}

	if err := s.quoteRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Prefer 设为行项首选报价（同一行项最多一个首选）
func (s *QuoteService) Prefer(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SetPreferred(ctx, q.ItemID, q.ID); err != nil {
		return nil, fmt.Errorf("设置首选报价失败: %w", err)
	}
	return s.quoteRepo.FindByID(ctx, id)
}

// BODApprove 标记报价董事会批准
func (s *QuoteService) BODApprove(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	q.BODApproved = true
	if err := s.quoteRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// UploadDocument 上传报价附件，引用追加到quote.documents
func (s *QuoteService) UploadDocument(ctx context.Context, quoteID, filename string, reader io.Reader, size int64, contentType string) (*entity.Quote, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("quotes/%s/%s%s", quoteID, uuid.New().String()[:8], filepath.Ext(filename))
	if s.store != nil {
		if err := s.store.Put(ctx, objectName, reader, size, contentType); err != nil {
			return nil, fmt.Errorf("上传报价附件失败: %w", err)
		}
	}

	doc := map[string]interface{}{
		"object_name": objectName,
		"filename":    filename,
		"size":        size,
		"uploaded_at": time.Now().Format(time.RFC3339),
	}
	if q.Documents == nil {
		q.Documents = &entity.JSONBArray{}
	}
	*q.Documents = append(*q.Documents, doc)

	if err := s.quoteRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// DownloadDocument 按对象名下载报价附件
func (s *QuoteService) DownloadDocument(ctx context.Context, quoteID, objectName string) (io.ReadCloser, error) {
	if s.store == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}

	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	found := false
	if q.Documents != nil {
		for _, d := range *q.Documents {
			if m, ok := d.(map[string]interface{}); ok && m["object_name"] == objectName {
				found = true
				break
			}
		}
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	return s.store.Get(ctx, objectName)
}
