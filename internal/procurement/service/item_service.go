package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/google/uuid"
)

// ItemService 行项服务
type ItemService struct {
	itemRepo  *repository.ItemRepository
	pkgRepo   *repository.PackageRepository
	quoteRepo *repository.QuoteRepository
}

func NewItemService(
	itemRepo *repository.ItemRepository,
	pkgRepo *repository.PackageRepository,
	quoteRepo *repository.QuoteRepository,
) *ItemService {
	return &ItemService{itemRepo: itemRepo, pkgRepo: pkgRepo, quoteRepo: quoteRepo}
}

// List 获取采购包下的行项（状态为派生值）
func (s *ItemService) List(ctx context.Context, packageID string) ([]entity.Item, error) {
	items, err := s.itemRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quoteRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	grouped := GroupQuotesByItem(quotes)
	for i := range items {
		items[i].Status = entity.ItemStatus(&items[i], grouped[items[i].ID])
	}
	return items, nil
}

// Get 获取行项详情
func (s *ItemService) Get(ctx context.Context, id string) (*entity.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quoteRepo.FindByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Status = entity.ItemStatus(item, quotes)
	item.Quotes = quotes
	return item, nil
}

// CreateItemRequest 创建行项请求
type CreateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Specification string  `json:"specification"`
	Quantity      float64 `json:"quantity" binding:"required"`
	Unit          string  `json:"unit"`
	Category      string  `json:"category"`
}

// Create 创建行项
func (s *ItemService) Create(ctx context.Context, packageID string, req *CreateItemRequest) (*entity.Item, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("采购包不存在")
	}
	if pkg.Status == entity.PackageStatusCompleted || pkg.Status == entity.PackageStatusCancelled {
		return nil, fmt.Errorf("采购包已完结，不能新增行项")
	}
	if req.Quantity <= 0 {
		return nil, &ValidationError{Fields: []string{"quantity"}}
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	sortOrder, err := s.itemRepo.NextSortOrder(ctx, packageID)
	if err != nil {
		return nil, err
	}

	item := &entity.Item{
		ID:            uuid.New().String()[:32],
		PackageID:     packageID,
		Name:          req.Name,
		Description:   req.Description,
		Specification: req.Specification,
		Quantity:      req.Quantity,
		Unit:          unit,
		Category:      req.Category,
		SortOrder:     sortOrder,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	item.Status = entity.ItemStatusOpen
	return item, nil
}

// UpdateItemRequest 更新行项请求
type UpdateItemRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Specification *string  `json:"specification"`
	Quantity      *float64 `json:"quantity"`
	Unit          *string  `json:"unit"`
	Category      *string  `json:"category"`
}

// Update 更新行项
func (s *ItemService) Update(ctx context.Context, id string, req *UpdateItemRequest) (*entity.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Specification != nil {
		item.Specification = *req.Specification
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, &ValidationError{Fields: []string{"quantity"}}
		}
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Category != nil {
		item.Category = *req.Category
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Deliver 标记行项已交付（终态，外部触发）
func (s *ItemService) Deliver(ctx context.Context, id string) (*entity.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Delivered = true
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	item.Status = entity.ItemStatusDelivered
	return item, nil
}
