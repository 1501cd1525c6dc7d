package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/google/uuid"
)

// SupplierService 供应商服务
type SupplierService struct {
	supplierRepo *repository.SupplierRepository
	itemRepo     *repository.ItemRepository
	quoteRepo    *repository.QuoteRepository
}

func NewSupplierService(
	supplierRepo *repository.SupplierRepository,
	itemRepo *repository.ItemRepository,
	quoteRepo *repository.QuoteRepository,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
		quoteRepo:    quoteRepo,
	}
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.supplierRepo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson string  `json:"contact_person"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	Rating        float64 `json:"rating"`
	Notes         string  `json:"notes"`
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	if req.Rating < 0 || req.Rating > 5 {
		return nil, &ValidationError{Fields: []string{"rating"}}
	}

	code, err := s.supplierRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成供应商编码失败: %w", err)
	}

	supplier := &entity.Supplier{
		ID:            uuid.New().String()[:32],
		Code:          code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Rating:        req.Rating,
		Status:        entity.SupplierStatusActive,
		CreatedBy:     userID,
		Notes:         req.Notes,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name          *string  `json:"name"`
	ContactPerson *string  `json:"contact_person"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	Address       *string  `json:"address"`
	Rating        *float64 `json:"rating"`
	Status        *string  `json:"status"`
	Notes         *string  `json:"notes"`
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return nil, &ValidationError{Fields: []string{"rating"}}
		}
		supplier.Rating = *req.Rating
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Rollup 供应商在指定采购包内的报价汇总
func (s *SupplierService) Rollup(ctx context.Context, supplierID, packageID string) (*SupplierRollupResult, error) {
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	return SupplierRollup(items, GroupQuotesByItem(quotes), supplierID)
}
