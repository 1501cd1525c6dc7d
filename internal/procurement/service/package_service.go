package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/google/uuid"
)

// PackageService 采购包服务
type PackageService struct {
	pkgRepo   *repository.PackageRepository
	itemRepo  *repository.ItemRepository
	quoteRepo *repository.QuoteRepository
	engRepo   *repository.EngineerRepository
}

func NewPackageService(
	pkgRepo *repository.PackageRepository,
	itemRepo *repository.ItemRepository,
	quoteRepo *repository.QuoteRepository,
	engRepo *repository.EngineerRepository,
) *PackageService {
	return &PackageService{
		pkgRepo:   pkgRepo,
		itemRepo:  itemRepo,
		quoteRepo: quoteRepo,
		engRepo:   engRepo,
	}
}

// List 获取采购包列表（行项统计为派生值）
func (s *PackageService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Package, int64, error) {
	pkgs, total, err := s.pkgRepo.FindAll(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range pkgs {
		if err := s.fillItemCounts(ctx, &pkgs[i]); err != nil {
			return nil, 0, err
		}
	}
	return pkgs, total, nil
}

// Get 获取采购包详情
func (s *PackageService) Get(ctx context.Context, id string) (*entity.Package, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fillItemCounts(ctx, pkg); err != nil {
		return nil, err
	}

	quotes, err := s.quoteRepo.FindByPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	grouped := GroupQuotesByItem(quotes)
	for i := range pkg.Items {
		pkg.Items[i].Status = entity.ItemStatus(&pkg.Items[i], grouped[pkg.Items[i].ID])
	}
	return pkg, nil
}

func (s *PackageService) fillItemCounts(ctx context.Context, pkg *entity.Package) error {
	total, open, err := s.pkgRepo.CountItems(ctx, pkg.ID)
	if err != nil {
		return err
	}
	pkg.TotalItemCount = int(total)
	pkg.OpenItemCount = int(open)
	return nil
}

// CreatePackageRequest 创建采购包请求
type CreatePackageRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	EngineerID  string     `json:"engineer_id" binding:"required"`
	DueDate     *time.Time `json:"due_date"`
}

// Create 创建采购包
func (s *PackageService) Create(ctx context.Context, userID string, req *CreatePackageRequest) (*entity.Package, error) {
	if _, err := s.engRepo.FindByID(ctx, req.EngineerID); err != nil {
		return nil, fmt.Errorf("采购工程师不存在")
	}

	code, err := s.pkgRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成采购包编码失败: %w", err)
	}

	pkg := &entity.Package{
		ID:          uuid.New().String()[:32],
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		EngineerID:  req.EngineerID,
		Status:      entity.PackageStatusOpen,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}

	if err := s.pkgRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return s.pkgRepo.FindByID(ctx, pkg.ID)
}

// UpdatePackageRequest 更新采购包请求
type UpdatePackageRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	EngineerID  *string    `json:"engineer_id"`
	DueDate     *time.Time `json:"due_date"`
}

// Update 更新采购包
func (s *PackageService) Update(ctx context.Context, id string, req *UpdatePackageRequest) (*entity.Package, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.EngineerID != nil {
		if _, err := s.engRepo.FindByID(ctx, *req.EngineerID); err != nil {
			return nil, fmt.Errorf("采购工程师不存在")
		}
		pkg.EngineerID = *req.EngineerID
	}
	if req.DueDate != nil {
		pkg.DueDate = req.DueDate
	}

	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// ChangeStatus 采购包状态流转（单向推进，未完结可取消）
func (s *PackageService) ChangeStatus(ctx context.Context, id, status string) (*entity.Package, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionPackage(pkg.Status, status) {
		return nil, &TransitionError{From: pkg.Status, To: status}
	}

	pkg.Status = status
	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// BODApprove 标记采购包董事会批准
func (s *PackageService) BODApprove(ctx context.Context, id string) (*entity.Package, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pkg.BODApproved = true
	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// PackageSummary 采购包汇总
type PackageSummary struct {
	PackageID             string                 `json:"package_id"`
	TotalItemCount        int                    `json:"total_item_count"`
	OpenItemCount         int                    `json:"open_item_count"`
	QuoteCount            int                    `json:"quote_count"`
	ComplianceRatePercent float64                `json:"compliance_rate_percent"`
	SupplierRollups       []SupplierRollupResult `json:"supplier_rollups"`
}

// Summary 采购包汇总：行项统计、合规率、按供应商的报价汇总
func (s *PackageService) Summary(ctx context.Context, id string) (*PackageSummary, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindByPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.FindByPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	total, open, err := s.pkgRepo.CountItems(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &PackageSummary{
		PackageID:             pkg.ID,
		TotalItemCount:        int(total),
		OpenItemCount:         int(open),
		QuoteCount:            len(quotes),
		ComplianceRatePercent: PackageComplianceRate(quotes),
	}

	grouped := GroupQuotesByItem(quotes)
	seen := map[string]bool{}
	for _, q := range quotes {
		if seen[q.SupplierID] {
			continue
		}
		seen[q.SupplierID] = true
		rollup, err := SupplierRollup(items, grouped, q.SupplierID)
		if err != nil {
			return nil, err
		}
		summary.SupplierRollups = append(summary.SupplierRollups, *rollup)
	}

	return summary, nil
}
