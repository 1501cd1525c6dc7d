package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"gorm.io/gorm"
)

// PackageRepository 采购包仓库
type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// FindAll 查询采购包列表
func (r *PackageRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Package, int64, error) {
	var items []entity.Package
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Package{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if engineerID := filters["engineer_id"]; engineerID != "" {
		query = query.Where("engineer_id = ?", engineerID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Engineer").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找采购包（含行项）
func (r *PackageRepository) FindByID(ctx context.Context, id string) (*entity.Package, error) {
	var pkg entity.Package
	err := r.db.WithContext(ctx).
		Preload("Engineer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

// Create 创建采购包
func (r *PackageRepository) Create(ctx context.Context, pkg *entity.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// Update 更新采购包
func (r *PackageRepository) Update(ctx context.Context, pkg *entity.Package) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

// CountItems 行项统计：总数与未报价数（open = 未交付且无任何报价）
func (r *PackageRepository) CountItems(ctx context.Context, packageID string) (total, open int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&entity.Item{}).
		Where("package_id = ?", packageID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	err = r.db.WithContext(ctx).
		Model(&entity.Item{}).
		Where("package_id = ? AND delivered = false", packageID).
		Where("NOT EXISTS (SELECT 1 FROM proc_quotes q WHERE q.item_id = proc_items.id)").
		Count(&open).Error
	return total, open, err
}

// GenerateCode 生成采购包编码 PKG-{year}-{4位}
func (r *PackageRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("PKG-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Package{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "PKG-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("PKG-%s-%04d", year, seq), nil
}
