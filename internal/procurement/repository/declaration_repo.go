package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"gorm.io/gorm"
)

// DeclarationRepository 出口报关单仓库
type DeclarationRepository struct {
	db *gorm.DB
}

func NewDeclarationRepository(db *gorm.DB) *DeclarationRepository {
	return &DeclarationRepository{db: db}
}

// FindAll 查询报关单列表
func (r *DeclarationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ExportDeclaration, int64, error) {
	var items []entity.ExportDeclaration
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ExportDeclaration{})

	if packageID := filters["package_id"]; packageID != "" {
		query = query.Where("package_id = ?", packageID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找报关单
func (r *DeclarationRepository) FindByID(ctx context.Context, id string) (*entity.ExportDeclaration, error) {
	var d entity.ExportDeclaration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create 创建报关单
func (r *DeclarationRepository) Create(ctx context.Context, d *entity.ExportDeclaration) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Update 更新报关单
func (r *DeclarationRepository) Update(ctx context.Context, d *entity.ExportDeclaration) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// GenerateCode 生成报关单编码 ED-{year}-{4位}
func (r *DeclarationRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("ED-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.ExportDeclaration{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "ED-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("ED-%s-%04d", year, seq), nil
}
