package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"gorm.io/gorm"
)

// EngineerRepository 采购工程师仓库
type EngineerRepository struct {
	db *gorm.DB
}

func NewEngineerRepository(db *gorm.DB) *EngineerRepository {
	return &EngineerRepository{db: db}
}

// FindAll 查询工程师列表
func (r *EngineerRepository) FindAll(ctx context.Context) ([]entity.Engineer, error) {
	var items []entity.Engineer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

// FindByID 根据ID查找工程师
func (r *EngineerRepository) FindByID(ctx context.Context, id string) (*entity.Engineer, error) {
	var eng entity.Engineer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&eng).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eng, nil
}

// Create 创建工程师
func (r *EngineerRepository) Create(ctx context.Context, eng *entity.Engineer) error {
	return r.db.WithContext(ctx).Create(eng).Error
}

// Count 工程师总数
func (r *EngineerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Engineer{}).Count(&total).Error
	return total, err
}
