package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"gorm.io/gorm"
)

// ItemRepository 行项仓库
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// FindByPackage 查询采购包下的行项
func (r *ItemRepository) FindByPackage(ctx context.Context, packageID string) ([]entity.Item, error) {
	var items []entity.Item
	err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

// FindByID 根据ID查找行项
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建行项
func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update 更新行项
func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// NextSortOrder 行项排序号
func (r *ItemRepository) NextSortOrder(ctx context.Context, packageID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&entity.Item{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Where("package_id = ?", packageID).
		Scan(&max).Error
	return max + 1, err
}
