package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"gorm.io/gorm"
)

// QuoteRepository 报价仓库
type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// FindByItem 查询行项的全部报价（录入顺序）
func (r *QuoteRepository) FindByItem(ctx context.Context, itemID string) ([]entity.Quote, error) {
	var quotes []entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&quotes).Error
	return quotes, err
}

// FindByPackage 查询采购包下全部报价
func (r *QuoteRepository) FindByPackage(ctx context.Context, packageID string) ([]entity.Quote, error) {
	var quotes []entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Joins("JOIN proc_items i ON i.id = proc_quotes.item_id").
		Where("i.package_id = ?", packageID).
		Order("proc_quotes.created_at ASC").
		Find(&quotes).Error
	return quotes, err
}

// FindByID 根据ID查找报价
func (r *QuoteRepository) FindByID(ctx context.Context, id string) (*entity.Quote, error) {
	var q entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Create 创建报价
func (r *QuoteRepository) Create(ctx context.Context, q *entity.Quote) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// Update 更新报价
func (r *QuoteRepository) Update(ctx context.Context, q *entity.Quote) error {
	return r.db.WithContext(ctx).Save(q).Error
}

// SetPreferred 设置首选报价，同一行项的其他报价在同一事务内清除首选标记
func (r *QuoteRepository) SetPreferred(ctx context.Context, itemID, quoteID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Quote{}).
			Where("item_id = ? AND id <> ?", itemID, quoteID).
			Update("is_preferred", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Quote{}).
			Where("id = ?", quoteID).
			Update("is_preferred", true).Error
	})
}
