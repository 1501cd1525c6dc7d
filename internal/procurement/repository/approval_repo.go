package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"gorm.io/gorm"
)

// ApprovalRepository 审批仓库
type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// FindByKey 按 (package_id, supplier_id) 查找审批记录
func (r *ApprovalRepository) FindByKey(ctx context.Context, packageID, supplierID string) (*entity.Approval, error) {
	var a entity.Approval
	err := r.db.WithContext(ctx).
		Where("package_id = ? AND supplier_id = ?", packageID, supplierID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByPackage 查询采购包的全部审批记录
func (r *ApprovalRepository) FindByPackage(ctx context.Context, packageID string) ([]entity.Approval, error) {
	var items []entity.Approval
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("package_id = ?", packageID).
		Order("updated_at DESC").
		Find(&items).Error
	return items, err
}

// Upsert 按键覆盖写入，后写覆盖先写
func (r *ApprovalRepository) Upsert(ctx context.Context, a *entity.Approval) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Approval
		err := tx.Where("package_id = ? AND supplier_id = ?", a.PackageID, a.SupplierID).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(a).Error
			}
			return err
		}

		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		return tx.Save(a).Error
	})
}
