package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"gorm.io/gorm"
)

// EvaluationRepository 供应商评估仓库
type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// FindAll 查询评估列表
func (r *EvaluationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SupplierEvaluation, int64, error) {
	var items []entity.SupplierEvaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupplierEvaluation{})

	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找评估
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*entity.SupplierEvaluation, error) {
	var eval entity.SupplierEvaluation
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("id = ?", id).
		First(&eval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eval, nil
}

// Create 创建评估
func (r *EvaluationRepository) Create(ctx context.Context, eval *entity.SupplierEvaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

// Update 更新评估
func (r *EvaluationRepository) Update(ctx context.Context, eval *entity.SupplierEvaluation) error {
	return r.db.WithContext(ctx).Save(eval).Error
}

// FindBySupplier 查询某供应商的评估历史
func (r *EvaluationRepository) FindBySupplier(ctx context.Context, supplierID string) ([]entity.SupplierEvaluation, error) {
	var items []entity.SupplierEvaluation
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// AvgOverallScore 供应商已审批评估的平均综合分
func (r *EvaluationRepository) AvgOverallScore(ctx context.Context, supplierID string) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&entity.SupplierEvaluation{}).
		Select("COALESCE(AVG(overall_score), 0)").
		Where("supplier_id = ? AND status = ?", supplierID, entity.EvalStatusApproved).
		Scan(&avg).Error
	return avg, err
}
