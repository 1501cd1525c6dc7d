package entity

import "time"

// SupplierEvaluation 供应商质量评估（PO履约后打分）
type SupplierEvaluation struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	SupplierID string     `json:"supplier_id" gorm:"size:32;not null;index"`
	POID       *string    `json:"po_id" gorm:"size:32"` // 仅引用，不强校验
	EvalDate   *time.Time `json:"eval_date"`

	// 评分（0-5）
	DeliveryScore      float64 `json:"delivery_score" gorm:"type:decimal(3,1)"`
	QualityScore       float64 `json:"quality_score" gorm:"type:decimal(3,1)"`
	DocumentationScore float64 `json:"documentation_score" gorm:"type:decimal(3,1)"`
	CommunicationScore float64 `json:"communication_score" gorm:"type:decimal(3,1)"`
	OverallScore       float64 `json:"overall_score" gorm:"type:decimal(3,2)"` // 四项算术平均
	Grade              string  `json:"grade" gorm:"size:10"`                   // A/B/C/D

	EvaluatorID string `json:"evaluator_id" gorm:"size:32"`
	Notes       string `json:"notes" gorm:"type:text"`
	Status      string `json:"status" gorm:"size:20;default:draft"` // draft/submitted/approved

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (SupplierEvaluation) TableName() string {
	return "proc_supplier_evaluations"
}

// 评估状态
const (
	EvalStatusDraft     = "draft"
	EvalStatusSubmitted = "submitted"
	EvalStatusApproved  = "approved"
)

// CalcGrade 评估等级（满分5分）
func CalcGrade(score float64) string {
	switch {
	case score >= 4.5:
		return "A"
	case score >= 3.75:
		return "B"
	case score >= 3.0:
		return "C"
	default:
		return "D"
	}
}
