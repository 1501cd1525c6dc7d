package entity

import "time"

// Approval 审批记录，按 (package_id, supplier_id) 唯一，后写覆盖。
// supplier_id 为空表示包级董事会决议。
type Approval struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	PackageID  string `json:"package_id" gorm:"size:32;not null;uniqueIndex:idx_approval_key"`
	SupplierID string `json:"supplier_id" gorm:"size:32;uniqueIndex:idx_approval_key"`

	Decision       string `json:"decision" gorm:"size:20;not null"` // pending/approved/rejected
	Comments       string `json:"comments" gorm:"type:text;not null"`
	RiskAssessment string `json:"risk_assessment" gorm:"type:text"`
	Conditions     string `json:"conditions" gorm:"type:text"`

	ApprovedBy string     `json:"approved_by" gorm:"size:32"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// 关联
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Approval) TableName() string {
	return "proc_approvals"
}

// 审批决议
const (
	DecisionPending  = "pending"
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// ValidDecision 校验决议取值
func ValidDecision(d string) bool {
	switch d {
	case DecisionApproved, DecisionRejected:
		return true
	default:
		return false
	}
}
