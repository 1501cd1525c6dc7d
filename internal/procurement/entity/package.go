package entity

import "time"

// Package 采购包（一组待询价的物项）
type Package struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Code        string     `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name        string     `json:"name" gorm:"size:200;not null"`
	Description string     `json:"description" gorm:"type:text"`
	EngineerID  string     `json:"engineer_id" gorm:"size:32;index"`
	Status      string     `json:"status" gorm:"size:20;default:open"` // open/in_progress/completed/cancelled
	BODApproved bool       `json:"bod_approved" gorm:"default:false"`
	DueDate     *time.Time `json:"due_date"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 行项统计为派生值，读取时计算，不落库
	TotalItemCount int `json:"total_item_count" gorm:"-"`
	OpenItemCount  int `json:"open_item_count" gorm:"-"`

	// 关联
	Engineer *Engineer `json:"engineer,omitempty" gorm:"foreignKey:EngineerID"`
	Items    []Item    `json:"items,omitempty" gorm:"foreignKey:PackageID"`
}

func (Package) TableName() string {
	return "proc_packages"
}

// 采购包状态
const (
	PackageStatusOpen       = "open"
	PackageStatusInProgress = "in_progress"
	PackageStatusCompleted  = "completed"
	PackageStatusCancelled  = "cancelled"
)

// ValidPackageTransitions 采购包状态机：单向推进，未完结状态可取消
var ValidPackageTransitions = map[string][]string{
	PackageStatusOpen:       {PackageStatusInProgress, PackageStatusCancelled},
	PackageStatusInProgress: {PackageStatusCompleted, PackageStatusCancelled},
	PackageStatusCompleted:  {},
	PackageStatusCancelled:  {},
}

// CanTransitionPackage 校验采购包状态流转是否合法
func CanTransitionPackage(from, to string) bool {
	for _, s := range ValidPackageTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
