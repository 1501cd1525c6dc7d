package entity

import "time"

// PurchaseOrder 采购订单
type PurchaseOrder struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	POCode     string `json:"po_code" gorm:"size:32;uniqueIndex;not null"`
	PackageID  string `json:"package_id" gorm:"size:32;not null;index"`
	SupplierID string `json:"supplier_id" gorm:"size:32;not null;index"`
	Status     string `json:"status" gorm:"size:20;default:draft"` // draft/issued/signed/cancelled

	// 金额（单一币种）
	TotalValue float64 `json:"total_value" gorm:"type:decimal(15,2)"`
	Currency   string  `json:"currency" gorm:"size:10;not null"`

	// 条款
	DeliveryTerm string     `json:"delivery_term" gorm:"size:10"`
	DeliveryDate *time.Time `json:"delivery_date"`
	PaymentTerms string     `json:"payment_terms" gorm:"size:100"`
	IssueDate    *time.Time `json:"issue_date"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Lines    []POLine  `json:"lines,omitempty" gorm:"foreignKey:POID"`
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (PurchaseOrder) TableName() string {
	return "proc_purchase_orders"
}

// PO状态
const (
	POStatusDraft     = "draft"
	POStatusIssued    = "issued"
	POStatusSigned    = "signed"
	POStatusCancelled = "cancelled"
)

// ValidPOTransitions 采购订单状态机
var ValidPOTransitions = map[string][]string{
	POStatusDraft:     {POStatusIssued, POStatusCancelled},
	POStatusIssued:    {POStatusSigned, POStatusCancelled},
	POStatusSigned:    {},
	POStatusCancelled: {},
}

// CanTransitionPO 校验PO状态流转是否合法
func CanTransitionPO(from, to string) bool {
	for _, s := range ValidPOTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// POLine 采购订单行项
type POLine struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	POID    string `json:"po_id" gorm:"size:32;not null;index"`
	ItemID  string `json:"item_id" gorm:"size:32;not null"`
	QuoteID string `json:"quote_id" gorm:"size:32"`

	Name      string  `json:"name" gorm:"size:200;not null"`
	Quantity  float64 `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit      string  `json:"unit" gorm:"size:20;default:pcs"`
	UnitPrice float64 `json:"unit_price" gorm:"type:decimal(15,2);not null"`
	LineTotal float64 `json:"line_total" gorm:"type:decimal(15,2);not null"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (POLine) TableName() string {
	return "proc_po_lines"
}
