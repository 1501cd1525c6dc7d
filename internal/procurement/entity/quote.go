package entity

import "time"

// Quote 供应商报价
type Quote struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	ItemID     string `json:"item_id" gorm:"size:32;not null;index"`
	SupplierID string `json:"supplier_id" gorm:"size:32;not null;index"`

	// 商务条款
	Price          float64    `json:"price" gorm:"type:decimal(15,2);not null"`
	Currency       string     `json:"currency" gorm:"size:10;not null"` // USD/EUR/GBP/JPY
	DeliveryTerm   string     `json:"delivery_term" gorm:"size:10"`     // Incoterm
	DeliveryDays   int        `json:"delivery_days" gorm:"not null"`
	MaterialOrigin string     `json:"material_origin" gorm:"size:100"`
	ValidUntil     *time.Time `json:"valid_until"`

	// 评标结果
	TechnicalCompliance bool `json:"technical_compliance" gorm:"default:false"`
	IsPreferred         bool `json:"is_preferred" gorm:"default:false"` // 每个行项最多一个
	BODApproved         bool `json:"bod_approved" gorm:"default:false"`

	// 报价附件（对象存储引用）
	Documents *JSONBArray `json:"documents" gorm:"type:jsonb"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Quote) TableName() string {
	return "proc_quotes"
}

// 报价币种
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyJPY = "JPY"
)

// ValidCurrency 校验币种
func ValidCurrency(c string) bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY:
		return true
	default:
		return false
	}
}

// Incoterms 2020 交货条款
const (
	IncotermEXW = "EXW"
	IncotermFCA = "FCA"
	IncotermCPT = "CPT"
	IncotermCIP = "CIP"
	IncotermDAP = "DAP"
	IncotermDPU = "DPU"
	IncotermDDP = "DDP"
	IncotermFOB = "FOB"
	IncotermCFR = "CFR"
	IncotermCIF = "CIF"
)

// ValidIncoterm 校验交货条款
func ValidIncoterm(t string) bool {
	switch t {
	case IncotermEXW, IncotermFCA, IncotermCPT, IncotermCIP, IncotermDAP,
		IncotermDPU, IncotermDDP, IncotermFOB, IncotermCFR, IncotermCIF:
		return true
	default:
		return false
	}
}
