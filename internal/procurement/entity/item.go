package entity

import "time"

// Item 采购包行项
type Item struct {
	ID            string  `json:"id" gorm:"primaryKey;size:32"`
	PackageID     string  `json:"package_id" gorm:"size:32;not null;index"`
	Name          string  `json:"name" gorm:"size:200;not null"`
	Description   string  `json:"description" gorm:"type:text"`
	Specification string  `json:"specification" gorm:"size:500"`
	Quantity      float64 `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit          string  `json:"unit" gorm:"size:20;default:pcs"`
	Category      string  `json:"category" gorm:"size:100"`
	Delivered     bool    `json:"delivered" gorm:"default:false"`
	BODApproved   bool    `json:"bod_approved" gorm:"default:false"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 状态由报价情况派生，读取时计算
	Status string `json:"status" gorm:"-"`

	// 关联
	Quotes []Quote `json:"quotes,omitempty" gorm:"foreignKey:ItemID"`
}

func (Item) TableName() string {
	return "proc_items"
}

// 行项状态（派生）
const (
	ItemStatusOpen      = "open"
	ItemStatusQuoted    = "quoted"
	ItemStatusAwarded   = "awarded"
	ItemStatusDelivered = "delivered"
)

// ItemStatus 根据报价情况派生行项状态。
// delivered为终态；有首选报价即awarded；有报价即quoted；否则open。
func ItemStatus(item *Item, quotes []Quote) string {
	if item.Delivered {
		return ItemStatusDelivered
	}
	for _, q := range quotes {
		if q.IsPreferred {
			return ItemStatusAwarded
		}
	}
	if len(quotes) > 0 {
		return ItemStatusQuoted
	}
	return ItemStatusOpen
}
