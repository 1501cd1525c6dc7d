package entity

import "time"

// ExportDeclaration 出口报关单（向导流程完成后生成）
type ExportDeclaration struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	Code      string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	PackageID string `json:"package_id" gorm:"size:32;not null;index"`

	Consignee          string `json:"consignee" gorm:"size:200;not null"`
	DestinationCountry string `json:"destination_country" gorm:"size:100;not null"`
	Incoterm           string `json:"incoterm" gorm:"size:10"`
	TransportMode      string `json:"transport_mode" gorm:"size:50"`
	CustomsOffice      string `json:"customs_office" gorm:"size:200"`

	TotalValue float64 `json:"total_value" gorm:"type:decimal(15,2)"`
	Currency   string  `json:"currency" gorm:"size:10"`

	Status    string    `json:"status" gorm:"size:20;default:draft"` // draft/submitted/cleared
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`
}

func (ExportDeclaration) TableName() string {
	return "proc_export_declarations"
}

// 报关单状态
const (
	DeclarationStatusDraft     = "draft"
	DeclarationStatusSubmitted = "submitted"
	DeclarationStatusCleared   = "cleared"
)
