package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 采购仓库集合
type Repositories struct {
	Engineer    *EngineerRepository
	Package     *PackageRepository
	Item        *ItemRepository
	Supplier    *SupplierRepository
	Quote       *QuoteRepository
	Approval    *ApprovalRepository
	PO          *PORepository
	Evaluation  *EvaluationRepository
	Declaration *DeclarationRepository
}

// NewRepositories 创建采购仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Engineer:    NewEngineerRepository(db),
		Package:     NewPackageRepository(db),
		Item:        NewItemRepository(db),
		Supplier:    NewSupplierRepository(db),
		Quote:       NewQuoteRepository(db),
		Approval:    NewApprovalRepository(db),
		PO:          NewPORepository(db),
		Evaluation:  NewEvaluationRepository(db),
		Declaration: NewDeclarationRepository(db),
	}
}
