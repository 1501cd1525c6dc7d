package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/google/uuid"
)

// POService 采购订单服务
type POService struct {
	poRepo    *repository.PORepository
	pkgRepo   *repository.PackageRepository
	itemRepo  *repository.ItemRepository
	quoteRepo *repository.QuoteRepository
}

func NewPOService(
	poRepo *repository.PORepository,
	pkgRepo *repository.PackageRepository,
	itemRepo *repository.ItemRepository,
	quoteRepo *repository.QuoteRepository,
) *POService {
	return &POService{
		poRepo:    poRepo,
		pkgRepo:   pkgRepo,
		itemRepo:  itemRepo,
		quoteRepo: quoteRepo,
	}
}

// List 获取采购订单列表
func (s *POService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.poRepo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取采购订单详情
func (s *POService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.poRepo.FindByID(ctx, id)
}

// EligibleSuppliers 有BOD批准报价的供应商集合。
// 空集合是合法结果（"No BOD Approved Items"），不报错。
func (s *POService) EligibleSuppliers(ctx context.Context, packageID string) ([]string, error) {
	quotes, err := s.quoteRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	suppliers := []string{}
	for _, q := range quotes {
		if !q.BODApproved || seen[q.SupplierID] {
			continue
		}
		seen[q.SupplierID] = true
		suppliers = append(suppliers, q.SupplierID)
	}
	return suppliers, nil
}

// EligibleItems 供应商在包内可下单的行项：
// 该供应商存在 BOD批准 且 技术合规 的报价，两个条件缺一不可。
func (s *POService) EligibleItems(ctx context.Context, packageID, supplierID string) ([]entity.Item, error) {
	items, err := s.itemRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	grouped := GroupQuotesByItem(quotes)

	var eligible []entity.Item
	for _, item := range items {
		if eligibleQuote(grouped[item.ID], supplierID) != nil {
			eligible = append(eligible, item)
		}
	}
	return eligible, nil
}

// eligibleQuote 供应商在该行项上可成单的报价
func eligibleQuote(quotes []entity.Quote, supplierID string) *entity.Quote {
	for i := range quotes {
		q := &quotes[i]
		if q.SupplierID == supplierID && q.BODApproved && q.TechnicalCompliance {
			return q
		}
	}
	return nil
}

// AssemblePORequest 组装采购订单请求
type AssemblePORequest struct {
	PackageID    string     `json:"package_id" binding:"required"`
	SupplierID   string     `json:"supplier_id" binding:"required"`
	ItemIDs      []string   `json:"item_ids" binding:"required"`
	DeliveryTerm string     `json:"delivery_term"`
	DeliveryDate *time.Time `json:"delivery_date"`
	PaymentTerms string     `json:"payment_terms"`
	Notes        string     `json:"notes"`
}

// Assemble 组装采购订单草稿，不落库。
// 逐项校验可成单资格，金额按可成单报价计算，币种必须一致。
func (s *POService) Assemble(ctx context.Context, userID string, req *AssemblePORequest) (*entity.PurchaseOrder, error) {
	if len(req.ItemIDs) == 0 {
		return nil, &ValidationError{Fields: []string{"item_ids"}}
	}
	if req.DeliveryTerm != "" && !entity.ValidIncoterm(req.DeliveryTerm) {
		return nil, &ValidationError{Fields: []string{"delivery_term"}}
	}

	if _, err := s.pkgRepo.FindByID(ctx, req.PackageID); err != nil {
		return nil, fmt.Errorf("采购包不存在")
	}

	items, err := s.itemRepo.FindByPackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.FindByPackage(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	grouped := GroupQuotesByItem(quotes)

	itemByID := map[string]*entity.Item{}
	for i := range items {
		itemByID[items[i].ID] = &items[i]
	}

	var lineQuotes []*entity.Quote
	var lines []entity.POLine
	poID := uuid.New().String()[:32]
	var totalValue float64

	for i, itemID := range req.ItemIDs {
		item, ok := itemByID[itemID]
		if !ok {
			return nil, &IneligibleItemError{ItemID: itemID}
		}
		q := eligibleQuote(grouped[itemID], req.SupplierID)
		if q == nil {
			return nil, &IneligibleItemError{ItemID: itemID}
		}
		lineQuotes = append(lineQuotes, q)

		lineTotal := q.Price * item.Quantity
		totalValue += lineTotal
		lines = append(lines, entity.POLine{
			ID:        uuid.New().String()[:32],
			POID:      poID,
			ItemID:    item.ID,
			QuoteID:   q.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: q.Price,
			LineTotal: lineTotal,
			SortOrder: i + 1,
		})
	}

	currency, err := singleCurrency(lineQuotes)
	if err != nil {
		return nil, err
	}

	code, err := s.poRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成PO编码失败: %w", err)
	}

	po := &entity.PurchaseOrder{
		ID:           poID,
		POCode:       code,
		PackageID:    req.PackageID,
		SupplierID:   req.SupplierID,
		Status:       entity.POStatusDraft,
		TotalValue:   totalValue,
		Currency:     currency,
		DeliveryTerm: req.DeliveryTerm,
		DeliveryDate: req.DeliveryDate,
		PaymentTerms: req.PaymentTerms,
		CreatedBy:    userID,
		Notes:        req.Notes,
		Lines:        lines,
	}
	return po, nil
}

// Create 组装并持久化采购订单
func (s *POService) Create(ctx context.Context, userID string, req *AssemblePORequest) (*entity.PurchaseOrder, error) {
	po, err := s.Assemble(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("创建采购订单失败: %w", err)
	}
	return s.poRepo.FindByID(ctx, po.ID)
}

// ChangeStatus 采购订单状态流转
func (s *POService) ChangeStatus(ctx context.Context, id, status string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionPO(po.Status, status) {
		return nil, &TransitionError{From: po.Status, To: status}
	}

	po.Status = status
	if status == entity.POStatusIssued {
		now := time.Now()
		po.IssueDate = &now
	}

	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}
