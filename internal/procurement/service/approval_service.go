package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/google/uuid"
)

// ApprovalService 审批服务
// 状态机：pending→approved、pending→rejected、rejected→approved（允许重新批准）、
// approved→approved（幂等覆盖备注）。approved→rejected 不开放。
type ApprovalService struct {
	approvalRepo *repository.ApprovalRepository
	pkgRepo      *repository.PackageRepository
	quoteRepo    *repository.QuoteRepository
}

func NewApprovalService(
	approvalRepo *repository.ApprovalRepository,
	pkgRepo *repository.PackageRepository,
	quoteRepo *repository.QuoteRepository,
) *ApprovalService {
	return &ApprovalService{
		approvalRepo: approvalRepo,
		pkgRepo:      pkgRepo,
		quoteRepo:    quoteRepo,
	}
}

// SubmitApprovalRequest 提交审批请求
type SubmitApprovalRequest struct {
	Decision       string `json:"decision" binding:"required"`
	Comments       string `json:"comments" binding:"required"`
	RiskAssessment string `json:"risk_assessment"`
	Conditions     string `json:"conditions"`
}

// Submit 提交审批，按 (package_id, supplier_id) 覆盖写入
func (s *ApprovalService) Submit(ctx context.Context, packageID, supplierID, userID string, req *SubmitApprovalRequest) (*entity.Approval, error) {
	var missing []string
	if req.Decision == "" || !entity.ValidDecision(req.Decision) {
		missing = append(missing, "decision")
	}
	if req.Comments == "" {
		missing = append(missing, "comments")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	if _, err := s.pkgRepo.FindByID(ctx, packageID); err != nil {
		return nil, fmt.Errorf("采购包不存在")
	}

	// 已批准的供应商不允许改判为拒绝
	existing, err := s.approvalRepo.FindByKey(ctx, packageID, supplierID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Decision == entity.DecisionApproved && req.Decision == entity.DecisionRejected {
		return nil, &ValidationError{Fields: []string{"decision"}}
	}

	now := time.Now()
	a := &entity.Approval{
		ID:             uuid.New().String()[:32],
		PackageID:      packageID,
		SupplierID:     supplierID,
		Decision:       req.Decision,
		Comments:       req.Comments,
		RiskAssessment: req.RiskAssessment,
		Conditions:     req.Conditions,
		ApprovedBy:     userID,
		ApprovedAt:     &now,
	}

	if err := s.approvalRepo.Upsert(ctx, a); err != nil {
		return nil, fmt.Errorf("保存审批记录失败: %w", err)
	}
	return a, nil
}

// Status 查询审批状态，未记录视为pending
func (s *ApprovalService) Status(ctx context.Context, packageID, supplierID string) (string, error) {
	a, err := s.approvalRepo.FindByKey(ctx, packageID, supplierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.DecisionPending, nil
		}
		return "", err
	}
	return a.Decision, nil
}

// List 查询采购包的全部审批记录
func (s *ApprovalService) List(ctx context.Context, packageID string) ([]entity.Approval, error) {
	return s.approvalRepo.FindByPackage(ctx, packageID)
}

// PackageApprovalStatus 采购包审批汇总
type PackageApprovalStatus struct {
	PackageID    string            `json:"package_id"`
	Suppliers    map[string]string `json:"suppliers"` // supplier_id -> decision
	AllApproved  bool              `json:"all_approved"`
	SupplierSeen int               `json:"supplier_count"`
}

// PackageStatus 包内全部报价供应商的审批状态汇总，
// 全部approved时采购包才可进入下单阶段
func (s *ApprovalService) PackageStatus(ctx context.Context, packageID string) (*PackageApprovalStatus, error) {
	quotes, err := s.quoteRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	status := &PackageApprovalStatus{
		PackageID: packageID,
		Suppliers: map[string]string{},
	}

	for _, q := range quotes {
		if _, ok := status.Suppliers[q.SupplierID]; ok {
			continue
		}
		decision, err := s.Status(ctx, packageID, q.SupplierID)
		if err != nil {
			return nil, err
		}
		status.Suppliers[q.SupplierID] = decision
	}

	status.SupplierSeen = len(status.Suppliers)
	status.AllApproved = status.SupplierSeen > 0
	for _, d := range status.Suppliers {
		if d != entity.DecisionApproved {
			status.AllApproved = false
			break
		}
	}

	return status, nil
}

// AllSuppliersApproved 给定供应商集合是否全部批准
func (s *ApprovalService) AllSuppliersApproved(ctx context.Context, packageID string, supplierIDs []string) (bool, error) {
	if len(supplierIDs) == 0 {
		return false, nil
	}
	for _, sid := range supplierIDs {
		decision, err := s.Status(ctx, packageID, sid)
		if err != nil {
			return false, err
		}
		if decision != entity.DecisionApproved {
			return false, nil
		}
	}
	return true, nil
}
