package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/google/uuid"
)

// EvaluationService 供应商质量评估服务
type EvaluationService struct {
	repo         *repository.EvaluationRepository
	supplierRepo *repository.SupplierRepository
}

func NewEvaluationService(repo *repository.EvaluationRepository, supplierRepo *repository.SupplierRepository) *EvaluationService {
	return &EvaluationService{repo: repo, supplierRepo: supplierRepo}
}

// List 获取评估列表
func (s *EvaluationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SupplierEvaluation, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取评估详情
func (s *EvaluationService) Get(ctx context.Context, id string) (*entity.SupplierEvaluation, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateEvaluationRequest 创建评估请求
type CreateEvaluationRequest struct {
	SupplierID         string     `json:"supplier_id" binding:"required"`
	POID               *string    `json:"po_id"`
	EvalDate           *time.Time `json:"eval_date"`
	DeliveryScore      float64    `json:"delivery_score"`
	QualityScore       float64    `json:"quality_score"`
	DocumentationScore float64    `json:"documentation_score"`
	CommunicationScore float64    `json:"communication_score"`
	Notes              string     `json:"notes"`
}

func validScore(v float64) bool {
	return v >= 0 && v <= 5
}

// Create 创建评估，综合分为四项算术平均
func (s *EvaluationService) Create(ctx context.Context, userID string, req *CreateEvaluationRequest) (*entity.SupplierEvaluation, error) {
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, fmt.Errorf("供应商不存在")
	}

	var invalid []string
	if !validScore(req.DeliveryScore) {
		invalid = append(invalid, "delivery_score")
	}
	if !validScore(req.QualityScore) {
		invalid = append(invalid, "quality_score")
	}
	if !validScore(req.DocumentationScore) {
		invalid = append(invalid, "documentation_score")
	}
	if !validScore(req.CommunicationScore) {
		invalid = append(invalid, "communication_score")
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid}
	}

	overall := (req.DeliveryScore + req.QualityScore + req.DocumentationScore + req.CommunicationScore) / 4

	eval := &entity.SupplierEvaluation{
		ID:                 uuid.New().String()[:32],
		SupplierID:         req.SupplierID,
		POID:               req.POID,
		EvalDate:           req.EvalDate,
		DeliveryScore:      req.DeliveryScore,
		QualityScore:       req.QualityScore,
		DocumentationScore: req.DocumentationScore,
		CommunicationScore: req.CommunicationScore,
		OverallScore:       overall,
		Grade:              entity.CalcGrade(overall),
		EvaluatorID:        userID,
		Notes:              req.Notes,
		Status:             entity.EvalStatusDraft,
	}

	if err := s.repo.Create(ctx, eval); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, eval.ID)
}

// UpdateEvaluationRequest 更新评估请求
type UpdateEvaluationRequest struct {
	DeliveryScore      *float64 `json:"delivery_score"`
	QualityScore       *float64 `json:"quality_score"`
	DocumentationScore *float64 `json:"documentation_score"`
	CommunicationScore *float64 `json:"communication_score"`
	Notes              *string  `json:"notes"`
}

// Update 更新评估并重算综合分
func (s *EvaluationService) Update(ctx context.Context, id string, req *UpdateEvaluationRequest) (*entity.SupplierEvaluation, error) {
	eval, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eval.Status != entity.EvalStatusDraft {
		return nil, fmt.Errorf("评估已提交，不能修改")
	}

	apply := func(field string, dst *float64, src *float64) error {
		if src == nil {
			return nil
		}
		if !validScore(*src) {
			return &ValidationError{Fields: []string{field}}
		}
		*dst = *src
		return nil
	}

	if err := apply("delivery_score", &eval.DeliveryScore, req.DeliveryScore); err != nil {
		return nil, err
	}
	if err := apply("quality_score", &eval.QualityScore, req.QualityScore); err != nil {
		return nil, err
	}
	if err := apply("documentation_score", &eval.DocumentationScore, req.DocumentationScore); err != nil {
		return nil, err
	}
	if err := apply("communication_score", &eval.CommunicationScore, req.CommunicationScore); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		eval.Notes = *req.Notes
	}

	eval.OverallScore = (eval.DeliveryScore + eval.QualityScore + eval.DocumentationScore + eval.CommunicationScore) / 4
	eval.Grade = entity.CalcGrade(eval.OverallScore)

	if err := s.repo.Update(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// Submit 提交评估
func (s *EvaluationService) Submit(ctx context.Context, id string) (*entity.SupplierEvaluation, error) {
	return s.changeStatus(ctx, id, entity.EvalStatusDraft, entity.EvalStatusSubmitted)
}

// Approve 审批评估，同时把供应商综合评分刷新为历史均分
func (s *EvaluationService) Approve(ctx context.Context, id string) (*entity.SupplierEvaluation, error) {
	eval, err := s.changeStatus(ctx, id, entity.EvalStatusSubmitted, entity.EvalStatusApproved)
	if err != nil {
		return nil, err
	}

	avg, err := s.repo.AvgOverallScore(ctx, eval.SupplierID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, eval.SupplierID)
	if err != nil {
		return nil, err
	}
	supplier.Rating = avg
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return eval, nil
}

func (s *EvaluationService) changeStatus(ctx context.Context, id, from, to string) (*entity.SupplierEvaluation, error) {
	eval, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eval.Status != from {
		return nil, &TransitionError{From: eval.Status, To: to}
	}

	eval.Status = to
	if err := s.repo.Update(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}
