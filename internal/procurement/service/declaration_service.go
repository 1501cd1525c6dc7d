package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/bitfantasy/procure/internal/shared/wizard"
	"github.com/google/uuid"
)

// DeclarationSteps 出口报关向导步骤定义
var DeclarationSteps = []wizard.Step{
	{
		Name:     "shipment",
		Fields:   []string{"consignee", "destination_country", "incoterm", "transport_mode"},
		Required: []string{"consignee", "destination_country"},
	},
	{
		Name:     "customs",
		Fields:   []string{"customs_office", "total_value", "currency"},
		Required: []string{"total_value", "currency"},
	},
	{
		Name:     "review",
		Fields:   []string{"notes"},
		Required: []string{},
	},
}

// DeclarationService 出口报关服务。向导会话存于进程内，
// 报关单本身在finalize时落库。
type DeclarationService struct {
	repo    *repository.DeclarationRepository
	pkgRepo *repository.PackageRepository

	mu       sync.Mutex
	sessions map[string]*declarationSession
}

type declarationSession struct {
	PackageID string
	UserID    string
	State     *wizard.State
}

func NewDeclarationService(repo *repository.DeclarationRepository, pkgRepo *repository.PackageRepository) *DeclarationService {
	return &DeclarationService{
		repo:     repo,
		pkgRepo:  pkgRepo,
		sessions: map[string]*declarationSession{},
	}
}

// SessionView 向导会话视图
type SessionView struct {
	SessionID         string            `json:"session_id"`
	PackageID         string            `json:"package_id"`
	StepIndex         int               `json:"step_index"`
	StepName          string            `json:"step_name"`
	StepCount         int               `json:"step_count"`
	Values            map[string]string `json:"values"`
	CompletionPercent int               `json:"completion_percent"`
}

func (s *DeclarationService) view(id string, sess *declarationSession) *SessionView {
	return &SessionView{
		SessionID:         id,
		PackageID:         sess.PackageID,
		StepIndex:         sess.State.Index,
		StepName:          sess.State.Current().Name,
		StepCount:         len(sess.State.Steps),
		Values:            sess.State.Values,
		CompletionPercent: sess.State.CompletionPercent(),
	}
}

// StartSession 为采购包开启报关向导会话
func (s *DeclarationService) StartSession(ctx context.Context, packageID, userID string) (*SessionView, error) {
	if _, err := s.pkgRepo.FindByID(ctx, packageID); err != nil {
		return nil, fmt.Errorf("采购包不存在")
	}

	id := uuid.New().String()[:32]
	sess := &declarationSession{
		PackageID: packageID,
		UserID:    userID,
		State:     wizard.New(DeclarationSteps),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return s.view(id, sess), nil
}

func (s *DeclarationService) session(id string) (*declarationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return sess, nil
}

// SetFields 填写向导字段
func (s *DeclarationService) SetFields(sessionID string, values map[string]string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for k, v := range values {
		sess.State.SetField(k, v)
	}
	s.mu.Unlock()

	return s.view(sessionID, sess), nil
}

// Advance 向导前进
func (s *DeclarationService) Advance(sessionID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	err = sess.State.Advance()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s.view(sessionID, sess), nil
}

// Retreat 向导后退
func (s *DeclarationService) Retreat(sessionID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess.State.Retreat()
	s.mu.Unlock()

	return s.view(sessionID, sess), nil
}

// Progress 查询向导进度
func (s *DeclarationService) Progress(sessionID string) (*SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, sess), nil
}

// Finalize 终结向导并生成报关单
func (s *DeclarationService) Finalize(ctx context.Context, sessionID string) (*entity.ExportDeclaration, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	values, err := sess.State.Finalize()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	totalValue, err := strconv.ParseFloat(values["total_value"], 64)
	if err != nil || totalValue < 0 {
		return nil, &ValidationError{Fields: []string{"total_value"}}
	}
	currency := values["currency"]
	if !entity.ValidCurrency(currency) {
		return nil, &ValidationError{Fields: []string{"currency"}}
	}
	if term := values["incoterm"]; term != "" && !entity.ValidIncoterm(term) {
		return nil, &ValidationError{Fields: []string{"incoterm"}}
	}

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成报关单编码失败: %w", err)
	}

	d := &entity.ExportDeclaration{
		ID:                 uuid.New().String()[:32],
		Code:               code,
		PackageID:          sess.PackageID,
		Consignee:          values["consignee"],
		DestinationCountry: values["destination_country"],
		Incoterm:           values["incoterm"],
		TransportMode:      values["transport_mode"],
		CustomsOffice:      values["customs_office"],
		TotalValue:         totalValue,
		Currency:           currency,
		Status:             entity.DeclarationStatusDraft,
		CreatedBy:          sess.UserID,
		Notes:              values["notes"],
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("创建报关单失败: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return d, nil
}

// List 获取报关单列表
func (s *DeclarationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ExportDeclaration, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取报关单详情
func (s *DeclarationService) Get(ctx context.Context, id string) (*entity.ExportDeclaration, error) {
	return s.repo.FindByID(ctx, id)
}

// ChangeStatus 报关单状态流转 draft→submitted→cleared
func (s *DeclarationService) ChangeStatus(ctx context.Context, id, status string) (*entity.ExportDeclaration, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	valid := (d.Status == entity.DeclarationStatusDraft && status == entity.DeclarationStatusSubmitted) ||
		(d.Status == entity.DeclarationStatusSubmitted && status == entity.DeclarationStatusCleared)
	if !valid {
		return nil, &TransitionError{From: d.Status, To: status}
	}

	d.Status = status
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
