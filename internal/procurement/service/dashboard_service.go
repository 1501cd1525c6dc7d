package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const dashboardCacheKey = "procure:dashboard:summary"
const dashboardCacheTTL = 5 * time.Minute

// DashboardService 采购看板服务，汇总结果走redis缓存
type DashboardService struct {
	db     *gorm.DB
	poRepo *repository.PORepository
	rdb    *redis.Client
}

func NewDashboardService(db *gorm.DB, poRepo *repository.PORepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{db: db, poRepo: poRepo, rdb: rdb}
}

// DashboardSummary 看板汇总
type DashboardSummary struct {
	PackageTotal      int64   `json:"package_total"`
	PackageOpen       int64   `json:"package_open"`
	PackageInProgress int64   `json:"package_in_progress"`
	SupplierTotal     int64   `json:"supplier_total"`
	QuoteTotal        int64   `json:"quote_total"`
	ComplianceRate    float64 `json:"compliance_rate_percent"`
	PODraft           int64   `json:"po_draft"`
	POIssued          int64   `json:"po_issued"`
	GeneratedAt       string  `json:"generated_at"`
}

// Summary 看板汇总，命中缓存直接返回
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var summary DashboardSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		}
	}

	summary := &DashboardSummary{GeneratedAt: time.Now().Format(time.RFC3339)}

	if err := s.db.WithContext(ctx).Model(&entity.Package{}).Count(&summary.PackageTotal).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.Package{}).
		Where("status = ?", entity.PackageStatusOpen).Count(&summary.PackageOpen).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.Package{}).
		Where("status = ?", entity.PackageStatusInProgress).Count(&summary.PackageInProgress).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.Supplier{}).Count(&summary.SupplierTotal).Error; err != nil {
		return nil, err
	}

	var quotes []entity.Quote
	if err := s.db.WithContext(ctx).Find(&quotes).Error; err != nil {
		return nil, err
	}
	summary.QuoteTotal = int64(len(quotes))
	summary.ComplianceRate = PackageComplianceRate(quotes)

	var err error
	if summary.PODraft, err = s.poRepo.Count(ctx, entity.POStatusDraft); err != nil {
		return nil, err
	}
	if summary.POIssued, err = s.poRepo.Count(ctx, entity.POStatusIssued); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL)
		}
	}

	return summary, nil
}
