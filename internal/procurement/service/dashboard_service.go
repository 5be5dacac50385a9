package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardService aggregate counters for the landing page. Counts hit the
// database directly; the summary is cached briefly in redis since it backs
// every page load.
type DashboardService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, logger: logger}
}

// DashboardSummary landing page counters
type DashboardSummary struct {
	OpenPOCount       int64 `json:"open_po_count"`
	ClosedPOCount     int64 `json:"closed_po_count"`
	PendingApprovals  int64 `json:"pending_approvals"`
	AvailablePreGRs   int64 `json:"available_pre_grs"`
	OpenGQRCount      int64 `json:"open_gqr_count"`
	FinalizedGQRCount int64 `json:"finalized_gqr_count"`
	TallyPendingPOs   int64 `json:"tally_pending_pos"`
	SupplierCount     int64 `json:"supplier_count"`
}

// Summary returns the counters, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var sum DashboardSummary
			if json.Unmarshal([]byte(cached), &sum) == nil {
				return &sum, nil
			}
		}
	}

	var sum DashboardSummary
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&sum.OpenPOCount, s.db.Model(&entity.PurchaseOrder{}).Where("po_closed = ?", false)},
		{&sum.ClosedPOCount, s.db.Model(&entity.PurchaseOrder{}).Where("po_closed = ?", true)},
		{&sum.PendingApprovals, s.db.Model(&entity.PreGREntry{}).Where("is_admin_approved = ?", false)},
		{&sum.AvailablePreGRs, s.db.Model(&entity.PreGREntry{}).Where("is_admin_approved = ? AND is_gqr_created = ?", true, false)},
		{&sum.OpenGQRCount, s.db.Model(&entity.GQREntry{}).Where("gqr_status = ?", entity.GQRStatusOpen)},
		{&sum.FinalizedGQRCount, s.db.Model(&entity.GQREntry{}).Where("gqr_status = ?", entity.GQRStatusClosed)},
		{&sum.TallyPendingPOs, s.db.Model(&entity.PurchaseOrder{}).Where("tally_posted = ?", false)},
		{&sum.SupplierCount, s.db.Model(&entity.Supplier{}).Where("status = ?", "active")},
	}
	for _, c := range counts {
		if err := c.query.WithContext(ctx).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(&sum); err == nil {
			if err := s.rdb.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
			}
		}
	}
	return &sum, nil
}
