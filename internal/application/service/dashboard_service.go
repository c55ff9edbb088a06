package service

import (
	"context"
	"time"

	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/cache"
	"github.com/sangkips/shopdesk-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
	cache         cache.Cache
	ttl           time.Duration
	log           *logrus.Logger
	now           Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(dashboardRepo repository.DashboardRepository, c cache.Cache, ttl time.Duration, log *logrus.Logger, now Clock) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		cache:         c,
		ttl:           ttl,
		log:           log,
		now:           clockOrNow(now),
	}
}

// OutstandingSummary is the unpaid side of bills (receivables) or
// invoices (payables).
type OutstandingSummary struct {
	Total     decimal.Decimal `json:"total"`
	Documents int64           `json:"documents"`
	Overdue   int64           `json:"overdue"`
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	Shops         int64              `json:"shops"`
	Suppliers     int64              `json:"suppliers"`
	OpenTickets   int64              `json:"open_tickets"`
	OpenWarnings  int64              `json:"open_warnings"`
	CriticalCases int64              `json:"critical_cases"`
	Receivables   OutstandingSummary `json:"receivables"`
	Payables      OutstandingSummary `json:"payables"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// GetDashboardStats returns the cached summary or computes a fresh one
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var cached DashboardStats
	hit, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
	if err != nil {
		logger.LogError(s.log, "DashboardService", "GetDashboardStats", "read dashboard cache", dashboardCacheKey, err)
	}
	if hit {
		return &cached, nil
	}

	now := s.now()
	asOf := dateOnly(now)

	counts, err := s.dashboardRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	receivables, err := s.dashboardRepo.Receivables(ctx, asOf)
	if err != nil {
		return nil, err
	}
	payables, err := s.dashboardRepo.Payables(ctx, asOf)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Shops:         counts.Shops,
		Suppliers:     counts.Suppliers,
		OpenTickets:   counts.OpenTickets,
		OpenWarnings:  counts.OpenWarnings,
		CriticalCases: counts.CriticalCases,
		Receivables:   OutstandingSummary(*receivables),
		Payables:      OutstandingSummary(*payables),
		GeneratedAt:   now,
	}

	if s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, s.ttl); err != nil {
			logger.LogError(s.log, "DashboardService", "GetDashboardStats", "write dashboard cache", dashboardCacheKey, err)
		}
	}
	return stats, nil
}
