package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

const (
	lowStockThreshold = 5
	topStockCount     = 5
)

type DashboardStats struct {
	TotalProducts int             `json:"total_products"`
	TotalSKUs     int             `json:"total_skus"`
	TotalStock    int             `json:"total_stock"`
	LowStock      int             `json:"low_stock"`
	OutOfStock    int             `json:"out_of_stock"`
	TopStocked    []model.Variant `json:"top_stocked"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context, sessionID string) (*DashboardStats, error)
}

type dashboardService struct {
	sessions SessionStore
	logger   *zap.Logger
}

func NewDashboardService(sessions SessionStore, logger *zap.Logger) DashboardService {
	return &dashboardService{sessions: sessions, logger: logger}
}

// GetDashboard reads the live catalog; the session snapshot is refreshed as a side effect.
func (s *dashboardService) GetDashboard(ctx context.Context, sessionID string) (*DashboardStats, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	idx, err := refreshCatalog(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return computeDashboard(idx.Products(), idx.Variants()), nil
}

func computeDashboard(products []model.Product, variants []model.Variant) *DashboardStats {
	stats := &DashboardStats{
		TotalProducts: len(products),
		TotalSKUs:     len(variants),
	}
	for _, v := range variants {
		stats.TotalStock += v.StockQuantity
		switch {
		case v.StockQuantity == 0:
			stats.OutOfStock++
		case v.StockQuantity > 0 && v.StockQuantity < lowStockThreshold:
			stats.LowStock++
		}
	}

	sorted := slices.Clone(variants)
	slices.SortStableFunc(sorted, func(a, b model.Variant) int {
		return cmp.Compare(b.StockQuantity, a.StockQuantity)
	})
	if len(sorted) > topStockCount {
		sorted = sorted[:topStockCount]
	}
	stats.TopStocked = sorted
	return stats
}
