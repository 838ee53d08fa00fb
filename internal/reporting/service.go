package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/znforge/pos-backend/pkg/errors"
)

const topProductsWindow = 30 * 24 * time.Hour

var growthScale = decimal.NewFromInt(100)

// Service aggregates read-only sales metrics for the dashboard.
type Service interface {
	DashboardStats(ctx context.Context, businessID uuid.UUID) (*DashboardStats, error)
	TopProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]TopProduct, error)
	LowStockProducts(ctx context.Context, businessID uuid.UUID) ([]LowStockProduct, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs the reporting service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reporting repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// DashboardStats compares today's completed sales against yesterday's.
// "Today" starts at local midnight; a zero baseline reports zero growth so
// the math can never divide by zero.
func (s *service) DashboardStats(ctx context.Context, businessID uuid.UUID) (*DashboardStats, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	todayTotal, todayCount, err := s.repo.SumSalesBetween(ctx, businessID, todayStart, tomorrowStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating today's sales")
	}
	yesterdayTotal, yesterdayCount, err := s.repo.SumSalesBetween(ctx, businessID, yesterdayStart, todayStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating yesterday's sales")
	}
	lowStockCount, err := s.repo.LowStockCount(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting low stock")
	}

	todayAvg := averageSale(todayTotal, todayCount)
	yesterdayAvg := averageSale(yesterdayTotal, yesterdayCount)

	return &DashboardStats{
		TodaySales:        todayTotal.StringFixed(2),
		TodayTransactions: todayCount,
		AverageSale:       todayAvg.StringFixed(2),
		LowStockCount:     lowStockCount,
		TodayGrowth:       growth(todayTotal, yesterdayTotal).StringFixed(1),
		TransactionGrowth: growth(decimal.NewFromInt(todayCount), decimal.NewFromInt(yesterdayCount)).StringFixed(1),
		AverageGrowth:     growth(todayAvg, yesterdayAvg).StringFixed(1),
	}, nil
}

// TopProducts ranks products by revenue over the trailing thirty days.
func (s *service) TopProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	since := s.now().Add(-topProductsWindow)
	rows, err := s.repo.TopProductsSince(ctx, businessID, since, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ranking products")
	}

	out := make([]TopProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			SoldCount: row.SoldCount,
			Revenue:   row.Revenue.StringFixed(2),
		})
	}
	return out, nil
}

// LowStockProducts lists active products at or below their threshold.
func (s *service) LowStockProducts(ctx context.Context, businessID uuid.UUID) ([]LowStockProduct, error) {
	rows, err := s.repo.LowStock(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock")
	}

	out := make([]LowStockProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, LowStockProduct{
			ProductID:         row.ID,
			Name:              row.Name,
			Stock:             row.Stock,
			LowStockThreshold: row.LowStockThreshold,
		})
	}
	return out, nil
}

func averageSale(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}

func growth(current, baseline decimal.Decimal) decimal.Decimal {
	if baseline.IsZero() {
		return decimal.Zero
	}
	return current.Sub(baseline).Div(baseline).Mul(growthScale).Round(1)
}
