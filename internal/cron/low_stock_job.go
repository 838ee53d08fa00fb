package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/znforge/pos-backend/internal/reporting"
	"github.com/znforge/pos-backend/pkg/logger"
)

type businessLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type lowStockReader interface {
	LowStockProducts(ctx context.Context, businessID uuid.UUID) ([]reporting.LowStockProduct, error)
}

// LowStockJob walks every business and logs the products that sit at or
// below their restock threshold so operators get a daily restock digest.
type LowStockJob struct {
	logg       *logger.Logger
	businesses businessLister
	reports    lowStockReader
}

// NewLowStockJob wires the job dependencies.
func NewLowStockJob(logg *logger.Logger, businesses businessLister, reports lowStockReader) (*LowStockJob, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if businesses == nil {
		return nil, fmt.Errorf("business lister required")
	}
	if reports == nil {
		return nil, fmt.Errorf("low stock reader required")
	}
	return &LowStockJob{logg: logg, businesses: businesses, reports: reports}, nil
}

// Name identifies the job in logs and metrics.
func (j *LowStockJob) Name() string { return "low-stock-digest" }

// Run produces the digest for every tenant. A failure for one business does
// not stop the sweep; the first error is reported after the loop.
func (j *LowStockJob) Run(ctx context.Context) error {
	ids, err := j.businesses.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing businesses: %w", err)
	}

	var firstErr error
	for _, businessID := range ids {
		bizCtx := j.logg.WithBusinessID(ctx, businessID.String())
		rows, err := j.reports.LowStockProducts(bizCtx, businessID)
		if err != nil {
			j.logg.Error(bizCtx, "low stock sweep failed", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(rows) == 0 {
			continue
		}

		digestCtx := j.logg.WithField(bizCtx, "low_stock_count", len(rows))
		for _, row := range rows {
			itemCtx := j.logg.WithFields(digestCtx, map[string]any{
				"product_id": row.ProductID.String(),
				"product":    row.Name,
				"stock":      row.Stock,
				"threshold":  row.LowStockThreshold,
			})
			j.logg.Warn(itemCtx, "product needs restocking")
		}
	}
	return firstErr
}
