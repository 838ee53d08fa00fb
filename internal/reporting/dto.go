package reporting

import (
	"github.com/google/uuid"
)

// DashboardStats is the daily summary shown on the POS dashboard. Monetary
// values are fixed two-decimal strings, growth percentages one decimal.
type DashboardStats struct {
	TodaySales        string `json:"todaySales"`
	TodayTransactions int64  `json:"todayTransactions"`
	AverageSale       string `json:"averageSale"`
	LowStockCount     int64  `json:"lowStockCount"`
	TodayGrowth       string `json:"todayGrowth"`
	TransactionGrowth string `json:"transactionGrowth"`
	AverageGrowth     string `json:"averageGrowth"`
}

// TopProduct is one row of the trailing revenue ranking.
type TopProduct struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	SoldCount int64     `json:"soldCount"`
	Revenue   string    `json:"revenue"`
}

// LowStockProduct is an active product at or below its restock threshold.
type LowStockProduct struct {
	ProductID         uuid.UUID `json:"productId"`
	Name              string    `json:"name"`
	Stock             int       `json:"stock"`
	LowStockThreshold int       `json:"lowStockThreshold"`
}
