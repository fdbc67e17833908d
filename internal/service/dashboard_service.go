package service

import (
	"time"

	"go-retail-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats is the overview card data.
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetStockFlow(days int) ([]repository.StockFlowData, error)
	GetSalesSummary(startDate, endDate time.Time) (*repository.SalesSummary, error)
}

type dashboardService struct {
	store repository.Store
}

func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.store.Products().Count(); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.store.Products().LowStockCount(); err != nil {
		return nil, err
	}
	if stats.TotalValuation, err = s.store.Products().Valuation(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *dashboardService) GetStockFlow(days int) ([]repository.StockFlowData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.store.Movements().DailyFlow(startDate, endDate)
}

func (s *dashboardService) GetSalesSummary(startDate, endDate time.Time) (*repository.SalesSummary, error) {
	return s.store.Invoices().SalesSummary(startDate, endDate)
}
