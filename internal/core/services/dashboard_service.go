package services

import (
	"context"
	"sort"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LowStockThreshold marks products shown in the restock list
const LowStockThreshold = 5

// ReportAPI is the statistics surface of the backend
type ReportAPI interface {
	Statistics(ctx context.Context) (*domain.Report, error)
}

// DashboardService handles dashboard operations
type DashboardService struct {
	reports   ReportAPI
	orders    *OrderService
	catalog   *CatalogService
	cache     *query.Cache
	staleTime time.Duration
	log       logrus.FieldLogger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(reports ReportAPI, orders *OrderService, catalog *CatalogService, cache *query.Cache, staleTime time.Duration, log logrus.FieldLogger) *DashboardService {
	return &DashboardService{
		reports:   reports,
		orders:    orders,
		catalog:   catalog,
		cache:     cache,
		staleTime: staleTime,
		log:       log.WithField("component", "dashboard"),
	}
}

// ============================================================
// Reports
// ============================================================

// Report returns the admin statistics; a USER session gets domain.ErrForbidden
func (s *DashboardService) Report(ctx context.Context) (*domain.Report, error) {
	return query.Fetch(ctx, s.cache, query.Key{qReports}, s.reports.Statistics, query.StaleTime(s.staleTime))
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	Stats          *domain.OrderStats `json:"stats"`
	Report         *domain.Report     `json:"report"`
	TotalProductos int                `json:"totalProductos"`
	Destacados     []domain.Product   `json:"destacados"`
	BajoStock      []domain.Product   `json:"bajoStock"`
	SinStock       int                `json:"sinStock"`
}

// GetAdminDashboard loads the four dashboard reads concurrently
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	var products []domain.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.orders.Stats(gctx)
		data.Stats = stats
		return err
	})
	g.Go(func() error {
		report, err := s.Report(gctx)
		data.Report = report
		return err
	})
	g.Go(func() error {
		list, err := s.catalog.List(gctx, domain.ProductFilter{})
		products = list
		return err
	})
	g.Go(func() error {
		featured, err := s.catalog.Featured(gctx)
		data.Destacados = featured
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.TotalProductos = len(products)
	data.BajoStock = []domain.Product{}
	for _, p := range products {
		switch {
		case p.Stock == 0:
			data.SinStock++
			data.BajoStock = append(data.BajoStock, p)
		case p.Stock <= LowStockThreshold:
			data.BajoStock = append(data.BajoStock, p)
		}
	}
	sort.SliceStable(data.BajoStock, func(i, j int) bool {
		return data.BajoStock[i].Stock < data.BajoStock[j].Stock
	})
	return data, nil
}
