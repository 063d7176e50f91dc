package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/imageurl"
	"tienda-console/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportAPI struct {
	err   error
	calls int
}

func (f *fakeReportAPI) Statistics(context.Context) (*domain.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Report{TotalUsuarios: 3, TotalProductos: 5, TotalPedidos: 1, IngresosTotales: 25000}, nil
}

func newDashboardFixture(reports *fakeReportAPI) *DashboardService {
	catalogAPI := newFakeCatalogAPI()
	catalogAPI.products[3] = domain.Product{ID: 3, Nombre: "Azúcar", Stock: 3}
	catalogAPI.products[4] = domain.Product{ID: 4, Nombre: "Leche", Stock: LowStockThreshold}
	catalogAPI.products[5] = domain.Product{ID: 5, Nombre: "Pan", Stock: LowStockThreshold + 1}
	catalogAPI.nextID = 6

	cache := query.New(query.Options{Logger: logger.Discard()})
	orders := NewOrderService(&fakeOrderAPI{order: domain.Order{ID: 1}}, cache, time.Minute, logger.Discard())
	catalog := NewCatalogService(catalogAPI, cache, time.Minute, imageurl.Resolver{}, logger.Discard())
	return NewDashboardService(reports, orders, catalog, cache, time.Minute, logger.Discard())
}

func TestAdminDashboardClassifiesStock(t *testing.T) {
	svc := newDashboardFixture(&fakeReportAPI{})

	data, err := svc.GetAdminDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, data.TotalProductos)
	assert.Equal(t, 1, data.SinStock)
	require.Len(t, data.BajoStock, 3)
	ids := []int64{data.BajoStock[0].ID, data.BajoStock[1].ID, data.BajoStock[2].ID}
	assert.Equal(t, []int64{2, 3, 4}, ids, "lowest stock first, threshold included")

	require.Len(t, data.Destacados, 1)
	assert.Equal(t, int64(1), data.Destacados[0].ID)
	require.NotNil(t, data.Stats)
	assert.Equal(t, int64(1), data.Stats.TotalPedidos)
	require.NotNil(t, data.Report)
	assert.Equal(t, int64(3), data.Report.TotalUsuarios)
}

func TestAdminDashboardFailsWhenAnyReadFails(t *testing.T) {
	reportErr := &domain.APIError{Status: 500, Message: "stats down"}
	svc := newDashboardFixture(&fakeReportAPI{err: reportErr})

	data, err := svc.GetAdminDashboard(context.Background())
	assert.Nil(t, data)
	require.Error(t, err)
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
}

func TestReportIsCached(t *testing.T) {
	reports := &fakeReportAPI{}
	svc := newDashboardFixture(reports)
	ctx := context.Background()

	_, err := svc.Report(ctx)
	require.NoError(t, err)
	_, err = svc.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reports.calls)
}
