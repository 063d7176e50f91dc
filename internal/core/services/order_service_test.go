package services

import (
	"context"
	"testing"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderAPI struct {
	order       domain.Order
	listCalls   int
	statsCalls  int
	updateCalls int
}

func (f *fakeOrderAPI) ListOrders(context.Context, domain.OrderFilter) ([]domain.Order, error) {
	f.listCalls++
	return []domain.Order{f.order}, nil
}

func (f *fakeOrderAPI) GetOrder(context.Context, int64) (*domain.Order, error) {
	o := f.order
	return &o, nil
}

func (f *fakeOrderAPI) UpdateOrderStatus(_ context.Context, _ int64, upd domain.StatusUpdate) (*domain.Order, error) {
	f.updateCalls++
	if upd.EstadoPedido != "" {
		f.order.EstadoPedido = upd.EstadoPedido
	}
	if upd.EstadoPago != "" {
		f.order.EstadoPago = upd.EstadoPago
	}
	o := f.order
	return &o, nil
}

func (f *fakeOrderAPI) OrderStats(context.Context) (*domain.OrderStats, error) {
	f.statsCalls++
	return &domain.OrderStats{TotalPedidos: 1}, nil
}

func TestOrderStatusUpdateInvalidatesReads(t *testing.T) {
	fake := &fakeOrderAPI{order: domain.Order{ID: 7, EstadoPedido: domain.OrderPending, EstadoPago: domain.PaymentPending}}
	cache := query.New(query.Options{Logger: logger.Discard()})
	svc := NewOrderService(fake, cache, time.Minute, logger.Discard())
	ctx := context.Background()

	_, err := svc.List(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	detail, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, detail.EstadoPedido)
	_, err = svc.Stats(ctx)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, 7, domain.StatusUpdate{EstadoPedido: domain.OrderShipped})
	require.NoError(t, err)

	list, err := svc.List(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, list[0].EstadoPedido)
	detail, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, detail.EstadoPedido)
	_, err = svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.listCalls)
	assert.Equal(t, 2, fake.statsCalls)
}

func TestOrderStatusValidation(t *testing.T) {
	fake := &fakeOrderAPI{}
	svc := NewOrderService(fake, query.New(query.Options{Logger: logger.Discard()}), time.Minute, logger.Discard())
	ctx := context.Background()

	for _, upd := range []domain.StatusUpdate{
		{},
		{EstadoPedido: "PERDIDO"},
		{EstadoPago: "REGALADO"},
	} {
		_, err := svc.UpdateStatus(ctx, 1, upd)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	_, err := svc.List(ctx, domain.OrderFilter{EstadoPago: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, fake.updateCalls)
	assert.Zero(t, fake.listCalls)
}
