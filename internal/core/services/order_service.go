package services

import (
	"context"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"

	"github.com/sirupsen/logrus"
)

// OrderAPI is the admin order surface of the backend
type OrderAPI interface {
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, upd domain.StatusUpdate) (*domain.Order, error)
	OrderStats(ctx context.Context) (*domain.OrderStats, error)
}

// OrderService handles admin order management
type OrderService struct {
	api       OrderAPI
	cache     *query.Cache
	staleTime time.Duration
	log       logrus.FieldLogger
}

// NewOrderService creates a new order service
func NewOrderService(api OrderAPI, cache *query.Cache, staleTime time.Duration, log logrus.FieldLogger) *OrderService {
	return &OrderService{api: api, cache: cache, staleTime: staleTime, log: log.WithField("component", "orders")}
}

// List filters on the server by search term and both statuses
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.EstadoPedido != "" && !filter.EstadoPedido.Valid() {
		return nil, domain.NewValidationError("estadoPedido", "Estado de pedido no válido")
	}
	if filter.EstadoPago != "" && !filter.EstadoPago.Valid() {
		return nil, domain.NewValidationError("estadoPago", "Estado de pago no válido")
	}
	return query.Fetch(ctx, s.cache, query.Key{qOrders, filter}, func(ctx context.Context) ([]domain.Order, error) {
		return s.api.ListOrders(ctx, filter)
	}, query.StaleTime(s.staleTime))
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return query.Fetch(ctx, s.cache, query.Key{qOrder, id}, func(ctx context.Context) (*domain.Order, error) {
		return s.api.GetOrder(ctx, id)
	}, query.StaleTime(s.staleTime))
}

func (s *OrderService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	return query.Fetch(ctx, s.cache, query.Key{qOrderStats}, s.api.OrderStats, query.StaleTime(s.staleTime))
}

// UpdateStatus changes the order and/or payment status. Both values are checked
// against the known enumerations before the backend sees them.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, upd domain.StatusUpdate) (*domain.Order, error) {
	if upd.EstadoPedido == "" && upd.EstadoPago == "" {
		return nil, domain.NewValidationError("estadoPedido", "Indica el nuevo estado del pedido o del pago")
	}
	if upd.EstadoPedido != "" && !upd.EstadoPedido.Valid() {
		return nil, domain.NewValidationError("estadoPedido", "Estado de pedido no válido")
	}
	if upd.EstadoPago != "" && !upd.EstadoPago.Valid() {
		return nil, domain.NewValidationError("estadoPago", "Estado de pago no válido")
	}

	order, err := s.api.UpdateOrderStatus(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(query.Key{qOrders}, query.Key{qOrder, id}, query.Key{qOrderStats}, query.Key{qReports})
	s.log.WithFields(logrus.Fields{"order": id, "estadoPedido": upd.EstadoPedido, "estadoPago": upd.EstadoPago}).Info("✅ order status updated")
	return order, nil
}
