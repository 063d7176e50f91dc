package services

import (
	"context"
	"math"
	"sync"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/validation"

	"github.com/sirupsen/logrus"
)

// CartAPI is the backend surface the cart needs
type CartAPI interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	CartCount(ctx context.Context) (int, error)
	AddToCart(ctx context.Context, productID int64, qty int) (*domain.Cart, error)
	UpdateCartQuantity(ctx context.Context, productID int64, qty int) (*domain.Cart, error)
	RemoveFromCart(ctx context.Context, productID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context) (*domain.Cart, error)
	VerifyStock(ctx context.Context) (*domain.StockCheck, error)
	Checkout(ctx context.Context, billing domain.BillingData) (*domain.Receipt, error)
}

// CartState is the lifecycle state of one session cart
type CartState string

const (
	CartIdle     CartState = "idle"
	CartLoading  CartState = "loading"
	CartReady    CartState = "ready"
	CartUpdating CartState = "updating"
)

// CartView is what the cart page renders
type CartView struct {
	State CartState    `json:"state"`
	Cart  *domain.Cart `json:"cart"`
	Error string       `json:"error,omitempty"`
	// Pending holds optimistic quantities of in-flight updates by product id
	Pending map[int64]int `json:"pending,omitempty"`
}

// cartSlot is the per-session bookkeeping; sem admits one mutation at a time
type cartSlot struct {
	sem      chan struct{}
	state    CartState
	err      error
	pending  map[int64]int
	lastUsed time.Time
}

// CartService composes the cart API with the query cache
type CartService struct {
	api       CartAPI
	cache     *query.Cache
	staleTime time.Duration
	log       logrus.FieldLogger

	mu    sync.Mutex
	slots map[string]*cartSlot
	now   func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(api CartAPI, cache *query.Cache, staleTime time.Duration, log logrus.FieldLogger) *CartService {
	return &CartService{
		api:       api,
		cache:     cache,
		staleTime: staleTime,
		log:       log.WithField("component", "cart"),
		slots:     make(map[string]*cartSlot),
		now:       time.Now,
	}
}

func (s *CartService) slot(sid string) *cartSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[sid]
	if !ok {
		sl = &cartSlot{sem: make(chan struct{}, 1), state: CartIdle, pending: map[int64]int{}}
		s.slots[sid] = sl
	}
	sl.lastUsed = s.now()
	return sl
}

func (s *CartService) setState(sl *cartSlot, state CartState, err error) {
	s.mu.Lock()
	sl.state = state
	sl.err = err
	s.mu.Unlock()
}

// View returns the current cart, loading it on first use
func (s *CartService) View(ctx context.Context) (CartView, error) {
	sid, ok := SessionIDFrom(ctx)
	if !ok {
		return CartView{}, domain.ErrUnauthenticated
	}
	sl := s.slot(sid)

	s.mu.Lock()
	first := sl.state == CartIdle
	if first {
		sl.state = CartLoading
	}
	s.mu.Unlock()

	cart, err := s.fetch(ctx, sid)

	s.mu.Lock()
	defer s.mu.Unlock()
	if first || sl.state == CartLoading {
		sl.state = CartReady
	}
	if err != nil {
		sl.err = err
		return s.viewLocked(sl, nil), err
	}
	return s.viewLocked(sl, cart), nil
}

func (s *CartService) viewLocked(sl *cartSlot, cart *domain.Cart) CartView {
	v := CartView{State: sl.state, Cart: cart}
	if sl.err != nil {
		v.Error = sl.err.Error()
	}
	if len(sl.pending) > 0 {
		v.Pending = make(map[int64]int, len(sl.pending))
		for k, q := range sl.pending {
			v.Pending[k] = q
		}
	}
	return v
}

func (s *CartService) fetch(ctx context.Context, sid string) (*domain.Cart, error) {
	return query.Fetch(ctx, s.cache, cartKey(sid), s.api.GetCart, query.StaleTime(s.staleTime))
}

// Count returns the number of items for the header badge
func (s *CartService) Count(ctx context.Context) (int, error) {
	sid, ok := SessionIDFrom(ctx)
	if !ok {
		return 0, domain.ErrUnauthenticated
	}
	return query.Fetch(ctx, s.cache, cartCountKey(sid), s.api.CartCount, query.StaleTime(s.staleTime))
}

// Add puts qty units of a product in the cart
func (s *CartService) Add(ctx context.Context, productID int64, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(ctx, productID, -1, func(ctx context.Context) (*domain.Cart, error) {
		return s.api.AddToCart(ctx, productID, qty)
	})
}

// UpdateQuantity sets the quantity of a cart line. Quantities below 1 or above
// the line's available stock are rejected without calling the backend.
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, qty int) (*domain.Cart, error) {
	sid, ok := SessionIDFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	// any cached snapshot, even stale, is enough to check stock
	cart, cached := query.Get[*domain.Cart](s.cache, cartKey(sid))
	if !cached || cart == nil {
		var err error
		if cart, err = s.fetch(ctx, sid); err != nil {
			return nil, err
		}
	}
	item, found := cart.Item(productID)
	if !found {
		return nil, domain.ErrNotFound
	}
	if qty > item.StockDisponible {
		return nil, domain.ErrInvalidQuantity
	}

	return s.mutate(ctx, productID, qty, func(ctx context.Context) (*domain.Cart, error) {
		return s.api.UpdateCartQuantity(ctx, productID, qty)
	})
}

// Remove drops a line from the cart
func (s *CartService) Remove(ctx context.Context, productID int64) (*domain.Cart, error) {
	return s.mutate(ctx, productID, 0, func(ctx context.Context) (*domain.Cart, error) {
		return s.api.RemoveFromCart(ctx, productID)
	})
}

// Clear empties the cart; confirmed must be true
func (s *CartService) Clear(ctx context.Context, confirmed bool) (*domain.Cart, error) {
	if !confirmed {
		return nil, domain.ErrConfirmationRequired
	}
	return s.mutate(ctx, 0, -1, s.api.ClearCart)
}

// VerifyStock reports lines exceeding current stock
func (s *CartService) VerifyStock(ctx context.Context) (*domain.StockCheck, error) {
	return s.api.VerifyStock(ctx)
}

// mutate serializes cart writes per session. optimistic >= 0 is shown as the
// pending quantity of productID until the server answers.
func (s *CartService) mutate(ctx context.Context, productID int64, optimistic int, call func(context.Context) (*domain.Cart, error)) (*domain.Cart, error) {
	sid, ok := SessionIDFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	sl := s.slot(sid)

	select {
	case sl.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-sl.sem }()

	s.mu.Lock()
	sl.state = CartUpdating
	sl.err = nil
	if optimistic >= 0 {
		sl.pending[productID] = optimistic
	}
	s.mu.Unlock()

	cart, err := call(ctx)

	s.mu.Lock()
	delete(sl.pending, productID)
	sl.state = CartReady
	sl.err = err
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).WithField("product", productID).Debug("cart mutation failed")
		return nil, err
	}

	s.checkTotals(cart)
	s.cache.Set(cartKey(sid), cart)
	s.cache.Invalidate(cartCountKey(sid))
	return cart, nil
}

// checkTotals logs when the server cart disagrees with its own lines
func (s *CartService) checkTotals(cart *domain.Cart) {
	if cart == nil {
		return
	}
	sum := 0
	for _, it := range cart.Items {
		sum += it.Cantidad
	}
	total := cart.Subtotal - cart.DescuentoTotal + cart.Impuestos
	if sum != cart.CantidadItems || math.Abs(total-cart.Total) > 0.005 {
		s.log.WithFields(logrus.Fields{
			"cantidadItems": cart.CantidadItems,
			"lineSum":       sum,
			"total":         cart.Total,
			"computed":      total,
		}).Warn("⚠️ cart totals do not add up")
	}
}

// Checkout validates the billing form locally, then converts the cart into an
// order. On success the session cart is gone until the next read.
func (s *CartService) Checkout(ctx context.Context, billing domain.BillingData) (*domain.Receipt, error) {
	if err := validation.Struct(billing); err != nil {
		return nil, err
	}
	sid, ok := SessionIDFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	sl := s.slot(sid)

	select {
	case sl.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-sl.sem }()

	s.setState(sl, CartUpdating, nil)
	receipt, err := s.api.Checkout(ctx, billing)
	if err != nil {
		s.setState(sl, CartReady, err)
		return nil, err
	}
	s.setState(sl, CartReady, nil)

	s.cache.Set(cartKey(sid), (*domain.Cart)(nil))
	s.cache.Invalidate(cartCountKey(sid), query.Key{qOrders}, query.Key{qOrder}, query.Key{qOrderStats}, query.Key{qReports}, query.Key{qProducts}, query.Key{qProduct})
	s.log.WithField("pedido", receipt.NumeroPedido).Info("✅ checkout completed")
	return receipt, nil
}

// Forget drops the bookkeeping of a session, e.g. on logout
func (s *CartService) Forget(sid string) {
	s.mu.Lock()
	delete(s.slots, sid)
	s.mu.Unlock()
	s.cache.Remove(cartKey(sid))
	s.cache.Remove(cartCountKey(sid))
}

// Prune drops idle session carts; run by the cleanup job
func (s *CartService) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	n := 0
	for sid, sl := range s.slots {
		if sl.lastUsed.Before(cutoff) && len(sl.sem) == 0 {
			delete(s.slots, sid)
			n++
		}
	}
	return n
}

// CartSummary is the totals box of the cart page
type CartSummary struct {
	CantidadItems int     `json:"cantidadItems"`
	Subtotal      float64 `json:"subtotal"`
	Descuento     float64 `json:"descuento"`
	Impuestos     float64 `json:"impuestos"`
	IvaPorcentaje float64 `json:"ivaPorcentaje"`
	IvaIncluido   bool    `json:"ivaIncluido"`
	Total         float64 `json:"total"`
	Envio         float64 `json:"envio"`
	TotalConEnvio float64 `json:"totalConEnvio"`
	Moneda        string  `json:"moneda"`
	Simbolo       string  `json:"simbolo"`
}

// Summary computes the displayed totals: tax is round(base x iva%) unless prices
// already include it, and total = subtotal - discount + tax. Shipping is a
// separate line, free from the configured threshold.
func Summary(cart *domain.Cart, rules domain.CommerceRules) CartSummary {
	sum := CartSummary{
		IvaPorcentaje: rules.Iva,
		IvaIncluido:   rules.IvaIncluido,
		Moneda:        rules.Moneda,
		Simbolo:       rules.Simbolo,
	}
	if cart == nil || len(cart.Items) == 0 {
		return sum
	}

	for _, it := range cart.Items {
		sum.CantidadItems += it.Cantidad
	}
	sum.Subtotal = cart.Subtotal
	sum.Descuento = cart.DescuentoTotal

	base := sum.Subtotal - sum.Descuento
	if !rules.IvaIncluido {
		sum.Impuestos = math.Round(base * rules.Iva / 100)
	}
	sum.Total = sum.Subtotal - sum.Descuento + sum.Impuestos

	if rules.CostoEnvio > 0 && (rules.EnvioGratisDesde <= 0 || base < rules.EnvioGratisDesde) {
		sum.Envio = rules.CostoEnvio
	}
	sum.TotalConEnvio = sum.Total + sum.Envio
	return sum
}
