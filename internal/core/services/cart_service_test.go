package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartAPI struct {
	mu        sync.Mutex
	cart      *domain.Cart
	calls     map[string]int
	failNext  error
	inflight  int32
	maxFlight int32
	delay     time.Duration
}

func newFakeCartAPI() *fakeCartAPI {
	return &fakeCartAPI{
		calls: map[string]int{},
		cart: &domain.Cart{
			ID: 1, UsuarioID: 1,
			Items: []domain.CartItem{
				{ID: 10, ProductoID: 5, NombreProducto: "Audífonos", Cantidad: 1, PrecioUnitario: 100000, Subtotal: 100000, StockDisponible: 3},
			},
			Subtotal: 100000, Impuestos: 19000, Total: 119000, CantidadItems: 1,
		},
	}
}

func (f *fakeCartAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCartAPI) enter(name string) (func(), error) {
	n := atomic.AddInt32(&f.inflight, 1)
	for {
		m := atomic.LoadInt32(&f.maxFlight)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxFlight, m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.calls[name]++
	err := f.failNext
	f.failNext = nil
	f.mu.Unlock()
	return func() { atomic.AddInt32(&f.inflight, -1) }, err
}

// recompute mimics the backend totals (IVA 19%, no discounts)
func (f *fakeCartAPI) recompute() *domain.Cart {
	c := *f.cart
	c.Items = append([]domain.CartItem(nil), f.cart.Items...)
	c.Subtotal, c.CantidadItems = 0, 0
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].PrecioUnitario * float64(c.Items[i].Cantidad)
		c.Subtotal += c.Items[i].Subtotal
		c.CantidadItems += c.Items[i].Cantidad
	}
	c.Impuestos = c.Subtotal * 0.19
	c.Total = c.Subtotal - c.DescuentoTotal + c.Impuestos
	f.cart = &c
	return &c
}

func (f *fakeCartAPI) GetCart(context.Context) (*domain.Cart, error) {
	done, err := f.enter("get")
	defer done()
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recompute(), nil
}

func (f *fakeCartAPI) CartCount(context.Context) (int, error) {
	done, err := f.enter("count")
	defer done()
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart.CantidadItems, err
}

func (f *fakeCartAPI) AddToCart(_ context.Context, productID int64, qty int) (*domain.Cart, error) {
	done, err := f.enter("add")
	defer done()
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductoID == productID {
			f.cart.Items[i].Cantidad += qty
			return f.recompute(), nil
		}
	}
	f.cart.Items = append(f.cart.Items, domain.CartItem{ProductoID: productID, Cantidad: qty, PrecioUnitario: 100000, StockDisponible: 10})
	return f.recompute(), nil
}

func (f *fakeCartAPI) UpdateCartQuantity(_ context.Context, productID int64, qty int) (*domain.Cart, error) {
	done, err := f.enter("update")
	defer done()
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductoID == productID {
			f.cart.Items[i].Cantidad = qty
		}
	}
	return f.recompute(), nil
}

func (f *fakeCartAPI) RemoveFromCart(_ context.Context, productID int64) (*domain.Cart, error) {
	done, err := f.enter("remove")
	defer done()
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.cart.Items[:0:0]
	for _, it := range f.cart.Items {
		if it.ProductoID != productID {
			items = append(items, it)
		}
	}
	f.cart.Items = items
	return f.recompute(), nil
}

func (f *fakeCartAPI) ClearCart(context.Context) (*domain.Cart, error) {
	done, err := f.enter("clear")
	defer done()
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart.Items = nil
	return f.recompute(), nil
}

func (f *fakeCartAPI) VerifyStock(context.Context) (*domain.StockCheck, error) {
	return &domain.StockCheck{Valido: true}, nil
}

func (f *fakeCartAPI) Checkout(_ context.Context, billing domain.BillingData) (*domain.Receipt, error) {
	done, err := f.enter("checkout")
	defer done()
	if err != nil {
		return nil, err
	}
	return &domain.Receipt{PedidoID: 77, NumeroPedido: "PED-77", Cliente: billing}, nil
}

func newCartFixture(api *fakeCartAPI) (*CartService, *query.Cache, context.Context) {
	cache := query.New(query.Options{StaleTime: time.Minute, Logger: logger.Discard()})
	svc := NewCartService(api, cache, 15*time.Second, logger.Discard())
	return svc, cache, WithSessionID(context.Background(), "sid-cart")
}

func validBilling() domain.BillingData {
	return domain.BillingData{
		NombreCliente: "Ana Gómez",
		Documento:     "1020304050",
		Telefono:      "3001234567",
		Direccion:     "Calle 10 #20-30",
		Ciudad:        "Medellín",
		Pais:          "Colombia",
		Email:         "ana@example.com",
		MetodoPago:    domain.PaymentCard,
	}
}

func TestCartViewLoadsThenReady(t *testing.T) {
	api := newFakeCartAPI()
	svc, _, ctx := newCartFixture(api)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, CartReady, view.State)
	assert.Len(t, view.Cart.Items, 1)

	_, err = svc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("get"))
}

func TestQuantityGuardSkipsNetwork(t *testing.T) {
	api := newFakeCartAPI()
	svc, _, ctx := newCartFixture(api)

	for _, q := range []int{0, -2, 4} {
		_, err := svc.UpdateQuantity(ctx, 5, q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %d", q)
	}
	assert.Zero(t, api.count("update"))

	view, err := svc.View(ctx)
	require.NoError(t, err)
	item, ok := view.Cart.Item(5)
	require.True(t, ok)
	assert.Equal(t, 1, item.Cantidad)
	assert.Empty(t, view.Pending)
}

func TestQuantityGuardUsesStaleSnapshot(t *testing.T) {
	api := newFakeCartAPI()
	now := time.Now()
	cache := query.New(query.Options{StaleTime: time.Minute, Logger: logger.Discard(), Now: func() time.Time { return now }})
	svc := NewCartService(api, cache, 15*time.Second, logger.Discard())
	ctx := WithSessionID(context.Background(), "sid-cart")

	_, err := svc.View(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, api.count("get"))

	now = now.Add(time.Hour)
	_, err = svc.UpdateQuantity(ctx, 5, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, api.count("get"), "no refetch for a rejected quantity")
	assert.Zero(t, api.count("update"))
}

func TestMutationReplacesSnapshot(t *testing.T) {
	api := newFakeCartAPI()
	svc, _, ctx := newCartFixture(api)

	cart, err := svc.UpdateQuantity(ctx, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.CantidadItems)

	sum := 0
	for _, it := range cart.Items {
		sum += it.Cantidad
	}
	assert.Equal(t, cart.CantidadItems, sum)
	assert.InDelta(t, cart.Subtotal-cart.DescuentoTotal+cart.Impuestos, cart.Total, 0.001)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, cart, view.Cart)
	assert.Equal(t, 1, api.count("get"), "only the guard read hits the backend")
}

func TestFailedMutationRevertsAndStaysUsable(t *testing.T) {
	api := newFakeCartAPI()
	svc, _, ctx := newCartFixture(api)
	_, err := svc.View(ctx)
	require.NoError(t, err)

	api.failNext = &domain.APIError{Status: 409, Message: "Stock insuficiente"}
	_, err = svc.UpdateQuantity(ctx, 5, 2)
	require.Error(t, err)

	view, _ := svc.View(ctx)
	assert.Equal(t, CartReady, view.State)
	assert.Contains(t, view.Error, "Stock insuficiente")
	assert.Empty(t, view.Pending)
	item, _ := view.Cart.Item(5)
	assert.Equal(t, 1, item.Cantidad)

	_, err = svc.UpdateQuantity(ctx, 5, 2)
	require.NoError(t, err)
}

func TestMutationsAreSerialized(t *testing.T) {
	api := newFakeCartAPI()
	api.delay = 10 * time.Millisecond
	svc, _, ctx := newCartFixture(api)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, 9, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&api.maxFlight))
	view, err := svc.View(ctx)
	require.NoError(t, err)
	item, ok := view.Cart.Item(9)
	require.True(t, ok)
	assert.Equal(t, 5, item.Cantidad)
}

func TestClearRequiresConfirmation(t *testing.T) {
	api := newFakeCartAPI()
	svc, _, ctx := newCartFixture(api)

	_, err := svc.Clear(ctx, false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Zero(t, api.count("clear"))

	cart, err := svc.Clear(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCheckoutMissingFieldNeverCallsBackend(t *testing.T) {
	api := newFakeCartAPI()
	svc, _, ctx := newCartFixture(api)

	billing := validBilling()
	billing.Direccion = ""
	_, err := svc.Checkout(ctx, billing)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "direccion")
	assert.Zero(t, api.count("checkout"))
}

func TestCheckoutResetsCartWithoutRefetch(t *testing.T) {
	api := newFakeCartAPI()
	svc, cache, ctx := newCartFixture(api)
	_, err := svc.View(ctx)
	require.NoError(t, err)
	cache.Set(query.Key{qOrders, "all"}, []domain.Order{})

	receipt, err := svc.Checkout(ctx, validBilling())
	require.NoError(t, err)
	assert.Equal(t, "PED-77", receipt.NumeroPedido)

	view, err := svc.View(ctx)
	require.NoError(t, err)
	assert.Nil(t, view.Cart)
	assert.Equal(t, 1, api.count("get"))

	var calls int
	_, err = query.Fetch(ctx, cache, query.Key{qOrders, "all"}, func(context.Context) ([]domain.Order, error) {
		calls++
		return []domain.Order{{ID: 77}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "order list invalidated by checkout")
}

func TestSummaryAddsTax(t *testing.T) {
	cart := &domain.Cart{
		Items:    []domain.CartItem{{ProductoID: 5, Cantidad: 2, PrecioUnitario: 100000, Subtotal: 200000}},
		Subtotal: 200000,
	}
	rules := domain.CommerceRules{Moneda: "COP", Simbolo: "$", Iva: 19, CostoEnvio: 10000, EnvioGratisDesde: 150000}

	sum := Summary(cart, rules)
	assert.Equal(t, 2, sum.CantidadItems)
	assert.Equal(t, 200000.0, sum.Subtotal)
	assert.Equal(t, 38000.0, sum.Impuestos)
	assert.Equal(t, 238000.0, sum.Total)
	assert.Zero(t, sum.Envio)
	assert.Equal(t, 238000.0, sum.TotalConEnvio)
}

func TestSummaryTaxIncludedAndShipping(t *testing.T) {
	cart := &domain.Cart{
		Items:          []domain.CartItem{{ProductoID: 1, Cantidad: 1, Subtotal: 50000}},
		Subtotal:       50000,
		DescuentoTotal: 5000,
	}
	rules := domain.CommerceRules{Iva: 19, IvaIncluido: true, CostoEnvio: 10000, EnvioGratisDesde: 150000}

	sum := Summary(cart, rules)
	assert.Zero(t, sum.Impuestos)
	assert.Equal(t, 45000.0, sum.Total)
	assert.Equal(t, 10000.0, sum.Envio)
	assert.Equal(t, 55000.0, sum.TotalConEnvio)
}

func TestSummaryEmptyCart(t *testing.T) {
	sum := Summary(nil, domain.CommerceRules{Iva: 19})
	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.Envio)
}
