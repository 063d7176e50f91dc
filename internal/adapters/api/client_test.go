package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second, Logger: logger.Discard()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthenticatedCallWithoutTokenFailsFast(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}).WithTokenSource(staticToken(""))

	_, err := c.GetCart(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestBearerHeaderAttached(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		writeJSON(w, 200, domain.Cart{ID: 1, Items: []domain.CartItem{{ProductoID: 5, Cantidad: 2}}, CantidadItems: 2})
	}).WithTokenSource(staticToken("abc"))

	cart, err := c.GetCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cart.CantidadItems)
}

func TestErrorMessageParsing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"message":"Stock insuficiente"}`, "Stock insuficiente"},
		{"mensaje field", 409, `{"mensaje":"Ya existe"}`, "Ya existe"},
		{"error field", 400, `{"error":"Bad"}`, "Bad"},
		{"plain text", 400, `algo salió mal`, "algo salió mal"},
		{"html falls back", 500, `<html>oops</html>`, "La operación falló (HTTP 500)"},
		{"empty falls back", 404, ``, "La operación falló (HTTP 404)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.GetProduct(context.Background(), 1)
			var apiErr *domain.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestStatusMapsToSentinels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Acceso denegado"})
	}).WithTokenSource(staticToken("abc"))

	_, err := c.Statistics(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestListProductsUsesServerSideFiltering(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		writeJSON(w, 200, []domain.Product{{ID: 1, Nombre: "Café"}})
	})

	_, err := c.ListProducts(context.Background(), domain.ProductFilter{Search: "caf"})
	require.NoError(t, err)
	assert.Equal(t, "/api/productos/buscar", gotPath)
	assert.Equal(t, "nombre=caf", gotQuery)

	_, err = c.ListProducts(context.Background(), domain.ProductFilter{Categoria: "bebidas"})
	require.NoError(t, err)
	assert.Equal(t, "/api/productos", gotPath)
	assert.Equal(t, "categoria=bebidas", gotQuery)
}

func TestListOrdersEncodesFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pedidos/admin/lista", r.URL.Path)
		assert.Equal(t, "ENVIADO", r.URL.Query().Get("estadoPedido"))
		assert.Equal(t, "ana", r.URL.Query().Get("search"))
		assert.False(t, r.URL.Query().Has("estadoPago"))
		writeJSON(w, 200, []domain.Order{{ID: 7}})
	}).WithTokenSource(staticToken("abc"))

	orders, err := c.ListOrders(context.Background(), domain.OrderFilter{Search: "ana", EstadoPedido: domain.OrderShipped})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestRefreshAcceptsBothTokenFields(t *testing.T) {
	for _, field := range []string{"accessToken", "token"} {
		t.Run(field, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "rt-1", body["refreshToken"])
				assert.Empty(t, r.Header.Get("Authorization"))
				writeJSON(w, 200, map[string]string{field: "new-access", "refreshToken": "rt-2"})
			})
			access, rotated, err := c.Refresh(context.Background(), "rt-1")
			require.NoError(t, err)
			assert.Equal(t, "new-access", access)
			assert.Equal(t, "rt-2", rotated)
		})
	}
}

func TestRefreshWithoutTokenInResponseFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})
	_, _, err := c.Refresh(context.Background(), "rt-1")
	assert.Error(t, err)
}

func TestLoginNormalizesUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{
			"token":        "a",
			"refreshToken": "r",
			"usuario":      map[string]any{"id": 3, "nombre": "Ana", "rol": "ADMIN"},
		})
	})
	res, err := c.Login(context.Background(), Credentials{Username: "ana", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, "a", res.AccessToken)
	require.NotNil(t, res.User)
	assert.Equal(t, domain.RoleAdmin, res.User.Rol)
}

func TestCartCountShapes(t *testing.T) {
	for _, body := range []string{`4`, `{"cantidad":4}`} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}).WithTokenSource(staticToken("abc"))
		n, err := c.CartCount(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	}
}

func TestClearCartEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}).WithTokenSource(staticToken("abc"))

	cart, err := c.ClearCart(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUploadFileMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "foto.png", hdr.Filename)
		assert.Equal(t, "PNG", string(data))
		writeJSON(w, 200, map[string]string{"url": "/uploads/abc-foto.png"})
	}).WithTokenSource(staticToken("abc"))

	up, err := c.UploadFile(context.Background(), "foto.png", strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc-foto.png", up.Path)
	assert.Equal(t, "abc-foto.png", up.Filename)
}

func TestCircuitOpensAfterServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := c.FeaturedTop3(context.Background())
		require.Error(t, err)
	}
	_, err := c.FeaturedTop3(context.Background())
	assert.ErrorIs(t, err, domain.ErrCircuitOpen)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestClientErrorsDoNotTripCircuit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	for i := 0; i < 8; i++ {
		_, err := c.GetProduct(context.Background(), 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}
