package domain

import "time"

// Role represents user role in the store
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// SessionKind is the validated shape of a stored session
type SessionKind int

const (
	SessionGuest SessionKind = iota
	SessionUser
	SessionAdmin
)

func (k SessionKind) String() string {
	switch k {
	case SessionUser:
		return "user"
	case SessionAdmin:
		return "admin"
	default:
		return "guest"
	}
}

// UserSummary is the session copy of the logged in user
type UserSummary struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Rol    Role   `json:"rol"`
}

// Session holds the credentials of one browser (or CLI) session
type Session struct {
	Kind         SessionKind  `json:"-"`
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         *UserSummary `json:"user,omitempty"`
}

// Authenticated reports whether the session carries a validated user
func (s Session) Authenticated() bool {
	return s.Kind != SessionGuest
}

// Role returns the role of the session user, empty for guests
func (s Session) Role() Role {
	if s.User == nil || s.Kind == SessionGuest {
		return ""
	}
	return s.User.Rol
}

// Product is a catalog item (Producto)
type Product struct {
	ID          int64   `json:"id"`
	Nombre      string  `json:"nombre" validate:"required,min=2,max=150"`
	Descripcion string  `json:"descripcion" validate:"max=2000"`
	Precio      float64 `json:"precio" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Categoria   *string `json:"categoria,omitempty"`
	ImagenURL   *string `json:"imagenUrl,omitempty"`
	Destacado   bool    `json:"destacado"`
}

// CartItem is one line of a cart
type CartItem struct {
	ID              int64   `json:"id"`
	ProductoID      int64   `json:"productoId"`
	NombreProducto  string  `json:"nombreProducto"`
	ImagenURL       string  `json:"imagenUrl,omitempty"`
	Cantidad        int     `json:"cantidad"`
	PrecioUnitario  float64 `json:"precioUnitario"`
	Subtotal        float64 `json:"subtotal"`
	Descuento       float64 `json:"descuento"`
	StockDisponible int     `json:"stockDisponible"`
}

// Cart is the server computed cart of one user (Carrito)
type Cart struct {
	ID             int64      `json:"id"`
	UsuarioID      int64      `json:"usuarioId"`
	Items          []CartItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	Impuestos      float64    `json:"impuestos"`
	DescuentoTotal float64    `json:"descuentoTotal"`
	Total          float64    `json:"total"`
	CantidadItems  int        `json:"cantidadItems"`
}

// Item returns the line for a product, if present
func (c *Cart) Item(productID int64) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, it := range c.Items {
		if it.ProductoID == productID {
			return it, true
		}
	}
	return CartItem{}, false
}

// StockIssue reports a cart line that exceeds current stock
type StockIssue struct {
	ProductoID      int64  `json:"productoId"`
	NombreProducto  string `json:"nombreProducto"`
	Cantidad        int    `json:"cantidad"`
	StockDisponible int    `json:"stockDisponible"`
}

// StockCheck is the response of the stock verification endpoint
type StockCheck struct {
	Valido    bool         `json:"valido"`
	Problemas []StockIssue `json:"problemas,omitempty"`
}

// PaymentMethod accepted at checkout
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "EFECTIVO"
	PaymentCard     PaymentMethod = "TARJETA"
	PaymentTransfer PaymentMethod = "TRANSFERENCIA"
)

// BillingData is the checkout form
type BillingData struct {
	NombreCliente string        `json:"nombreCliente" validate:"required,min=3,max=120"`
	Documento     string        `json:"documento" validate:"required,min=5,max=20"`
	Telefono      string        `json:"telefono" validate:"required,min=7,max=20"`
	Direccion     string        `json:"direccion" validate:"required,min=5,max=200"`
	Ciudad        string        `json:"ciudad" validate:"required,max=80"`
	Pais          string        `json:"pais" validate:"required,max=80"`
	Email         string        `json:"email" validate:"required,email"`
	MetodoPago    PaymentMethod `json:"metodoPago" validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA"`
}

// OrderStatus is the lifecycle status of an order (estadoPedido)
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDIENTE"
	OrderConfirmed OrderStatus = "CONFIRMADO"
	OrderPreparing OrderStatus = "EN_PREPARACION"
	OrderShipped   OrderStatus = "ENVIADO"
	OrderDelivered OrderStatus = "ENTREGADO"
	OrderCancelled OrderStatus = "CANCELADO"
)

// OrderStatuses lists every order status in display order
var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPreparing, OrderShipped, OrderDelivered, OrderCancelled,
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment state of an order (estadoPago)
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDIENTE"
	PaymentPaid     PaymentStatus = "PAGADO"
	PaymentFailed   PaymentStatus = "FALLIDO"
	PaymentRefunded PaymentStatus = "REEMBOLSADO"
)

// PaymentStatuses lists every payment status
var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderItem is one line of an order
type OrderItem struct {
	ProductoID     int64   `json:"productoId"`
	NombreProducto string  `json:"nombreProducto"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario"`
	Subtotal       float64 `json:"subtotal"`
}

// Order is a placed order (Pedido)
type Order struct {
	ID            int64         `json:"id"`
	NumeroPedido  string        `json:"numeroPedido"`
	NumeroTicket  string        `json:"numeroTicket"`
	NombreCliente string        `json:"nombreCliente"`
	Documento     string        `json:"documento"`
	Telefono      string        `json:"telefono"`
	Direccion     string        `json:"direccion"`
	Ciudad        string        `json:"ciudad"`
	Pais          string        `json:"pais"`
	Email         string        `json:"email"`
	MetodoPago    PaymentMethod `json:"metodoPago"`
	Subtotal      float64       `json:"subtotal"`
	Impuestos     float64       `json:"impuestos"`
	Descuento     float64       `json:"descuento"`
	Total         float64       `json:"total"`
	EstadoPedido  OrderStatus   `json:"estadoPedido"`
	EstadoPago    PaymentStatus `json:"estadoPago"`
	FechaCreacion *time.Time    `json:"fechaCreacion,omitempty"`
	Items         []OrderItem   `json:"items,omitempty"`
}

// Receipt is the ticket returned by a billing aware checkout
type Receipt struct {
	PedidoID     int64         `json:"pedidoId"`
	NumeroPedido string        `json:"numeroPedido"`
	NumeroTicket string        `json:"numeroTicket"`
	Fecha        *time.Time    `json:"fecha,omitempty"`
	Cliente      BillingData   `json:"cliente"`
	Items        []OrderItem   `json:"items"`
	Subtotal     float64       `json:"subtotal"`
	Impuestos    float64       `json:"impuestos"`
	Descuento    float64       `json:"descuento"`
	Total        float64       `json:"total"`
	EstadoPedido OrderStatus   `json:"estadoPedido"`
	EstadoPago   PaymentStatus `json:"estadoPago"`
}

// OrderFilter narrows the admin order list
type OrderFilter struct {
	Search       string        `url:"search,omitempty"`
	EstadoPedido OrderStatus   `url:"estadoPedido,omitempty"`
	EstadoPago   PaymentStatus `url:"estadoPago,omitempty"`
}

// StatusUpdate changes order and/or payment status
type StatusUpdate struct {
	EstadoPedido OrderStatus   `json:"estadoPedido,omitempty"`
	EstadoPago   PaymentStatus `json:"estadoPago,omitempty"`
}

// OrderStats is the admin order statistics object
type OrderStats struct {
	TotalPedidos    int64                   `json:"totalPedidos"`
	VentasTotales   float64                 `json:"ventasTotales"`
	PorEstadoPedido map[OrderStatus]int64   `json:"porEstadoPedido,omitempty"`
	PorEstadoPago   map[PaymentStatus]int64 `json:"porEstadoPago,omitempty"`
}

// Report is the admin statistics report
type Report struct {
	TotalUsuarios        int64          `json:"totalUsuarios"`
	TotalProductos       int64          `json:"totalProductos"`
	TotalPedidos         int64          `json:"totalPedidos"`
	IngresosTotales      float64        `json:"ingresosTotales"`
	VentasPorMes         []MonthlySales `json:"ventasPorMes,omitempty"`
	ProductosMasVendidos []TopProduct   `json:"productosMasVendidos,omitempty"`
}

// MonthlySales is one point of the sales chart
type MonthlySales struct {
	Mes     string  `json:"mes"`
	Pedidos int64   `json:"pedidos"`
	Ventas  float64 `json:"ventas"`
}

// TopProduct is one row of the best sellers table
type TopProduct struct {
	ProductoID int64   `json:"productoId"`
	Nombre     string  `json:"nombre"`
	Cantidad   int64   `json:"cantidad"`
	Ventas     float64 `json:"ventas"`
}

// ProductFilter narrows the catalog
type ProductFilter struct {
	Search    string `url:"nombre,omitempty"`
	Categoria string `url:"categoria,omitempty"`
}

// User is a user account (Usuario)
type User struct {
	ID                int64      `json:"id"`
	Nombre            string     `json:"nombre"`
	Apellido          string     `json:"apellido"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	Telefono          *string    `json:"telefono,omitempty"`
	Rol               Role       `json:"rol"`
	FechaCreacion     *time.Time `json:"fechaCreacion,omitempty"`
	FechaModificacion *time.Time `json:"fechaModificacion,omitempty"`
}

// UserFilter narrows the admin user list
type UserFilter struct {
	Search string `url:"search,omitempty"`
	Rol    Role   `url:"rol,omitempty"`
}

// UserInput is the admin create/edit user form
type UserInput struct {
	Nombre   string  `json:"nombre" validate:"required,min=2,max=80"`
	Apellido string  `json:"apellido" validate:"required,min=2,max=80"`
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Telefono *string `json:"telefono,omitempty" validate:"omitempty,min=7,max=20"`
	Rol      Role    `json:"rol" validate:"required,oneof=ADMIN USER"`
	Password string  `json:"password,omitempty" validate:"omitempty,min=6"`
}

// UploadedFile is the response of the file upload endpoint
type UploadedFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url,omitempty"`
}
