package services

import "tienda-console/internal/core/query"

// Query key roots shared by reads and the invalidations of mutations
const (
	qProducts   = "productos"
	qProduct    = "producto"
	qFeatured   = "destacados"
	qCart       = "carrito"
	qCartCount  = "carrito-cantidad"
	qOrders     = "pedidos"
	qOrder      = "pedido"
	qOrderStats = "pedidos-stats"
	qUsers      = "usuarios"
	qUser       = "usuario"
	qReports    = "reportes"
)

func cartKey(sid string) query.Key      { return query.Key{qCart, sid} }
func cartCountKey(sid string) query.Key { return query.Key{qCartCount, sid} }
