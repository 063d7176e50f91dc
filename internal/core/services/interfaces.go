package services

import "tienda-console/internal/adapters/api"

// Note: each service declares the slice of the backend it needs next to its
// implementation; the api client serves all of them.
var (
	_ Refresher  = (*api.Client)(nil)
	_ AuthAPI    = (*api.Client)(nil)
	_ CartAPI    = (*api.Client)(nil)
	_ CatalogAPI = (*api.Client)(nil)
	_ OrderAPI   = (*api.Client)(nil)
	_ UserAPI    = (*api.Client)(nil)
	_ ReportAPI  = (*api.Client)(nil)
	_ FileAPI    = (*api.Client)(nil)

	_ api.TokenSource = (*TokenManager)(nil)
)
