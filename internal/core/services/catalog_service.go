package services

import (
	"context"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/imageurl"
	"tienda-console/internal/pkg/validation"

	"github.com/sirupsen/logrus"
)

// CatalogAPI is the product surface of the backend
type CatalogAPI interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
	FeaturedTop3(ctx context.Context) ([]domain.Product, error)
	SetFeatured(ctx context.Context, id int64, featured bool) (*domain.Product, error)
}

// CatalogService serves products through the query cache
type CatalogService struct {
	api       CatalogAPI
	cache     *query.Cache
	staleTime time.Duration
	images    imageurl.Resolver
	log       logrus.FieldLogger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(api CatalogAPI, cache *query.Cache, staleTime time.Duration, images imageurl.Resolver, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		api:       api,
		cache:     cache,
		staleTime: staleTime,
		images:    images,
		log:       log.WithField("component", "catalog"),
	}
}

// List filters server side; an empty filter lists everything
func (s *CatalogService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := query.Fetch(ctx, s.cache, query.Key{qProducts, filter}, func(ctx context.Context) ([]domain.Product, error) {
		return s.api.ListProducts(ctx, filter)
	}, query.StaleTime(s.staleTime))
	if err != nil {
		return nil, err
	}
	return s.resolveAll(products), nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := query.Fetch(ctx, s.cache, query.Key{qProduct, id}, func(ctx context.Context) (*domain.Product, error) {
		return s.api.GetProduct(ctx, id)
	}, query.StaleTime(s.staleTime))
	if err != nil {
		return nil, err
	}
	out := s.resolve(*p)
	return &out, nil
}

// Featured lists every featured product
func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := query.Fetch(ctx, s.cache, query.Key{qFeatured, "all"}, s.api.FeaturedProducts, query.StaleTime(s.staleTime))
	if err != nil {
		return nil, err
	}
	return s.resolveAll(products), nil
}

// Top3 is the home page selection
func (s *CatalogService) Top3(ctx context.Context) ([]domain.Product, error) {
	products, err := query.Fetch(ctx, s.cache, query.Key{qFeatured, "top3"}, s.api.FeaturedTop3, query.StaleTime(s.staleTime))
	if err != nil {
		return nil, err
	}
	return s.resolveAll(products), nil
}

func (s *CatalogService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	created, err := s.api.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(created.ID)
	s.log.WithField("product", created.ID).Info("✅ product created")
	return created, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, p domain.Product) (*domain.Product, error) {
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateProduct(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return updated, nil
}

// Delete removes a product; confirmed must be true
func (s *CatalogService) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	s.log.WithField("product", id).Info("🗑️ product deleted")
	return nil
}

func (s *CatalogService) SetFeatured(ctx context.Context, id int64, featured bool) (*domain.Product, error) {
	p, err := s.api.SetFeatured(ctx, id, featured)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return p, nil
}

func (s *CatalogService) invalidate(id int64) {
	s.cache.Invalidate(query.Key{qProducts}, query.Key{qProduct, id}, query.Key{qFeatured})
}

// resolve rewrites the image reference of a copy; cached values stay untouched
func (s *CatalogService) resolve(p domain.Product) domain.Product {
	p.ImagenURL = s.images.ResolvePtr(p.ImagenURL)
	return p
}

func (s *CatalogService) resolveAll(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = s.resolve(p)
	}
	return out
}
