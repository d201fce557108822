// Package catalog resolves collection references to collections and their
// products for the storefront and the admin panel.
//
// Products reference their collection through three historical keys:
// collectionId, a copied collectionName, and the legacy category field.
// A product belongs to a collection when any one of them matches.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stone-catalog-service/internal/apperr"
	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/store"
)

// Policy decides what a lookup miss or a store failure turns into.
type Policy int

const (
	// EmptyFallback degrades misses and store failures to empty results.
	// Public storefront reads use it.
	EmptyFallback Policy = iota
	// Raise reports misses as KindNotFound and store failures as KindConnectivity.
	Raise
)

// Store is the read-only subset of the entity store the resolver needs.
type Store interface {
	GetCollectionByID(ctx context.Context, id string) (*domain.Collection, error)
	GetCollectionBySlug(ctx context.Context, slug string) (*domain.Collection, error)
	GetCollectionByName(ctx context.Context, name string) (*domain.Collection, error)
	ListCollections(ctx context.Context, params store.ListCollectionsParams) ([]domain.Collection, error)
	ListProducts(ctx context.Context, params store.ListProductsParams) ([]domain.Product, error)
}

// Resolution is the outcome of ResolveCollection. Found is false for an
// unknown reference; Fallback then carries static content for the page.
type Resolution struct {
	Found      bool               `json:"found"`
	Collection *domain.Collection `json:"collection,omitempty"`
	Fallback   *Fallback          `json:"fallback,omitempty"`
}

// Sort orders accepted by ListProducts.
const (
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
	SortNewest   = "newest"
	SortOldest   = "oldest"
)

// ProductFilter narrows a product listing. Zero values impose no constraint.
type ProductFilter struct {
	Color  string
	Origin string
	// Finish is accepted from clients but no product attribute carries it yet.
	Finish     string
	Query      string
	NewArrival *bool
	Status     *domain.Status
	Sort       string
}

type Resolver struct {
	store  Store
	logger *zap.Logger
}

func NewResolver(s Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: s, logger: logger}
}

// ResolveCollection looks ref up as an id, then as a slug, then as a
// case-insensitive name. A miss at one step falls through to the next.
func (r *Resolver) ResolveCollection(ctx context.Context, ref string, policy Policy) (*Resolution, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return r.miss(ref, policy)
	}

	lookups := make([]func(context.Context, string) (*domain.Collection, error), 0, 3)
	if _, err := uuid.Parse(ref); err == nil {
		lookups = append(lookups, r.store.GetCollectionByID)
	}
	lookups = append(lookups, r.store.GetCollectionBySlug, r.store.GetCollectionByName)

	for _, lookup := range lookups {
		c, err := lookup(ctx, ref)
		if err == nil {
			return &Resolution{Found: true, Collection: c}, nil
		}
		if errors.Is(err, store.ErrCollectionNotFound) {
			continue
		}
		if policy == Raise {
			return nil, apperr.Wrap(apperr.KindConnectivity, err, "Failed to resolve collection")
		}
		r.logger.Warn("Collection lookup failed, serving fallback", zap.String("ref", ref), zap.Error(err))
		return &Resolution{Fallback: FallbackFor(ref)}, nil
	}
	return r.miss(ref, policy)
}

func (r *Resolver) miss(ref string, policy Policy) (*Resolution, error) {
	if policy == Raise {
		return nil, apperr.New(apperr.KindNotFound, "Collection not found")
	}
	return &Resolution{Fallback: FallbackFor(ref)}, nil
}

// ListProducts returns the products of the collection ref names, filtered
// and sorted. An empty ref lists every product. An unknown ref yields an
// empty list under either policy; Raise only surfaces store failures.
func (r *Resolver) ListProducts(ctx context.Context, ref string, filter ProductFilter, policy Policy) ([]domain.Product, error) {
	var collection *domain.Collection
	if strings.TrimSpace(ref) != "" {
		res, err := r.ResolveCollection(ctx, ref, policy)
		if apperr.Is(err, apperr.KindNotFound) {
			return []domain.Product{}, nil
		}
		if err != nil {
			return nil, err
		}
		if !res.Found {
			return []domain.Product{}, nil
		}
		collection = res.Collection
	}
	return r.ProductsIn(ctx, collection, filter, policy)
}

// ProductsIn is ListProducts for an already resolved collection. A nil
// collection means no collection constraint.
func (r *Resolver) ProductsIn(ctx context.Context, collection *domain.Collection, filter ProductFilter, policy Policy) ([]domain.Product, error) {
	products, err := r.store.ListProducts(ctx, store.ListProductsParams{Status: filter.Status})
	if err != nil {
		return r.degradeProducts(err, policy)
	}

	if collection != nil {
		matched := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if Matches(p, *collection) {
				matched = append(matched, p)
			}
		}
		products = matched
	}
	return Apply(products, filter), nil
}

// Apply returns the products that pass filter, sorted by filter.Sort.
// The input slice is not modified.
func Apply(products []domain.Product, filter ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filter.accepts(p) {
			out = append(out, p)
		}
	}
	sortProducts(out, filter.Sort)
	return out
}

func (r *Resolver) degradeProducts(err error, policy Policy) ([]domain.Product, error) {
	if policy == Raise {
		return nil, apperr.Wrap(apperr.KindConnectivity, err, "Failed to list products")
	}
	r.logger.Warn("Product listing failed, serving empty list", zap.Error(err))
	return []domain.Product{}, nil
}

// CollectionsWithCounts lists collections with productCount filled in by
// re-running the collection match over the product set ListProducts would
// see for the same status. Nothing is cached.
func (r *Resolver) CollectionsWithCounts(ctx context.Context, status *domain.Status, policy Policy) ([]domain.Collection, error) {
	collections, err := r.store.ListCollections(ctx, store.ListCollectionsParams{Status: status})
	if err != nil {
		if policy == Raise {
			return nil, apperr.Wrap(apperr.KindConnectivity, err, "Failed to list collections")
		}
		r.logger.Warn("Collection listing failed, serving empty list", zap.Error(err))
		return []domain.Collection{}, nil
	}
	if len(collections) == 0 {
		return collections, nil
	}

	products, err := r.store.ListProducts(ctx, store.ListProductsParams{Status: status})
	if err != nil {
		if policy == Raise {
			return nil, apperr.Wrap(apperr.KindConnectivity, err, "Failed to count products")
		}
		r.logger.Warn("Product count failed, serving zero counts", zap.Error(err))
		products = nil
	}

	for i := range collections {
		collections[i].ProductCount = countMatches(products, collections[i], status)
	}
	return collections, nil
}

// CountProducts counts products of every status that belong to c.
func (r *Resolver) CountProducts(ctx context.Context, c domain.Collection) (int, error) {
	products, err := r.store.ListProducts(ctx, store.ListProductsParams{})
	if err != nil {
		return 0, apperr.Wrap(apperr.KindConnectivity, err, "Failed to count products")
	}
	return countMatches(products, c, nil), nil
}

func countMatches(products []domain.Product, c domain.Collection, status *domain.Status) int {
	n := 0
	for _, p := range products {
		if status != nil && p.Status != *status {
			continue
		}
		if Matches(p, c) {
			n++
		}
	}
	return n
}

// Matches reports whether p belongs to c by id, by copied collection
// name, or by legacy category against c's slug or name. Empty values
// never match.
func Matches(p domain.Product, c domain.Collection) bool {
	if p.CollectionID != nil && *p.CollectionID != "" && *p.CollectionID == c.ID {
		return true
	}
	if p.CollectionName != nil && equalFoldNonEmpty(*p.CollectionName, c.Name) {
		return true
	}
	return equalFoldNonEmpty(p.Category, c.Slug) || equalFoldNonEmpty(p.Category, c.Name)
}

func equalFoldNonEmpty(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (f ProductFilter) accepts(p domain.Product) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.Color != "" && !containsFold(p.Color, f.Color) {
		return false
	}
	if f.Origin != "" && !containsFold(p.Origin, f.Origin) {
		return false
	}
	if f.NewArrival != nil && p.IsNewArrival != *f.NewArrival {
		return false
	}
	if f.Query != "" {
		code := ""
		if p.Code != nil {
			code = *p.Code
		}
		if !containsFold(p.Name, f.Query) && !containsFold(code, f.Query) && !containsFold(p.Description, f.Query) {
			return false
		}
	}
	return true
}

// sortProducts sorts in place. Unknown or empty orders keep store order.
// Every order is stable, so ties keep their store order.
func sortProducts(products []domain.Product, order string) {
	var less func(a, b domain.Product) bool
	switch order {
	case SortNameAsc:
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameDesc:
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	case SortNewest:
		less = func(a, b domain.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}
