package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stone-catalog-service/internal/apperr"
	"stone-catalog-service/internal/catalog"
	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/slug"
	"stone-catalog-service/internal/store"
)

// CollectionInput is the body of collection create and update requests.
// On update, nil fields are left unchanged.
type CollectionInput struct {
	Name         *string        `json:"name" validate:"omitempty,max=255"`
	Slug         *string        `json:"slug" validate:"omitempty,max=255"`
	Description  *string        `json:"description"`
	Tagline      *string        `json:"tagline" validate:"omitempty,max=255"`
	Tagline2     *string        `json:"tagline2" validate:"omitempty,max=255"`
	Tagline3     *string        `json:"tagline3" validate:"omitempty,max=255"`
	Image        *string        `json:"image"`
	DisplayOrder *int           `json:"displayOrder" validate:"omitempty,gte=0"`
	Status       *domain.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in CollectionInput) apply(c *domain.Collection) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Tagline != nil {
		c.Tagline = *in.Tagline
	}
	if in.Tagline2 != nil {
		c.Tagline2 = *in.Tagline2
	}
	if in.Tagline3 != nil {
		c.Tagline3 = *in.Tagline3
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
}

// CollectionPage is the public payload for a single collection page.
type CollectionPage struct {
	catalog.Resolution
	Products []catalog.ProductView `json:"products"`
}

// --- Public ---

func (h *HTTPHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	active := domain.StatusActive
	collections, err := h.resolver.CollectionsWithCounts(r.Context(), &active, catalog.EmptyFallback)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collections)
}

// GetCollection resolves a collection by id, slug or name. It always
// answers 200; unknown collections carry fallback content instead.
func (h *HTTPHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")
	res, err := h.resolver.ResolveCollection(r.Context(), ref, catalog.EmptyFallback)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	page := CollectionPage{Resolution: *res, Products: []catalog.ProductView{}}
	if res.Found && res.Collection.Status != domain.StatusActive {
		page.Resolution = catalog.Resolution{Fallback: catalog.FallbackFor(ref)}
	}
	if page.Found {
		active := domain.StatusActive
		all, err := h.resolver.ProductsIn(r.Context(), page.Collection, catalog.ProductFilter{Status: &active}, catalog.EmptyFallback)
		if err != nil {
			h.respondWithAppError(w, r, err)
			return
		}
		page.Collection.ProductCount = len(all)
		page.Products = catalog.NewProductViews(catalog.Apply(all, productFilterFromQuery(r)))
	}
	respondWithJSON(w, http.StatusOK, page)
}

// --- Admin ---

func (h *HTTPHandler) AdminListCollections(w http.ResponseWriter, r *http.Request) {
	status, err := statusFromQuery(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	collections, err := h.resolver.CollectionsWithCounts(r.Context(), status, catalog.Raise)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collections)
}

func (h *HTTPHandler) AdminGetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.loadCollection(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if c.ProductCount, err = h.resolver.CountProducts(r.Context(), *c); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) loadCollection(r *http.Request) (*domain.Collection, error) {
	id, err := pathID(r, "Collection not found")
	if err != nil {
		return nil, err
	}
	c, err := h.Collections.GetCollectionByID(r.Context(), id)
	if err != nil {
		return nil, fromStore(err, "Failed to retrieve collection")
	}
	return c, nil
}

func (h *HTTPHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var input CollectionInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if isBlank(input.Name) {
		h.respondWithAppError(w, r, validationError("name is required"))
		return
	}

	c := &domain.Collection{Status: domain.StatusActive}
	input.apply(c)

	field, slugSource := "name", c.Name
	if !isBlank(input.Slug) {
		field, slugSource = "slug", *input.Slug
	}
	if err := h.assignCollectionSlug(r, c, field, slugSource); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	if input.DisplayOrder == nil {
		next, err := h.Collections.NextCollectionOrder(r.Context())
		if err != nil {
			h.respondWithAppError(w, r, fromStore(err, "Failed to create collection"))
			return
		}
		c.DisplayOrder = next
	}

	created, err := h.Collections.CreateCollection(r.Context(), c)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to create collection"))
		return
	}
	h.logger.Info("Collection created", zap.String("id", created.ID), zap.String("slug", created.Slug))
	respondWithJSON(w, http.StatusCreated, created)
}

// assignCollectionSlug sets c.Slug from source, the value of field, and
// rejects slugs that are empty or already taken by another collection. The
// store does not enforce uniqueness, so this check is best effort.
func (h *HTTPHandler) assignCollectionSlug(r *http.Request, c *domain.Collection, field, source string) error {
	s := slug.Make(source)
	if s == "" {
		return validationError(field + " must contain at least one ASCII letter or digit")
	}
	existing, err := h.Collections.GetCollectionBySlug(r.Context(), s)
	switch {
	case err == nil && existing.ID != c.ID:
		return apperr.New(apperr.KindConflict, fmt.Sprintf("A collection with slug %q already exists", s))
	case err != nil && !errors.Is(err, store.ErrCollectionNotFound):
		return fromStore(err, "Failed to check collection slug")
	}
	c.Slug = s
	return nil
}

// UpdateCollection applies a partial update. Renaming keeps the slug
// unless a new one is supplied, so existing links keep resolving.
func (h *HTTPHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.loadCollection(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	var input CollectionInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if input.Name != nil && isBlank(input.Name) {
		h.respondWithAppError(w, r, validationError("name cannot be empty"))
		return
	}
	input.apply(c)

	if input.Slug != nil && slug.Make(*input.Slug) != c.Slug {
		if err := h.assignCollectionSlug(r, c, "slug", *input.Slug); err != nil {
			h.respondWithAppError(w, r, err)
			return
		}
	}

	updated, err := h.Collections.UpdateCollection(r.Context(), c)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to update collection"))
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteCollection refuses to delete a collection that still has products.
func (h *HTTPHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.loadCollection(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	n, err := h.resolver.CountProducts(r.Context(), *c)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if n > 0 {
		h.respondWithAppError(w, r, apperr.New(apperr.KindConflict,
			fmt.Sprintf("Collection %q still has %d product(s); reassign or delete them first", c.Name, n)))
		return
	}

	if err := h.Collections.DeleteCollection(r.Context(), c.ID); err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to delete collection"))
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// RepairCollectionSlugs re-derives every collection slug from its name.
func (h *HTTPHandler) RepairCollectionSlugs(w http.ResponseWriter, r *http.Request) {
	changes, err := slug.RepairCollections(r.Context(), h.Collections)
	slug.LogChanges(h.logger, changes)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Slug repair failed"))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"updated": slug.Applied(changes),
		"changes": changes,
	})
}
