package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"stone-catalog-service/internal/apperr"
	"stone-catalog-service/internal/catalog"
	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/store"
)

// ProductInput is the body of product create and update requests.
// On update, nil fields are left unchanged. An empty collectionId
// detaches the product from its collection.
type ProductInput struct {
	Code         *string `json:"code" validate:"omitempty,max=100"`
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Category     *string `json:"category" validate:"omitempty,max=255"`
	CollectionID *string `json:"collectionId" validate:"omitempty,uuid"`

	Description   *string `json:"description"`
	Color         *string `json:"color" validate:"omitempty,max=255"`
	Origin        *string `json:"origin" validate:"omitempty,max=255"`
	IsBookmatch   *bool   `json:"isBookmatch"`
	IsTranslucent *bool   `json:"isTranslucent"`
	IsNatural     *bool   `json:"isNatural"`
	IsNewArrival  *bool   `json:"isNewArrival"`

	Grade               *string `json:"grade"`
	CompressionStrength *string `json:"compressionStrength"`
	ImpactTest          *string `json:"impactTest"`
	BulkDensity         *string `json:"bulkDensity"`
	WaterAbsorption     *string `json:"waterAbsorption"`
	ThermalExpansion    *string `json:"thermalExpansion"`
	FlexuralStrength    *string `json:"flexuralStrength"`

	PrimaryImage  *string               `json:"primaryImage"`
	Images        *domain.ProductImages `json:"images"`
	ProductImages *domain.ProductImages `json:"productImages"`
	Status        *domain.Status        `json:"status" validate:"omitempty,oneof=active inactive"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// apply copies every non-nil field except CollectionID, which needs a
// store lookup and is handled by assignCollection.
func (in ProductInput) apply(p *domain.Product) {
	if in.Code != nil {
		if code := strings.TrimSpace(*in.Code); code != "" {
			p.Code = &code
		} else {
			p.Code = nil
		}
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	setString(&p.Category, in.Category)
	setString(&p.Description, in.Description)
	setString(&p.Color, in.Color)
	setString(&p.Origin, in.Origin)
	setBool(&p.IsBookmatch, in.IsBookmatch)
	setBool(&p.IsTranslucent, in.IsTranslucent)
	setBool(&p.IsNatural, in.IsNatural)
	setBool(&p.IsNewArrival, in.IsNewArrival)
	setString(&p.Grade, in.Grade)
	setString(&p.CompressionStrength, in.CompressionStrength)
	setString(&p.ImpactTest, in.ImpactTest)
	setString(&p.BulkDensity, in.BulkDensity)
	setString(&p.WaterAbsorption, in.WaterAbsorption)
	setString(&p.ThermalExpansion, in.ThermalExpansion)
	setString(&p.FlexuralStrength, in.FlexuralStrength)
	setString(&p.PrimaryImage, in.PrimaryImage)
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.ProductImages != nil {
		p.ProductImages = *in.ProductImages
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
}

// assignCollection points p at the collection with the given id and
// copies its current name into collectionName and category. The copies
// are not kept in sync when the collection is renamed later. An explicit
// category in the request wins over the copied name.
func (h *HTTPHandler) assignCollection(r *http.Request, p *domain.Product, collectionID string, category *string) error {
	defer setString(&p.Category, category)
	if collectionID == "" {
		p.CollectionID = nil
		p.CollectionName = nil
		p.Category = ""
		return nil
	}
	c, err := h.Collections.GetCollectionByID(r.Context(), collectionID)
	if err != nil {
		if errors.Is(err, store.ErrCollectionNotFound) {
			return validationError("collectionId does not reference an existing collection")
		}
		return fromStore(err, "Failed to look up collection")
	}
	p.CollectionID = &c.ID
	name := c.Name
	p.CollectionName = &name
	p.Category = name
	return nil
}

// productFilterFromQuery reads the storefront filter parameters.
// Malformed values are ignored rather than rejected.
func productFilterFromQuery(r *http.Request) catalog.ProductFilter {
	q := r.URL.Query()
	f := catalog.ProductFilter{
		Color:  strings.TrimSpace(q.Get("color")),
		Origin: strings.TrimSpace(q.Get("origin")),
		Finish: strings.TrimSpace(q.Get("finish")),
		Query:  strings.TrimSpace(q.Get("q")),
		Sort:   q.Get("sort"),
	}
	if raw := q.Get("newArrival"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			f.NewArrival = &b
		}
	}
	return f
}

// collectionRef returns the collection reference of a listing request.
// category and collection are accepted interchangeably.
func collectionRef(r *http.Request) string {
	q := r.URL.Query()
	if ref := strings.TrimSpace(q.Get("collection")); ref != "" {
		return ref
	}
	return strings.TrimSpace(q.Get("category"))
}

func statusFromQuery(r *http.Request) (*domain.Status, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	s := domain.Status(raw)
	if !s.Valid() {
		return nil, validationError("status must be active or inactive")
	}
	return &s, nil
}

// --- Public ---

// ListProducts is the storefront listing. It never fails: unknown
// collections and store outages both yield an empty list.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	active := domain.StatusActive
	filter := productFilterFromQuery(r)
	filter.Status = &active

	products, err := h.resolver.ListProducts(r.Context(), collectionRef(r), filter, catalog.EmptyFallback)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, catalog.NewProductViews(products))
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProduct(r)
	if err == nil && p.Status != domain.StatusActive {
		err = apperr.New(apperr.KindNotFound, "Product not found")
	}
	if err != nil {
		h.respondWithAppError(w, r, h.publicMiss(r, err, "Product not found"))
		return
	}
	respondWithJSON(w, http.StatusOK, catalog.NewProductView(*p))
}

// --- Admin ---

func (h *HTTPHandler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	status, err := statusFromQuery(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	filter := productFilterFromQuery(r)
	filter.Status = status

	products, err := h.resolver.ListProducts(r.Context(), collectionRef(r), filter, catalog.Raise)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) AdminGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProduct(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) loadProduct(r *http.Request) (*domain.Product, error) {
	id, err := pathID(r, "Product not found")
	if err != nil {
		return nil, err
	}
	p, err := h.Products.GetProductByID(r.Context(), id)
	if err != nil {
		return nil, fromStore(err, "Failed to retrieve product")
	}
	return p, nil
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if isBlank(input.Name) {
		h.respondWithAppError(w, r, validationError("name is required"))
		return
	}

	p := &domain.Product{
		IsNatural:     true,
		Status:        domain.StatusActive,
		Images:        domain.ProductImages{},
		ProductImages: domain.ProductImages{},
	}
	input.apply(p)
	if input.CollectionID != nil {
		if err := h.assignCollection(r, p, *input.CollectionID, input.Category); err != nil {
			h.respondWithAppError(w, r, err)
			return
		}
	}

	created, err := h.Products.CreateProduct(r.Context(), p)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to create product"))
		return
	}
	h.logger.Info("Product created", zap.String("id", created.ID), zap.String("name", created.Name))
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProduct(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	var input ProductInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if input.Name != nil && isBlank(input.Name) {
		h.respondWithAppError(w, r, validationError("name cannot be empty"))
		return
	}
	input.apply(p)

	if input.CollectionID != nil {
		current := ""
		if p.CollectionID != nil {
			current = *p.CollectionID
		}
		if *input.CollectionID != current {
			if err := h.assignCollection(r, p, *input.CollectionID, input.Category); err != nil {
				h.respondWithAppError(w, r, err)
				return
			}
		}
	}

	updated, err := h.Products.UpdateProduct(r.Context(), p)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to update product"))
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "Product not found", "Failed to delete product", h.Products.DeleteProduct)
}
