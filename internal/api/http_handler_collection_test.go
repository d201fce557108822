package api

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stone-catalog-service/internal/catalog"
	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/slug"
)

// collectionPage mirrors CollectionPage for decoding.
type collectionPage struct {
	Found      bool                  `json:"found"`
	Collection *domain.Collection    `json:"collection"`
	Fallback   *catalog.Fallback     `json:"fallback"`
	Products   []catalog.ProductView `json:"products"`
}

func createCollection(t *testing.T, server *testServer, input CollectionInput) domain.Collection {
	t.Helper()
	res := server.request(t, http.MethodPost, "/api/collections", input, true)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	return decodeBody[domain.Collection](t, res)
}

func createProduct(t *testing.T, server *testServer, input ProductInput) domain.Product {
	t.Helper()
	res := server.request(t, http.MethodPost, "/api/products", input, true)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	return decodeBody[domain.Product](t, res)
}

func TestCollection_RenameKeepsProductsReachable(t *testing.T) {
	server := setupTestChiServer(t, Deps{})

	marble := createCollection(t, server, CollectionInput{Name: PtrTo("Marble")})
	assert.Equal(t, "marble", marble.Slug)
	assert.Equal(t, 1, marble.DisplayOrder)
	assert.Equal(t, domain.StatusActive, marble.Status)

	statuario := createProduct(t, server, ProductInput{Name: PtrTo("Statuario"), CollectionID: &marble.ID})
	require.NotNil(t, statuario.CollectionName)
	assert.Equal(t, "Marble", *statuario.CollectionName)

	res := server.request(t, http.MethodPut, "/api/collections/"+marble.ID, CollectionInput{Name: PtrTo("Italian Marble")}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	renamed := decodeBody[domain.Collection](t, res)
	assert.Equal(t, "Italian Marble", renamed.Name)
	assert.Equal(t, "marble", renamed.Slug, "renaming keeps the slug")

	for _, ref := range []string{marble.ID, "marble", url.PathEscape("Italian Marble")} {
		res := server.request(t, http.MethodGet, "/api/collections/"+ref, nil, false)
		require.Equal(t, http.StatusOK, res.StatusCode)
		page := decodeBody[collectionPage](t, res)
		require.True(t, page.Found, ref)
		assert.Equal(t, 1, page.Collection.ProductCount, ref)
		require.Len(t, page.Products, 1, ref)
		assert.Equal(t, statuario.ID, page.Products[0].ID)
	}

	// The product still carries the old name; the id join finds it.
	res = server.request(t, http.MethodGet, "/api/products?collection=marble", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, decodeBody[[]catalog.ProductView](t, res), 1)

	res = server.request(t, http.MethodGet, "/api/collections", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	listed := decodeBody[[]domain.Collection](t, res)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].ProductCount)
}

func TestDeleteCollection_RefusedWhileProductsRemain(t *testing.T) {
	server := setupTestChiServer(t, Deps{})
	onyx := createCollection(t, server, CollectionInput{Name: PtrTo("Onyx")})
	honey := createProduct(t, server, ProductInput{Name: PtrTo("Honey Onyx"), CollectionID: &onyx.ID})

	res := server.request(t, http.MethodDelete, "/api/collections/"+onyx.ID, nil, true)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, errorMessage(t, res), "still has 1 product")

	res = server.request(t, http.MethodDelete, "/api/products/"+honey.ID, nil, true)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res = server.request(t, http.MethodDelete, "/api/collections/"+onyx.ID, nil, true)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = server.request(t, http.MethodGet, "/api/collections/admin/"+onyx.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestGetCollection_UnknownRefServesFallback(t *testing.T) {
	server := setupTestChiServer(t, Deps{})

	res := server.request(t, http.MethodGet, "/api/collections/granite", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := decodeBody[collectionPage](t, res)
	assert.False(t, page.Found)
	assert.Nil(t, page.Collection)
	require.NotNil(t, page.Fallback)
	assert.Equal(t, "granite", page.Fallback.Slug)
	assert.False(t, page.Fallback.Generic)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
}

func TestGetCollection_InactiveIsHiddenFromPublic(t *testing.T) {
	server := setupTestChiServer(t, Deps{})
	createCollection(t, server, CollectionInput{Name: PtrTo("Limestone"), Status: PtrTo(domain.StatusInactive)})

	res := server.request(t, http.MethodGet, "/api/collections/limestone", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := decodeBody[collectionPage](t, res)
	assert.False(t, page.Found)
	require.NotNil(t, page.Fallback)

	res = server.request(t, http.MethodGet, "/api/collections", nil, false)
	assert.Empty(t, decodeBody[[]domain.Collection](t, res))

	res = server.request(t, http.MethodGet, "/api/collections/admin?status=inactive", nil, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, decodeBody[[]domain.Collection](t, res), 1)
}

func TestGetCollection_FiltersAndSortsProducts(t *testing.T) {
	server := setupTestChiServer(t, Deps{})
	marble := createCollection(t, server, CollectionInput{Name: PtrTo("Marble")})
	for _, p := range []ProductInput{
		{Name: PtrTo("Statuario"), Color: PtrTo("White"), CollectionID: &marble.ID},
		{Name: PtrTo("Calacatta Gold"), Color: PtrTo("White Gold"), CollectionID: &marble.ID},
		{Name: PtrTo("Emperador"), Color: PtrTo("Brown"), CollectionID: &marble.ID},
	} {
		createProduct(t, server, p)
	}

	res := server.request(t, http.MethodGet, "/api/collections/marble?color=white&sort=name-desc", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := decodeBody[collectionPage](t, res)
	require.True(t, page.Found)
	assert.Equal(t, 3, page.Collection.ProductCount, "count ignores the storefront filter")
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Statuario", page.Products[0].Name)
	assert.Equal(t, "Calacatta Gold", page.Products[1].Name)
	assert.Equal(t, catalog.PlaceholderImage, page.Products[0].DisplayImage)
	assert.Equal(t, catalog.NotSpecified, page.Products[0].Origin)
}

func TestPublicReads_DegradeWhenStoreIsDown(t *testing.T) {
	mem := newMemCatalog()
	server := setupTestChiServer(t, Deps{Products: mem, Collections: mem})
	createCollection(t, server, CollectionInput{Name: PtrTo("Marble")})
	mem.fail(errors.New("dial tcp: connection refused"))

	res := server.request(t, http.MethodGet, "/api/collections", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, decodeBody[[]domain.Collection](t, res))

	res = server.request(t, http.MethodGet, "/api/collections/marble", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	page := decodeBody[collectionPage](t, res)
	assert.False(t, page.Found)
	assert.NotNil(t, page.Fallback)

	res = server.request(t, http.MethodGet, "/api/products?collection=marble", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, decodeBody[[]catalog.ProductView](t, res))

	res = server.request(t, http.MethodGet, "/api/products/"+uuid.NewString(), nil, false)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Product not found", errorMessage(t, res))

	res = server.request(t, http.MethodGet, "/api/products/admin/"+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	res = server.request(t, http.MethodGet, "/api/collections/admin", nil, true)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Failed to list collections", errorMessage(t, res))
}

func TestCreateCollection_Validation(t *testing.T) {
	server := setupTestChiServer(t, Deps{})
	createCollection(t, server, CollectionInput{Name: PtrTo("Onyx")})

	tests := []struct {
		name  string
		input CollectionInput
		code  int
	}{
		{"missing name", CollectionInput{Description: PtrTo("no name")}, http.StatusBadRequest},
		{"blank name", CollectionInput{Name: PtrTo("   ")}, http.StatusBadRequest},
		{"name without slug characters", CollectionInput{Name: PtrTo("***")}, http.StatusBadRequest},
		{"unknown status", CollectionInput{Name: PtrTo("Granite"), Status: PtrTo(domain.Status("archived"))}, http.StatusBadRequest},
		{"negative order", CollectionInput{Name: PtrTo("Granite"), DisplayOrder: PtrTo(-1)}, http.StatusBadRequest},
		{"slug taken", CollectionInput{Name: PtrTo("ONYX")}, http.StatusConflict},
		{"explicit slug taken", CollectionInput{Name: PtrTo("Onyx Premium"), Slug: PtrTo("onyx")}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := server.request(t, http.MethodPost, "/api/collections", tt.input, true)
			assert.Equal(t, tt.code, res.StatusCode)
		})
	}
}

func TestSlugErrors_NameTheSlugField(t *testing.T) {
	server := setupTestChiServer(t, Deps{})
	onyx := createCollection(t, server, CollectionInput{Name: PtrTo("Onyx")})

	for _, bad := range []string{"", "***"} {
		res := server.request(t, http.MethodPut, "/api/collections/"+onyx.ID, CollectionInput{Slug: PtrTo(bad)}, true)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, bad)
		assert.Equal(t, "slug must contain at least one ASCII letter or digit", errorMessage(t, res), bad)
	}

	res := server.request(t, http.MethodPost, "/api/collections", CollectionInput{Name: PtrTo("Granite"), Slug: PtrTo("---")}, true)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "slug must contain at least one ASCII letter or digit", errorMessage(t, res))

	res = server.request(t, http.MethodPost, "/api/collections", CollectionInput{Name: PtrTo("***")}, true)
	assert.Equal(t, "name must contain at least one ASCII letter or digit", errorMessage(t, res))
}

func TestAdminGetCollection_NotFound(t *testing.T) {
	server := setupTestChiServer(t, Deps{})

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		res := server.request(t, http.MethodGet, "/api/collections/admin/"+id, nil, true)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, id)
		assert.Equal(t, "Collection not found", errorMessage(t, res))
	}
}

func TestRepairCollectionSlugs(t *testing.T) {
	mem := newMemCatalog()
	server := setupTestChiServer(t, Deps{Products: mem, Collections: mem})
	exotic := createCollection(t, server, CollectionInput{Name: PtrTo("Exotic Color"), Slug: PtrTo("exotic")})
	createCollection(t, server, CollectionInput{Name: PtrTo("Granite")})

	res := server.request(t, http.MethodPost, "/api/collections/repair-slugs", nil, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody[struct {
		Updated int           `json:"updated"`
		Changes []slug.Change `json:"changes"`
	}](t, res)
	assert.Equal(t, 1, body.Updated)
	require.Len(t, body.Changes, 1)
	assert.Equal(t, slug.Change{ID: exotic.ID, Name: "Exotic Color", From: "exotic", To: "exotic-color"}, body.Changes[0])

	res = server.request(t, http.MethodGet, "/api/collections/exotic-color", nil, false)
	assert.True(t, decodeBody[collectionPage](t, res).Found)
}
