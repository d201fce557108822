package store

import (
	"context"
	"time"

	"stone-catalog-service/internal/domain"
)

// ListProductsParams filters the raw product scan. Collection matching is not
// done here; it belongs to the catalog resolver because it joins on three keys.
type ListProductsParams struct {
	Status *domain.Status
}

// ProductStorer defines the database operations for products.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error) // insertion order
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ListCollectionsParams filters collection listings.
type ListCollectionsParams struct {
	Status *domain.Status
}

// CollectionStorer defines the database operations for collections.
type CollectionStorer interface {
	CreateCollection(ctx context.Context, collection *domain.Collection) (*domain.Collection, error)
	GetCollectionByID(ctx context.Context, id string) (*domain.Collection, error)
	GetCollectionBySlug(ctx context.Context, slug string) (*domain.Collection, error)
	GetCollectionByName(ctx context.Context, name string) (*domain.Collection, error) // case-insensitive
	ListCollections(ctx context.Context, params ListCollectionsParams) ([]domain.Collection, error)
	ListAllCollections(ctx context.Context) ([]domain.Collection, error)
	NextCollectionOrder(ctx context.Context) (int, error)
	UpdateCollection(ctx context.Context, collection *domain.Collection) (*domain.Collection, error)
	UpdateCollectionSlug(ctx context.Context, id, slug string) error
	DeleteCollection(ctx context.Context, id string) error
}

// ListProjectsParams filters project listings.
type ListProjectsParams struct {
	ActiveOnly    bool
	Category      string
	ProjectStatus string
}

type ProjectStorer interface {
	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetProjectByID(ctx context.Context, id string) (*domain.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) // active projects only
	ListProjects(ctx context.Context, params ListProjectsParams) ([]domain.Project, error)
	CountProjects(ctx context.Context) (*domain.ProjectCounts, error)
	UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type BlogStorer interface {
	CreateBlog(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	GetBlogByID(ctx context.Context, id string) (*domain.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Blog, error)
	ListBlogs(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error)
	UpdateBlog(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
}

type CatalogueStorer interface {
	CreateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error)
	GetCatalogueByID(ctx context.Context, id string) (*domain.Catalogue, error)
	ListCatalogues(ctx context.Context, status *domain.Status) ([]domain.Catalogue, error)
	CountCatalogues(ctx context.Context) (int, error)
	UpdateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error)
	ToggleCatalogueStatus(ctx context.Context, id string) (*domain.Catalogue, error)
	DeleteCatalogue(ctx context.Context, id string) error
}

type EnquiryStorer interface {
	CreateEnquiry(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error)
	GetEnquiryByID(ctx context.Context, id string) (*domain.Enquiry, error)
	ListEnquiries(ctx context.Context, status *domain.EnquiryStatus) ([]domain.Enquiry, error) // newest first
	UpdateEnquiryStatus(ctx context.Context, id string, status domain.EnquiryStatus) (*domain.Enquiry, error)
	DeleteEnquiry(ctx context.Context, id string) error
}

type MediaStorer interface {
	CreateMedia(ctx context.Context, media *domain.Media) (*domain.Media, error)
	GetMediaByID(ctx context.Context, id string) (*domain.Media, error)
	ListMedia(ctx context.Context) ([]domain.Media, error) // newest first
	DeleteMedia(ctx context.Context, id string) error
}

type SettingStorer interface {
	// GetSetting returns the raw JSON value and its last update time.
	GetSetting(ctx context.Context, key domain.SettingKey) ([]byte, time.Time, error)
	PutSetting(ctx context.Context, key domain.SettingKey, value []byte) (time.Time, error)
}

type AdminStorer interface {
	CreateAdmin(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) // case-insensitive
	GetAdminByResetToken(ctx context.Context, tokenHash string) (*domain.Admin, error)
	SetAdminResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error
	UpdateAdminPassword(ctx context.Context, id string, passwordHash string) error // also clears the reset token
}
