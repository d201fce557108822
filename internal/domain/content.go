package domain

import (
	"time"

	"github.com/lib/pq"
)

// ProjectStatus tracks where a reference project stands.
type ProjectStatus string

const (
	ProjectOngoing   ProjectStatus = "ongoing"
	ProjectCompleted ProjectStatus = "completed"
	ProjectAwarded   ProjectStatus = "awarded"
)

// ProjectCategories is the fixed set of project categories.
var ProjectCategories = []string{
	"Residential", "Commercial", "Hospitality", "Healthcare",
	"Educational", "Government", "Retail", "Other",
}

// Project is a showcase installation.
type Project struct {
	ID            string         `json:"id" db:"id"`
	Title         string         `json:"title" db:"title"`
	Slug          string         `json:"slug" db:"slug"`
	ClientName    string         `json:"clientName" db:"client_name"`
	Year          int            `json:"year" db:"year"`
	ProjectStatus ProjectStatus  `json:"projectStatus" db:"project_status"`
	Category      string         `json:"category" db:"category"`
	FeaturedImage string         `json:"featuredImage" db:"featured_image"`
	Gallery       pq.StringArray `json:"gallery" db:"gallery"`
	Description   string         `json:"description" db:"description"`
	Location      string         `json:"location" db:"location"`
	Scope         string         `json:"scope" db:"scope"`
	DisplayOrder  int            `json:"displayOrder" db:"display_order"`
	IsActive      bool           `json:"isActive" db:"is_active"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// ProjectCounts summarises active projects by status.
type ProjectCounts struct {
	Total     int `json:"total" db:"total"`
	Ongoing   int `json:"ongoing" db:"ongoing"`
	Completed int `json:"completed" db:"completed"`
	Awarded   int `json:"awarded" db:"awarded"`
}

// BlogStatus is the publication state of a blog post.
type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

type Blog struct {
	ID              string     `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Slug            string     `json:"slug" db:"slug"`
	Content         string     `json:"content" db:"content"`
	FeaturedImage   string     `json:"featuredImage" db:"featured_image"`
	MetaTitle       string     `json:"metaTitle" db:"meta_title"`
	MetaDescription string     `json:"metaDescription" db:"meta_description"`
	Status          BlogStatus `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// CatalogueFileType describes what FileURL points at.
type CatalogueFileType string

const (
	CatalogueFilePDF   CatalogueFileType = "pdf"
	CatalogueFileImage CatalogueFileType = "image"
	CatalogueFileURL   CatalogueFileType = "url"
)

// Catalogue is a downloadable brochure.
type Catalogue struct {
	ID           string            `json:"id" db:"id"`
	Title        string            `json:"title" db:"title"`
	Description  string            `json:"description" db:"description"`
	FileURL      string            `json:"fileUrl" db:"file_url"`
	FileType     CatalogueFileType `json:"fileType" db:"file_type"`
	ThumbnailURL string            `json:"thumbnailUrl" db:"thumbnail_url"`
	DisplayOrder int               `json:"displayOrder" db:"display_order"`
	Status       Status            `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}
