package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stone-catalog-service/internal/domain"
	"stone-catalog-service/internal/slug"
	"stone-catalog-service/internal/store"
)

// --- Projects ---

type ProjectInput struct {
	Title         *string               `json:"title" validate:"omitempty,max=255"`
	Slug          *string               `json:"slug" validate:"omitempty,max=255"`
	ClientName    *string               `json:"clientName" validate:"omitempty,max=255"`
	Year          *int                  `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	ProjectStatus *domain.ProjectStatus `json:"projectStatus" validate:"omitempty,oneof=ongoing completed awarded"`
	Category      *string               `json:"category" validate:"omitempty,oneof=Residential Commercial Hospitality Healthcare Educational Government Retail Other"`
	FeaturedImage *string               `json:"featuredImage"`
	Gallery       []string              `json:"gallery" validate:"omitempty,dive,required"`
	Description   *string               `json:"description"`
	Location      *string               `json:"location" validate:"omitempty,max=255"`
	Scope         *string               `json:"scope"`
	DisplayOrder  *int                  `json:"displayOrder" validate:"omitempty,gte=0"`
	IsActive      *bool                 `json:"isActive"`
}

func (in ProjectInput) apply(p *domain.Project) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	setString(&p.ClientName, in.ClientName)
	if in.Year != nil {
		p.Year = *in.Year
	}
	if in.ProjectStatus != nil {
		p.ProjectStatus = *in.ProjectStatus
	}
	setString(&p.Category, in.Category)
	setString(&p.FeaturedImage, in.FeaturedImage)
	if in.Gallery != nil {
		p.Gallery = in.Gallery
	}
	setString(&p.Description, in.Description)
	setString(&p.Location, in.Location)
	setString(&p.Scope, in.Scope)
	if in.DisplayOrder != nil {
		p.DisplayOrder = *in.DisplayOrder
	}
	setBool(&p.IsActive, in.IsActive)
}

// ListProjects serves active projects, optionally narrowed by category
// and projectStatus. Store failures degrade to an empty list.
func (h *HTTPHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := h.Projects.ListProjects(r.Context(), store.ListProjectsParams{
		ActiveOnly:    true,
		Category:      q.Get("category"),
		ProjectStatus: q.Get("projectStatus"),
	})
	if err != nil {
		h.logger.Warn("Listing projects failed, serving empty list", zap.Error(err))
		projects = []domain.Project{}
	}
	respondWithJSON(w, http.StatusOK, projects)
}

func (h *HTTPHandler) CountProjects(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Projects.CountProjects(r.Context())
	if err != nil {
		h.logger.Warn("Counting projects failed, serving zero counts", zap.Error(err))
		counts = &domain.ProjectCounts{}
	}
	respondWithJSON(w, http.StatusOK, counts)
}

func (h *HTTPHandler) GetProjectBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.GetProjectBySlug(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithAppError(w, r, h.publicMiss(r, fromStore(err, "Failed to retrieve project"), "Project not found"))
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) AdminListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := h.Projects.ListProjects(r.Context(), store.ListProjectsParams{
		Category:      q.Get("category"),
		ProjectStatus: q.Get("projectStatus"),
	})
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to list projects"))
		return
	}
	respondWithJSON(w, http.StatusOK, projects)
}

func (h *HTTPHandler) AdminGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProject(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) loadProject(r *http.Request) (*domain.Project, error) {
	id, err := pathID(r, "Project not found")
	if err != nil {
		return nil, err
	}
	p, err := h.Projects.GetProjectByID(r.Context(), id)
	if err != nil {
		return nil, fromStore(err, "Failed to retrieve project")
	}
	return p, nil
}

func (h *HTTPHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var input ProjectInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if isBlank(input.Title) {
		h.respondWithAppError(w, r, validationError("title is required"))
		return
	}

	p := &domain.Project{
		ProjectStatus: domain.ProjectCompleted,
		Category:      "Other",
		Gallery:       []string{},
		IsActive:      true,
	}
	input.apply(p)
	p.Slug = slugOr(input.Slug, p.Title)
	if p.Slug == "" {
		h.respondWithAppError(w, r, validationError("title must contain letters or digits"))
		return
	}

	created, err := h.Projects.CreateProject(r.Context(), p)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to create project"))
		return
	}
	h.logger.Info("Project created", zap.String("id", created.ID), zap.String("slug", created.Slug))
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProject(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	var input ProjectInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if input.Title != nil && isBlank(input.Title) {
		h.respondWithAppError(w, r, validationError("title cannot be empty"))
		return
	}
	titleChanged := input.Title != nil && strings.TrimSpace(*input.Title) != p.Title
	input.apply(p)
	if input.Slug != nil || titleChanged {
		if s := slugOr(input.Slug, p.Title); s != "" {
			p.Slug = s
		}
	}

	updated, err := h.Projects.UpdateProject(r.Context(), p)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to update project"))
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "Project not found", "Failed to delete project", h.Projects.DeleteProject)
}

// --- Blogs ---

type BlogInput struct {
	Title           *string            `json:"title" validate:"omitempty,max=255"`
	Slug            *string            `json:"slug" validate:"omitempty,max=255"`
	Content         *string            `json:"content"`
	FeaturedImage   *string            `json:"featuredImage"`
	MetaTitle       *string            `json:"metaTitle" validate:"omitempty,max=255"`
	MetaDescription *string            `json:"metaDescription" validate:"omitempty,max=500"`
	Status          *domain.BlogStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in BlogInput) apply(b *domain.Blog) {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	setString(&b.Content, in.Content)
	setString(&b.FeaturedImage, in.FeaturedImage)
	setString(&b.MetaTitle, in.MetaTitle)
	setString(&b.MetaDescription, in.MetaDescription)
	if in.Status != nil {
		b.Status = *in.Status
	}
}

// ListBlogs serves published posts, newest first.
func (h *HTTPHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	published := domain.BlogPublished
	blogs, err := h.Blogs.ListBlogs(r.Context(), &published)
	if err != nil {
		h.logger.Warn("Listing blogs failed, serving empty list", zap.Error(err))
		blogs = []domain.Blog{}
	}
	respondWithJSON(w, http.StatusOK, blogs)
}

func (h *HTTPHandler) GetBlogBySlug(w http.ResponseWriter, r *http.Request) {
	b, err := h.Blogs.GetBlogBySlug(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		h.respondWithAppError(w, r, h.publicMiss(r, fromStore(err, "Failed to retrieve blog"), "Blog not found"))
		return
	}
	respondWithJSON(w, http.StatusOK, b)
}

func (h *HTTPHandler) AdminListBlogs(w http.ResponseWriter, r *http.Request) {
	var status *domain.BlogStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.BlogStatus(raw)
		if s != domain.BlogDraft && s != domain.BlogPublished {
			h.respondWithAppError(w, r, validationError("status must be draft or published"))
			return
		}
		status = &s
	}
	blogs, err := h.Blogs.ListBlogs(r.Context(), status)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to list blogs"))
		return
	}
	respondWithJSON(w, http.StatusOK, blogs)
}

func (h *HTTPHandler) AdminGetBlog(w http.ResponseWriter, r *http.Request) {
	b, err := h.loadBlog(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, b)
}

func (h *HTTPHandler) loadBlog(r *http.Request) (*domain.Blog, error) {
	id, err := pathID(r, "Blog not found")
	if err != nil {
		return nil, err
	}
	b, err := h.Blogs.GetBlogByID(r.Context(), id)
	if err != nil {
		return nil, fromStore(err, "Failed to retrieve blog")
	}
	return b, nil
}

func (h *HTTPHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var input BlogInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if isBlank(input.Title) {
		h.respondWithAppError(w, r, validationError("title is required"))
		return
	}

	b := &domain.Blog{Status: domain.BlogDraft}
	input.apply(b)
	b.Slug = slugOr(input.Slug, b.Title)
	if b.Slug == "" {
		h.respondWithAppError(w, r, validationError("slug cannot be empty"))
		return
	}

	created, err := h.Blogs.CreateBlog(r.Context(), b)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to create blog"))
		return
	}
	h.logger.Info("Blog created", zap.String("id", created.ID), zap.String("slug", created.Slug))
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateBlog keeps the slug stable across title edits unless a new slug
// is supplied, so published links keep working.
func (h *HTTPHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	b, err := h.loadBlog(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	var input BlogInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if input.Title != nil && isBlank(input.Title) {
		h.respondWithAppError(w, r, validationError("title cannot be empty"))
		return
	}
	input.apply(b)
	if input.Slug != nil {
		s := slug.Make(*input.Slug)
		if s == "" {
			h.respondWithAppError(w, r, validationError("slug cannot be empty"))
			return
		}
		b.Slug = s
	}

	updated, err := h.Blogs.UpdateBlog(r.Context(), b)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to update blog"))
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "Blog not found", "Failed to delete blog", h.Blogs.DeleteBlog)
}

// --- Catalogues ---

type CatalogueInput struct {
	Title        *string                   `json:"title" validate:"omitempty,max=255"`
	Description  *string                   `json:"description"`
	FileURL      *string                   `json:"fileUrl" validate:"omitempty,url"`
	FileType     *domain.CatalogueFileType `json:"fileType" validate:"omitempty,oneof=pdf image url"`
	ThumbnailURL *string                   `json:"thumbnailUrl"`
	DisplayOrder *int                      `json:"displayOrder" validate:"omitempty,gte=0"`
	Status       *domain.Status            `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in CatalogueInput) apply(c *domain.Catalogue) {
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	setString(&c.Description, in.Description)
	setString(&c.FileURL, in.FileURL)
	if in.FileType != nil {
		c.FileType = *in.FileType
	}
	setString(&c.ThumbnailURL, in.ThumbnailURL)
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
}

// defaultCatalogues is the brochure set inserted by SeedCatalogues.
var defaultCatalogues = []domain.Catalogue{
	{Title: "Marble Collection", Description: "Italian and exotic marbles for floors, walls and feature surfaces.", FileType: domain.CatalogueFilePDF, DisplayOrder: 1},
	{Title: "Granite Collection", Description: "Hard-wearing granites for kitchens, facades and landscaping.", FileType: domain.CatalogueFilePDF, DisplayOrder: 2},
	{Title: "Onyx Collection", Description: "Translucent onyx slabs for backlit and statement installations.", FileType: domain.CatalogueFilePDF, DisplayOrder: 3},
	{Title: "Quartzite Collection", Description: "Natural quartzites combining marble looks with granite strength.", FileType: domain.CatalogueFilePDF, DisplayOrder: 4},
	{Title: "Project Portfolio", Description: "Selected residential, hospitality and commercial installations.", FileType: domain.CatalogueFilePDF, DisplayOrder: 5},
}

func (h *HTTPHandler) ListCatalogues(w http.ResponseWriter, r *http.Request) {
	active := domain.StatusActive
	catalogues, err := h.Catalogues.ListCatalogues(r.Context(), &active)
	if err != nil {
		h.logger.Warn("Listing catalogues failed, serving empty list", zap.Error(err))
		catalogues = []domain.Catalogue{}
	}
	respondWithJSON(w, http.StatusOK, catalogues)
}

func (h *HTTPHandler) AdminListCatalogues(w http.ResponseWriter, r *http.Request) {
	status, err := statusFromQuery(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	catalogues, err := h.Catalogues.ListCatalogues(r.Context(), status)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to list catalogues"))
		return
	}
	respondWithJSON(w, http.StatusOK, catalogues)
}

func (h *HTTPHandler) CreateCatalogue(w http.ResponseWriter, r *http.Request) {
	var input CatalogueInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if isBlank(input.Title) {
		h.respondWithAppError(w, r, validationError("title is required"))
		return
	}
	if isBlank(input.FileURL) {
		h.respondWithAppError(w, r, validationError("fileUrl is required"))
		return
	}

	c := &domain.Catalogue{FileType: domain.CatalogueFilePDF, Status: domain.StatusActive}
	input.apply(c)
	created, err := h.Catalogues.CreateCatalogue(r.Context(), c)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to create catalogue"))
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// SeedCatalogues inserts the default brochure set into an empty table.
// A table that already has rows is left alone and inserted is 0.
func (h *HTTPHandler) SeedCatalogues(w http.ResponseWriter, r *http.Request) {
	n, err := h.Catalogues.CountCatalogues(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to count catalogues"))
		return
	}
	inserted := 0
	if n == 0 {
		for _, c := range defaultCatalogues {
			c.Status = domain.StatusActive
			if _, err := h.Catalogues.CreateCatalogue(r.Context(), &c); err != nil {
				h.respondWithAppError(w, r, fromStore(err, "Failed to seed catalogues"))
				return
			}
			inserted++
		}
		h.logger.Info("Seeded default catalogues", zap.Int("inserted", inserted))
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

func (h *HTTPHandler) UpdateCatalogue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Catalogue not found")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	c, err := h.Catalogues.GetCatalogueByID(r.Context(), id)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to retrieve catalogue"))
		return
	}
	var input CatalogueInput
	if err := h.decodeAndValidate(r, &input); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if input.Title != nil && isBlank(input.Title) {
		h.respondWithAppError(w, r, validationError("title cannot be empty"))
		return
	}
	input.apply(c)

	updated, err := h.Catalogues.UpdateCatalogue(r.Context(), c)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to update catalogue"))
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) ToggleCatalogueStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Catalogue not found")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	c, err := h.Catalogues.ToggleCatalogueStatus(r.Context(), id)
	if err != nil {
		h.respondWithAppError(w, r, fromStore(err, "Failed to toggle catalogue status"))
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) DeleteCatalogue(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "Catalogue not found", "Failed to delete catalogue", h.Catalogues.DeleteCatalogue)
}

// --- Shared ---

// slugOr derives a slug from the explicit value when one is given and
// from fallback otherwise.
func slugOr(explicit *string, fallback string) string {
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		return slug.Make(*explicit)
	}
	return slug.Make(fallback)
}

func (h *HTTPHandler) deleteByID(w http.ResponseWriter, r *http.Request, notFound, failed string, del func(context.Context, string) error) {
	id, err := pathID(r, notFound)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		h.respondWithAppError(w, r, fromStore(err, failed))
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
