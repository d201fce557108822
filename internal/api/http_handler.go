package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stone-catalog-service/internal/apperr"
	"stone-catalog-service/internal/auth"
	"stone-catalog-service/internal/catalog"
	"stone-catalog-service/internal/store"
	"stone-catalog-service/internal/upload"
)

// Pinger reports whether the entity store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of HTTPHandler. Uploader may be nil, in
// which case uploads fail with an upload error. ShowResetLinks logs
// password reset links in full; leave it off outside development.
type Deps struct {
	Products    store.ProductStorer
	Collections store.CollectionStorer
	Projects    store.ProjectStorer
	Blogs       store.BlogStorer
	Catalogues  store.CatalogueStorer
	Enquiries   store.EnquiryStorer
	Media       store.MediaStorer
	Settings    store.SettingStorer
	Admins      store.AdminStorer
	Health      Pinger

	Auth           *auth.Manager
	Uploader       upload.Uploader
	Logger         *zap.Logger
	PublicSiteURL  string
	ResetTokenTTL  time.Duration
	ShowResetLinks bool
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	Deps
	resolver *catalog.Resolver
	validate *validator.Validate
	logger   *zap.Logger
}

// catalogSource joins the two stores the resolver reads from.
type catalogSource struct {
	store.CollectionStorer
	store.ProductStorer
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(d Deps) *HTTPHandler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.ResetTokenTTL <= 0 {
		d.ResetTokenTTL = time.Hour
	}
	return &HTTPHandler{
		Deps:     d,
		resolver: catalog.NewResolver(catalogSource{d.Collections, d.Products}, logger.Named("catalog")),
		validate: validator.New(),
		logger:   logger,
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(code)
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error during JSON encoding"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// respondWithAppError writes err using its apperr kind. Server-side
// failures are logged with the cause; client errors only at debug.
func (h *HTTPHandler) respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Stringer("kind", kind),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Debug("Request rejected", fields...)
	}
	respondWithError(w, status, apperr.MessageOf(err))
}

// storeErrors maps store sentinels onto caller-facing kinds and messages.
var storeErrors = []struct {
	err     error
	kind    apperr.Kind
	message string
}{
	{store.ErrProductNotFound, apperr.KindNotFound, "Product not found"},
	{store.ErrCollectionNotFound, apperr.KindNotFound, "Collection not found"},
	{store.ErrProjectNotFound, apperr.KindNotFound, "Project not found"},
	{store.ErrBlogNotFound, apperr.KindNotFound, "Blog not found"},
	{store.ErrBlogSlugExists, apperr.KindConflict, "A blog with this slug already exists"},
	{store.ErrCatalogueNotFound, apperr.KindNotFound, "Catalogue not found"},
	{store.ErrEnquiryNotFound, apperr.KindNotFound, "Enquiry not found"},
	{store.ErrMediaNotFound, apperr.KindNotFound, "Media not found"},
	{store.ErrSettingNotFound, apperr.KindNotFound, "Setting not found"},
	{store.ErrAdminNotFound, apperr.KindNotFound, "Admin not found"},
	{store.ErrAdminEmailExists, apperr.KindConflict, "An admin with this email already exists"},
}

// fromStore classifies a store error. Anything that is not a known
// sentinel is treated as the store being unreachable.
func fromStore(err error, message string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	for _, se := range storeErrors {
		if errors.Is(err, se.err) {
			return apperr.Wrap(se.kind, err, se.message)
		}
	}
	return apperr.Wrap(apperr.KindConnectivity, err, message)
}

// publicMiss classifies a store error on a public detail read. An
// unreachable store reads as the entity being absent.
func (h *HTTPHandler) publicMiss(r *http.Request, err error, notFound string) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	h.logger.Warn("Public read failed, serving not found",
		zap.String("path", r.URL.Path), zap.Error(err))
	return apperr.New(apperr.KindNotFound, notFound)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
func (h *HTTPHandler) decodeAndValidate(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "Invalid request payload: "+err.Error())
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "Validation failed: "+err.Error())
	}
	return nil
}

// pathID returns the {id} URL parameter. Ids that are not UUIDs cannot
// exist in the store, so they are reported as notFound right away.
func pathID(r *http.Request, notFound string) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperr.New(apperr.KindNotFound, notFound)
	}
	return id, nil
}

func validationError(message string) error {
	return apperr.New(apperr.KindValidation, "Validation failed: "+message)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service. Admin routes
// sit behind the bearer-token middleware. Sibling routes share the {id}
// parameter name; on public reads it carries a slug or collection ref.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	requireAdmin := h.Auth.Middleware(h.respondWithAppError)

	r.Get("/api/healthz", h.Healthz)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
	})

	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/", h.ListCollections)
		r.Get("/{id}", h.GetCollection) // id, slug or name
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/admin", h.AdminListCollections)
			r.Get("/admin/{id}", h.AdminGetCollection)
			r.Post("/", h.CreateCollection)
			r.Post("/repair-slugs", h.RepairCollectionSlugs)
			r.Put("/{id}", h.UpdateCollection)
			r.Delete("/{id}", h.DeleteCollection)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/admin", h.AdminListProducts)
			r.Get("/admin/{id}", h.AdminGetProduct)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Get("/counts", h.CountProjects)
		r.Get("/{id}", h.GetProjectBySlug) // slug
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/admin", h.AdminListProjects)
			r.Get("/admin/{id}", h.AdminGetProject)
			r.Post("/", h.CreateProject)
			r.Put("/{id}", h.UpdateProject)
			r.Delete("/{id}", h.DeleteProject)
		})
	})

	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", h.ListBlogs)
		r.Get("/{id}", h.GetBlogBySlug) // slug
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/admin", h.AdminListBlogs)
			r.Get("/admin/{id}", h.AdminGetBlog)
			r.Post("/", h.CreateBlog)
			r.Put("/{id}", h.UpdateBlog)
			r.Delete("/{id}", h.DeleteBlog)
		})
	})

	r.Route("/api/catalogues", func(r chi.Router) {
		r.Get("/", h.ListCatalogues)
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/admin", h.AdminListCatalogues)
			r.Post("/", h.CreateCatalogue)
			r.Post("/seed", h.SeedCatalogues)
			r.Put("/{id}", h.UpdateCatalogue)
			r.Patch("/{id}/toggle-status", h.ToggleCatalogueStatus)
			r.Delete("/{id}", h.DeleteCatalogue)
		})
	})

	r.Route("/api/enquiries", func(r chi.Router) {
		r.Post("/", h.CreateEnquiry)
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", h.ListEnquiries)
			r.Put("/{id}", h.UpdateEnquiry)
			r.Delete("/{id}", h.DeleteEnquiry)
		})
	})

	r.Route("/api/media", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/", h.ListMedia)
		r.Post("/", h.CreateMedia)
		r.Post("/upload", h.UploadMedia)
		r.Delete("/{id}", h.DeleteMedia)
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/{key}", h.GetSetting)
		r.With(requireAdmin).Put("/{key}", h.PutSetting)
	})
}

// Healthz reports service and database status. It always answers 200;
// the payload carries the database state.
func (h *HTTPHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Health.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
			h.logger.Warn("Health check DB ping failed", zap.Error(err))
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
	})
}
