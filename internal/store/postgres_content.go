package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stone-catalog-service/internal/domain"
)

// --- ProjectStorer Implementation ---

const projectColumns = `id, title, slug, client_name, year, project_status, category, featured_image, gallery,
		description, location, scope, display_order, is_active, created_at, updated_at`

func (s *PostgresStore) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := `
		INSERT INTO projects (title, slug, client_name, year, project_status, category, featured_image, gallery,
			description, location, scope, display_order, is_active)
		VALUES (:title, :slug, :client_name, :year, :project_status, :category, :featured_image, :gallery,
			:description, :location, :scope, :display_order, :is_active)
		RETURNING ` + projectColumns

	var created domain.Project
	if err := s.namedGet(ctx, &created, query, project); err != nil {
		return nil, fmt.Errorf("store: CreateProject failed: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := s.db.GetContext(ctx, &p, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("store: GetProjectByID failed: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	var p domain.Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1 AND is_active = TRUE
		ORDER BY display_order ASC, created_at ASC LIMIT 1`
	if err := s.db.GetContext(ctx, &p, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("store: GetProjectBySlug failed: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context, params ListProjectsParams) ([]domain.Project, error) {
	var where []string
	var args []interface{}
	if params.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}
	if params.Category != "" {
		args = append(args, params.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if params.ProjectStatus != "" {
		args = append(args, params.ProjectStatus)
		where = append(where, fmt.Sprintf("project_status = $%d", len(args)))
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY display_order ASC, year DESC, created_at DESC`

	projects := []domain.Project{}
	if err := s.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("store: ListProjects failed: %w", err)
	}
	return projects, nil
}

func (s *PostgresStore) CountProjects(ctx context.Context) (*domain.ProjectCounts, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE project_status = 'ongoing') AS ongoing,
			COUNT(*) FILTER (WHERE project_status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE project_status = 'awarded') AS awarded
		FROM projects
		WHERE is_active = TRUE`
	var counts domain.ProjectCounts
	if err := s.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("store: CountProjects failed: %w", err)
	}
	return &counts, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := `
		UPDATE projects
		SET title = :title, slug = :slug, client_name = :client_name, year = :year, project_status = :project_status,
			category = :category, featured_image = :featured_image, gallery = :gallery, description = :description,
			location = :location, scope = :scope, display_order = :display_order, is_active = :is_active,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
		RETURNING ` + projectColumns

	var updated domain.Project
	if err := s.namedGet(ctx, &updated, query, project); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("store: UpdateProject failed: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "projects", id, ErrProjectNotFound)
}

// namedGet runs a named query that returns a single row and scans it into dest.
func (s *PostgresStore) namedGet(ctx context.Context, dest interface{}, query string, arg interface{}) error {
	rows, err := s.db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.StructScan(dest)
}

// --- BlogStorer Implementation ---

const blogColumns = `id, title, slug, content, featured_image, meta_title, meta_description, status, created_at, updated_at`

func (s *PostgresStore) CreateBlog(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	query := `
		INSERT INTO blogs (title, slug, content, featured_image, meta_title, meta_description, status)
		VALUES (:title, :slug, :content, :featured_image, :meta_title, :meta_description, :status)
		RETURNING ` + blogColumns

	var created domain.Blog
	if err := s.namedGet(ctx, &created, query, blog); err != nil {
		if isUniqueViolation(err, "blogs_slug_key") {
			return nil, ErrBlogSlugExists
		}
		return nil, fmt.Errorf("store: CreateBlog failed: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetBlogByID(ctx context.Context, id string) (*domain.Blog, error) {
	var b domain.Blog
	if err := s.db.GetContext(ctx, &b, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("store: GetBlogByID failed: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) GetBlogBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE slug = $1`
	if publishedOnly {
		query += ` AND status = 'published'`
	}
	var b domain.Blog
	if err := s.db.GetContext(ctx, &b, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("store: GetBlogBySlug failed: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) ListBlogs(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	blogs := []domain.Blog{}
	if err := s.db.SelectContext(ctx, &blogs, query, args...); err != nil {
		return nil, fmt.Errorf("store: ListBlogs failed: %w", err)
	}
	return blogs, nil
}

func (s *PostgresStore) UpdateBlog(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	query := `
		UPDATE blogs
		SET title = :title, slug = :slug, content = :content, featured_image = :featured_image,
			meta_title = :meta_title, meta_description = :meta_description, status = :status,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
		RETURNING ` + blogColumns

	var updated domain.Blog
	if err := s.namedGet(ctx, &updated, query, blog); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogNotFound
		}
		if isUniqueViolation(err, "blogs_slug_key") {
			return nil, ErrBlogSlugExists
		}
		return nil, fmt.Errorf("store: UpdateBlog failed: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteBlog(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "blogs", id, ErrBlogNotFound)
}

// --- CatalogueStorer Implementation ---

const catalogueColumns = `id, title, description, file_url, file_type, thumbnail_url, display_order, status, created_at, updated_at`

func (s *PostgresStore) CreateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error) {
	query := `
		INSERT INTO catalogues (title, description, file_url, file_type, thumbnail_url, display_order, status)
		VALUES (:title, :description, :file_url, :file_type, :thumbnail_url, :display_order, :status)
		RETURNING ` + catalogueColumns

	var created domain.Catalogue
	if err := s.namedGet(ctx, &created, query, catalogue); err != nil {
		return nil, fmt.Errorf("store: CreateCatalogue failed: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetCatalogueByID(ctx context.Context, id string) (*domain.Catalogue, error) {
	var c domain.Catalogue
	if err := s.db.GetContext(ctx, &c, `SELECT `+catalogueColumns+` FROM catalogues WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatalogueNotFound
		}
		return nil, fmt.Errorf("store: GetCatalogueByID failed: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) ListCatalogues(ctx context.Context, status *domain.Status) ([]domain.Catalogue, error) {
	query := `SELECT ` + catalogueColumns + ` FROM catalogues`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY display_order ASC, created_at ASC`

	catalogues := []domain.Catalogue{}
	if err := s.db.SelectContext(ctx, &catalogues, query, args...); err != nil {
		return nil, fmt.Errorf("store: ListCatalogues failed: %w", err)
	}
	return catalogues, nil
}

func (s *PostgresStore) CountCatalogues(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM catalogues`); err != nil {
		return 0, fmt.Errorf("store: CountCatalogues failed: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) UpdateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error) {
	query := `
		UPDATE catalogues
		SET title = :title, description = :description, file_url = :file_url, file_type = :file_type,
			thumbnail_url = :thumbnail_url, display_order = :display_order, status = :status,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
		RETURNING ` + catalogueColumns

	var updated domain.Catalogue
	if err := s.namedGet(ctx, &updated, query, catalogue); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatalogueNotFound
		}
		return nil, fmt.Errorf("store: UpdateCatalogue failed: %w", err)
	}
	return &updated, nil
}

// ToggleCatalogueStatus flips active/inactive in a single statement.
func (s *PostgresStore) ToggleCatalogueStatus(ctx context.Context, id string) (*domain.Catalogue, error) {
	query := `
		UPDATE catalogues
		SET status = CASE WHEN status = 'active' THEN 'inactive' ELSE 'active' END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + catalogueColumns

	var updated domain.Catalogue
	if err := s.db.GetContext(ctx, &updated, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatalogueNotFound
		}
		return nil, fmt.Errorf("store: ToggleCatalogueStatus failed: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteCatalogue(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "catalogues", id, ErrCatalogueNotFound)
}
