package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"stone-catalog-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrProductNotFound    = errors.New("store: product not found")
	ErrCollectionNotFound = errors.New("store: collection not found")
	ErrProjectNotFound    = errors.New("store: project not found")
	ErrBlogNotFound       = errors.New("store: blog not found")
	ErrBlogSlugExists     = errors.New("store: blog slug already exists")
	ErrCatalogueNotFound  = errors.New("store: catalogue not found")
	ErrEnquiryNotFound    = errors.New("store: enquiry not found")
	ErrMediaNotFound      = errors.New("store: media not found")
	ErrSettingNotFound    = errors.New("store: setting not found")
	ErrAdminNotFound      = errors.New("store: admin not found")
	ErrAdminEmailExists   = errors.New("store: admin email already exists")
)

const uniqueViolation = "23505"

// PostgresStore implements every *Storer interface on top of one connection pool.
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sqlx.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Ping confirms the pool can reach the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Info("Closing database connection pool")
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database connection pool", zap.Error(err))
		return err
	}
	s.logger.Info("Database connection pool closed")
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// --- ProductStorer Implementation ---

const productColumns = `id, code, name, category, collection_id, collection_name,
		description, color, origin, is_bookmatch, is_translucent, is_natural, is_new_arrival,
		grade, compression_strength, impact_test, bulk_density, water_absorption, thermal_expansion, flexural_strength,
		primary_image, images, product_images, status, created_at, updated_at`

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Category, &p.CollectionID, &p.CollectionName,
		&p.Description, &p.Color, &p.Origin, &p.IsBookmatch, &p.IsTranslucent, &p.IsNatural, &p.IsNewArrival,
		&p.Grade, &p.CompressionStrength, &p.ImpactTest, &p.BulkDensity, &p.WaterAbsorption, &p.ThermalExpansion, &p.FlexuralStrength,
		&p.PrimaryImage, &p.Images, &p.ProductImages, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func productArgs(p *domain.Product) []interface{} {
	return []interface{}{
		p.Code, p.Name, p.Category, p.CollectionID, p.CollectionName,
		p.Description, p.Color, p.Origin, p.IsBookmatch, p.IsTranslucent, p.IsNatural, p.IsNewArrival,
		p.Grade, p.CompressionStrength, p.ImpactTest, p.BulkDensity, p.WaterAbsorption, p.ThermalExpansion, p.FlexuralStrength,
		p.PrimaryImage, p.Images, p.ProductImages, p.Status,
	}
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (code, name, category, collection_id, collection_name,
			description, color, origin, is_bookmatch, is_translucent, is_natural, is_new_arrival,
			grade, compression_strength, impact_test, bulk_density, water_absorption, thermal_expansion, flexural_strength,
			primary_image, images, product_images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING ` + productColumns + `;`

	created, err := scanProduct(s.db.QueryRowContext(ctx, query, productArgs(product)...))
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return product, nil
}

// ListProducts returns products in insertion order. Catalogs hold tens to low
// hundreds of products, so callers filter and sort the full set in memory.
func (s *PostgresStore) ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []interface{}
	if params.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *params.Status)
	}
	query += ` ORDER BY created_at ASC, id ASC;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("store: ListProducts failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListProducts iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET code = $1, name = $2, category = $3, collection_id = $4, collection_name = $5,
			description = $6, color = $7, origin = $8, is_bookmatch = $9, is_translucent = $10, is_natural = $11, is_new_arrival = $12,
			grade = $13, compression_strength = $14, impact_test = $15, bulk_density = $16, water_absorption = $17,
			thermal_expansion = $18, flexural_strength = $19,
			primary_image = $20, images = $21, product_images = $22, status = $23, updated_at = CURRENT_TIMESTAMP
		WHERE id = $24
		RETURNING ` + productColumns + `;`

	args := append(productArgs(product), product.ID)
	updated, err := scanProduct(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "products", id, ErrProductNotFound)
}

// deleteByID hard-deletes one row and reports notFound when nothing matched.
func (s *PostgresStore) deleteByID(ctx context.Context, table, id string, notFound error) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: delete from %s failed: %w", table, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete from %s failed to get rows affected: %w", table, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

// --- CollectionStorer Implementation ---

const collectionColumns = `id, name, slug, description, tagline, tagline2, tagline3, image, display_order, status, created_at, updated_at`

func scanCollection(row rowScanner) (*domain.Collection, error) {
	var c domain.Collection
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Tagline, &c.Tagline2, &c.Tagline3,
		&c.Image, &c.DisplayOrder, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) CreateCollection(ctx context.Context, collection *domain.Collection) (*domain.Collection, error) {
	query := `
		INSERT INTO collections (name, slug, description, tagline, tagline2, tagline3, image, display_order, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + collectionColumns + `;`

	created, err := scanCollection(s.db.QueryRowContext(ctx, query,
		collection.Name, collection.Slug, collection.Description,
		collection.Tagline, collection.Tagline2, collection.Tagline3,
		collection.Image, collection.DisplayOrder, collection.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("store: CreateCollection failed to scan row: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) getCollection(ctx context.Context, where string, arg interface{}) (*domain.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE ` + where + ` ORDER BY display_order ASC, created_at ASC LIMIT 1;`
	collection, err := scanCollection(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("store: get collection failed to scan row: %w", err)
	}
	return collection, nil
}

func (s *PostgresStore) GetCollectionByID(ctx context.Context, id string) (*domain.Collection, error) {
	return s.getCollection(ctx, "id = $1", id)
}

func (s *PostgresStore) GetCollectionBySlug(ctx context.Context, slug string) (*domain.Collection, error) {
	return s.getCollection(ctx, "slug = $1", slug)
}

func (s *PostgresStore) GetCollectionByName(ctx context.Context, name string) (*domain.Collection, error) {
	return s.getCollection(ctx, "LOWER(name) = LOWER($1)", name)
}

func (s *PostgresStore) ListCollections(ctx context.Context, params ListCollectionsParams) ([]domain.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections`
	var args []interface{}
	if params.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *params.Status)
	}
	query += ` ORDER BY display_order ASC, name ASC;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: ListCollections failed to query collections: %w", err)
	}
	defer rows.Close()

	collections := []domain.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("store: ListCollections failed to scan collection row: %w", err)
		}
		collections = append(collections, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCollections iteration error: %w", err)
	}
	return collections, nil
}

func (s *PostgresStore) ListAllCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.ListCollections(ctx, ListCollectionsParams{})
}

// NextCollectionOrder is the display order a newly created collection gets
// when the caller does not choose one: its insertion position.
func (s *PostgresStore) NextCollectionOrder(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: NextCollectionOrder failed to count collections: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) UpdateCollection(ctx context.Context, collection *domain.Collection) (*domain.Collection, error) {
	query := `
		UPDATE collections
		SET name = $1, slug = $2, description = $3, tagline = $4, tagline2 = $5, tagline3 = $6,
			image = $7, display_order = $8, status = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
		RETURNING ` + collectionColumns + `;`

	updated, err := scanCollection(s.db.QueryRowContext(ctx, query,
		collection.Name, collection.Slug, collection.Description,
		collection.Tagline, collection.Tagline2, collection.Tagline3,
		collection.Image, collection.DisplayOrder, collection.Status, collection.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("store: UpdateCollection failed to scan row: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) UpdateCollectionSlug(ctx context.Context, id, slug string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE collections SET slug = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2;`, slug, id)
	if err != nil {
		return fmt.Errorf("store: UpdateCollectionSlug failed: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteCollection(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "collections", id, ErrCollectionNotFound)
}
