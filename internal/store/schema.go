package store

import (
	"context"
	"fmt"
)

// schemaStatements create one table per entity. There are deliberately no
// foreign keys: products reference collections only by advisory id.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS collections (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		slug TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		tagline TEXT NOT NULL DEFAULT '',
		tagline2 TEXT NOT NULL DEFAULT '',
		tagline3 TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_slug ON collections(slug)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		code TEXT,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		collection_id UUID,
		collection_name TEXT,
		description TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		origin TEXT NOT NULL DEFAULT '',
		is_bookmatch BOOLEAN NOT NULL DEFAULT FALSE,
		is_translucent BOOLEAN NOT NULL DEFAULT FALSE,
		is_natural BOOLEAN NOT NULL DEFAULT TRUE,
		is_new_arrival BOOLEAN NOT NULL DEFAULT FALSE,
		grade TEXT NOT NULL DEFAULT '',
		compression_strength TEXT NOT NULL DEFAULT '',
		impact_test TEXT NOT NULL DEFAULT '',
		bulk_density TEXT NOT NULL DEFAULT '',
		water_absorption TEXT NOT NULL DEFAULT '',
		thermal_expansion TEXT NOT NULL DEFAULT '',
		flexural_strength TEXT NOT NULL DEFAULT '',
		primary_image TEXT NOT NULL DEFAULT '',
		images JSONB NOT NULL DEFAULT '[]',
		product_images JSONB NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		slug TEXT NOT NULL DEFAULT '',
		client_name TEXT NOT NULL DEFAULT '',
		year INTEGER NOT NULL DEFAULT 0,
		project_status TEXT NOT NULL DEFAULT 'completed',
		category TEXT NOT NULL DEFAULT 'Other',
		featured_image TEXT NOT NULL DEFAULT '',
		gallery TEXT[] NOT NULL DEFAULT '{}',
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		scope TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS blogs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		featured_image TEXT NOT NULL DEFAULT '',
		meta_title TEXT NOT NULL DEFAULT '',
		meta_description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT blogs_slug_key UNIQUE (slug)
	)`,
	`CREATE TABLE IF NOT EXISTS catalogues (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		file_url TEXT NOT NULL DEFAULT '',
		file_type TEXT NOT NULL DEFAULT 'pdf',
		thumbnail_url TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS enquiries (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'new',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS media (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		url TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'image',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		reset_token_hash TEXT,
		reset_expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT admins_email_key UNIQUE (email)
	)`,
}

// EnsureSchema creates any missing tables. It is idempotent and safe to run on every start.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: EnsureSchema failed: %w", err)
		}
	}
	return nil
}
