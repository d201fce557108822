package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stone-catalog-service/internal/domain"
)

// --- EnquiryStorer Implementation ---

const enquiryColumns = `id, name, email, phone, message, source, status, created_at`

func (s *PostgresStore) CreateEnquiry(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	query := `
		INSERT INTO enquiries (name, email, phone, message, source, status)
		VALUES (:name, :email, :phone, :message, :source, :status)
		RETURNING ` + enquiryColumns

	var created domain.Enquiry
	if err := s.namedGet(ctx, &created, query, enquiry); err != nil {
		return nil, fmt.Errorf("store: CreateEnquiry failed: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetEnquiryByID(ctx context.Context, id string) (*domain.Enquiry, error) {
	var e domain.Enquiry
	if err := s.db.GetContext(ctx, &e, `SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("store: GetEnquiryByID failed: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) ListEnquiries(ctx context.Context, status *domain.EnquiryStatus) ([]domain.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	enquiries := []domain.Enquiry{}
	if err := s.db.SelectContext(ctx, &enquiries, query, args...); err != nil {
		return nil, fmt.Errorf("store: ListEnquiries failed: %w", err)
	}
	return enquiries, nil
}

func (s *PostgresStore) UpdateEnquiryStatus(ctx context.Context, id string, status domain.EnquiryStatus) (*domain.Enquiry, error) {
	var e domain.Enquiry
	query := `UPDATE enquiries SET status = $1 WHERE id = $2 RETURNING ` + enquiryColumns
	if err := s.db.GetContext(ctx, &e, query, status, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("store: UpdateEnquiryStatus failed: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) DeleteEnquiry(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "enquiries", id, ErrEnquiryNotFound)
}

// --- MediaStorer Implementation ---

func (s *PostgresStore) CreateMedia(ctx context.Context, media *domain.Media) (*domain.Media, error) {
	var created domain.Media
	query := `INSERT INTO media (url, type) VALUES ($1, $2) RETURNING id, url, type, created_at`
	if err := s.db.GetContext(ctx, &created, query, media.URL, media.Type); err != nil {
		return nil, fmt.Errorf("store: CreateMedia failed: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetMediaByID(ctx context.Context, id string) (*domain.Media, error) {
	var m domain.Media
	if err := s.db.GetContext(ctx, &m, `SELECT id, url, type, created_at FROM media WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("store: GetMediaByID failed: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) ListMedia(ctx context.Context) ([]domain.Media, error) {
	media := []domain.Media{}
	if err := s.db.SelectContext(ctx, &media, `SELECT id, url, type, created_at FROM media ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("store: ListMedia failed: %w", err)
	}
	return media, nil
}

func (s *PostgresStore) DeleteMedia(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "media", id, ErrMediaNotFound)
}

// --- SettingStorer Implementation ---

func (s *PostgresStore) GetSetting(ctx context.Context, key domain.SettingKey) ([]byte, time.Time, error) {
	var row struct {
		Value     []byte    `db:"value"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := s.db.GetContext(ctx, &row, `SELECT value, updated_at FROM settings WHERE key = $1`, string(key)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrSettingNotFound
		}
		return nil, time.Time{}, fmt.Errorf("store: GetSetting failed: %w", err)
	}
	return row.Value, row.UpdatedAt, nil
}

// PutSetting upserts the value for key.
func (s *PostgresStore) PutSetting(ctx context.Context, key domain.SettingKey, value []byte) (time.Time, error) {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`
	var updatedAt time.Time
	if err := s.db.GetContext(ctx, &updatedAt, query, string(key), value); err != nil {
		return time.Time{}, fmt.Errorf("store: PutSetting failed: %w", err)
	}
	return updatedAt, nil
}

// --- AdminStorer Implementation ---

const adminColumns = `id, email, name, password_hash, reset_token_hash, reset_expires_at, created_at, updated_at`

func (s *PostgresStore) CreateAdmin(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	var created domain.Admin
	query := `INSERT INTO admins (email, name, password_hash) VALUES ($1, $2, $3) RETURNING ` + adminColumns
	if err := s.db.GetContext(ctx, &created, query, admin.Email, admin.Name, admin.PasswordHash); err != nil {
		if isUniqueViolation(err, "admins_email_key") {
			return nil, ErrAdminEmailExists
		}
		return nil, fmt.Errorf("store: CreateAdmin failed: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	if err := s.db.GetContext(ctx, &a, `SELECT `+adminColumns+` FROM admins WHERE LOWER(email) = LOWER($1)`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("store: GetAdminByEmail failed: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) GetAdminByResetToken(ctx context.Context, tokenHash string) (*domain.Admin, error) {
	var a domain.Admin
	if err := s.db.GetContext(ctx, &a, `SELECT `+adminColumns+` FROM admins WHERE reset_token_hash = $1`, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("store: GetAdminByResetToken failed: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) SetAdminResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	query := `UPDATE admins SET reset_token_hash = $1, reset_expires_at = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, tokenHash, expiresAt, id)
	if err != nil {
		return fmt.Errorf("store: SetAdminResetToken failed: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateAdminPassword(ctx context.Context, id string, passwordHash string) error {
	query := `
		UPDATE admins
		SET password_hash = $1, reset_token_hash = NULL, reset_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("store: UpdateAdminPassword failed: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrAdminNotFound
	}
	return nil
}
