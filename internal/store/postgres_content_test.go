package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"stone-catalog-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProjectID = "7d1c2b3a-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

var projectRowColumns = []string{
	"id", "title", "slug", "client_name", "year", "project_status", "category", "featured_image", "gallery",
	"description", "location", "scope", "display_order", "is_active", "created_at", "updated_at",
}

func TestPostgresStore_CreateProject(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(projectRowColumns).AddRow(
		testProjectID, "Grand Hotel Lobby", "grand-hotel-lobby", "Grand Hotel", 2023, "completed", "Hospitality", "",
		[]byte(`{"https://cdn.example/1.jpg","https://cdn.example/2.jpg"}`),
		"", "Dubai", "Flooring", 0, true, now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO projects (title, slug, client_name`)).
		WithArgs(toDriverArgs(anyArgs(13))...).
		WillReturnRows(rows)

	created, err := store.CreateProject(context.Background(), &domain.Project{
		Title:         "Grand Hotel Lobby",
		Slug:          "grand-hotel-lobby",
		ClientName:    "Grand Hotel",
		Year:          2023,
		ProjectStatus: domain.ProjectCompleted,
		Category:      "Hospitality",
		Gallery:       pq.StringArray{"https://cdn.example/1.jpg", "https://cdn.example/2.jpg"},
		Location:      "Dubai",
		Scope:         "Flooring",
		IsActive:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, testProjectID, created.ID)
	assert.Equal(t, domain.ProjectCompleted, created.ProjectStatus)
	assert.Len(t, created.Gallery, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProjectBySlug_ActiveOnly(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM projects WHERE slug = $1 AND is_active = TRUE`)).
		WithArgs("hidden-project").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetProjectBySlug(context.Background(), "hidden-project")

	assert.True(t, errors.Is(err, ErrProjectNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProjects_Filters(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM projects WHERE is_active = TRUE AND category = $1 AND project_status = $2 ORDER BY display_order ASC`)).
		WithArgs("Residential", "ongoing").
		WillReturnRows(sqlmock.NewRows(projectRowColumns))

	projects, err := store.ListProjects(context.Background(), ListProjectsParams{
		ActiveOnly:    true,
		Category:      "Residential",
		ProjectStatus: "ongoing",
	})

	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountProjects(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(*) FILTER (WHERE project_status = 'ongoing') AS ongoing`)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "ongoing", "completed", "awarded"}).AddRow(5, 2, 2, 1))

	counts, err := store.CountProjects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCounts{Total: 5, Ongoing: 2, Completed: 2, Awarded: 1}, *counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateBlog_SlugConflict(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO blogs`)).
		WithArgs(toDriverArgs(anyArgs(7))...).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "blogs_slug_key"})

	_, err := store.CreateBlog(context.Background(), &domain.Blog{Title: "Caring for Marble", Slug: "caring-for-marble", Status: domain.BlogDraft})

	assert.True(t, errors.Is(err, ErrBlogSlugExists))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetBlogBySlug_PublishedOnly(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM blogs WHERE slug = $1 AND status = 'published'`)).
		WithArgs("caring-for-marble").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "content", "featured_image", "meta_title", "meta_description", "status", "created_at", "updated_at"}).
			AddRow("b1", "Caring for Marble", "caring-for-marble", "...", "", "", "", "published", now, now))

	blog, err := store.GetBlogBySlug(context.Background(), "caring-for-marble", true)

	require.NoError(t, err)
	assert.Equal(t, domain.BlogPublished, blog.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ToggleCatalogueStatus(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SET status = CASE WHEN status = 'active' THEN 'inactive' ELSE 'active' END`)).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "file_url", "file_type", "thumbnail_url", "display_order", "status", "created_at", "updated_at"}).
			AddRow("c1", "Collection Brochure", "", "https://cdn.example/b.pdf", "pdf", "", 0, "inactive", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE catalogues`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	toggled, err := store.ToggleCatalogueStatus(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, toggled.Status)

	_, err = store.ToggleCatalogueStatus(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrCatalogueNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutSetting_Upsert(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	value := []byte(`{"url":"https://cdn.example/logo.png","alt":"Logo"}`)
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)).
		WithArgs("logo", value).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	updatedAt, err := store.PutSetting(context.Background(), domain.SettingLogo, value)

	require.NoError(t, err)
	assert.WithinDuration(t, now, updatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetSetting_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value, updated_at FROM settings WHERE key = $1`)).
		WithArgs("footer").
		WillReturnError(sql.ErrNoRows)

	_, _, err := store.GetSetting(context.Background(), domain.SettingFooter)

	assert.True(t, errors.Is(err, ErrSettingNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateAdmin_EmailConflict(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO admins (email, name, password_hash)`)).
		WithArgs("admin@example.com", "Admin", "hash").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "admins_email_key"})

	_, err := store.CreateAdmin(context.Background(), &domain.Admin{Email: "admin@example.com", Name: "Admin", PasswordHash: "hash"})

	assert.True(t, errors.Is(err, ErrAdminEmailExists))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateEnquiryStatus(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE enquiries SET status = $1 WHERE id = $2`)).
		WithArgs("read", "e1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "message", "source", "status", "created_at"}).
			AddRow("e1", "Jane", "jane@example.com", "", "Price list please", "contact", "read", now))

	e, err := store.UpdateEnquiryStatus(context.Background(), "e1", domain.EnquiryRead)

	require.NoError(t, err)
	assert.Equal(t, domain.EnquiryRead, e.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
