package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp" // For sqlmock query matching
	"testing"
	"time"

	"stone-catalog-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCollectionID = "7b3c5a1e-8f7d-4b8e-9a51-0c2d3e4f5a6b"
	testProductID    = "1f0e9d8c-7b6a-4958-8372-615049382716"
)

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(sqlx.NewDb(db, "postgres"), nil)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

func PtrTo[T any](v T) *T {
	return &v
}

var collectionRowColumns = []string{
	"id", "name", "slug", "description", "tagline", "tagline2", "tagline3",
	"image", "display_order", "status", "created_at", "updated_at",
}

func collectionRow(rows *sqlmock.Rows, id, name, slug string, order int, now time.Time) *sqlmock.Rows {
	return rows.AddRow(id, name, slug, "", "", "", "", "", order, "active", now, now)
}

func TestPostgresStore_CreateCollection(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	toCreate := &domain.Collection{
		Name:         "Exotic Color",
		Slug:         "exotic-color",
		Description:  "Rare stones",
		DisplayOrder: 3,
		Status:       domain.StatusActive,
	}

	query := regexp.QuoteMeta(`INSERT INTO collections (name, slug, description, tagline, tagline2, tagline3, image, display_order, status)`)
	rows := collectionRow(sqlmock.NewRows(collectionRowColumns), testCollectionID, toCreate.Name, toCreate.Slug, 3, now)

	mock.ExpectQuery(query).
		WithArgs(toCreate.Name, toCreate.Slug, toCreate.Description, "", "", "", "", 3, "active").
		WillReturnRows(rows)

	created, err := store.CreateCollection(context.Background(), toCreate)

	require.NoError(t, err, "CreateCollection should not return an error")
	require.NotNil(t, created)
	assert.Equal(t, testCollectionID, created.ID)
	assert.Equal(t, "exotic-color", created.Slug)
	assert.Equal(t, 3, created.DisplayOrder)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.WithinDuration(t, now, created.CreatedAt, time.Second)

	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_GetCollectionBySlug_Found(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	query := regexp.QuoteMeta(`FROM collections WHERE slug = $1`)
	rows := collectionRow(sqlmock.NewRows(collectionRowColumns), testCollectionID, "Onyx", "onyx", 0, now)
	mock.ExpectQuery(query).WithArgs("onyx").WillReturnRows(rows)

	c, err := store.GetCollectionBySlug(context.Background(), "onyx")

	require.NoError(t, err)
	assert.Equal(t, "Onyx", c.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCollectionByName_IsCaseInsensitive(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`FROM collections WHERE LOWER(name) = LOWER($1)`)
	rows := collectionRow(sqlmock.NewRows(collectionRowColumns), testCollectionID, "Italian Marble", "italian-marble", 1, time.Now())
	mock.ExpectQuery(query).WithArgs("ITALIAN marble").WillReturnRows(rows)

	c, err := store.GetCollectionByName(context.Background(), "ITALIAN marble")

	require.NoError(t, err)
	assert.Equal(t, "italian-marble", c.Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCollectionByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM collections WHERE id = $1`)).
		WithArgs(testCollectionID).
		WillReturnError(sql.ErrNoRows)

	c, err := store.GetCollectionByID(context.Background(), testCollectionID)

	require.Error(t, err, "Expected an error for not found collection")
	assert.True(t, errors.Is(err, ErrCollectionNotFound), "Error should be ErrCollectionNotFound")
	assert.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCollections_FiltersByStatus(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	query := regexp.QuoteMeta(`FROM collections WHERE status = $1 ORDER BY display_order ASC, name ASC;`)
	rows := sqlmock.NewRows(collectionRowColumns)
	collectionRow(rows, testCollectionID, "Marble", "marble", 0, now)
	collectionRow(rows, "2a2b2c2d-0000-4000-8000-000000000002", "Granite", "granite", 1, now)
	mock.ExpectQuery(query).WithArgs("active").WillReturnRows(rows)

	active := domain.StatusActive
	collections, err := store.ListCollections(context.Background(), ListCollectionsParams{Status: &active})

	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, "Marble", collections[0].Name)
	assert.Equal(t, "Granite", collections[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCollections_EmptyIsNotNil(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM collections ORDER BY display_order ASC, name ASC;`)).
		WillReturnRows(sqlmock.NewRows(collectionRowColumns))

	collections, err := store.ListAllCollections(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, collections)
	assert.Empty(t, collections)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_NextCollectionOrder(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM collections;`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	next, err := store.NextCollectionOrder(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, next)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCollection_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	toUpdate := &domain.Collection{ID: testCollectionID, Name: "Gone", Slug: "gone", Status: domain.StatusActive}
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE collections`)).
		WithArgs("Gone", "gone", "", "", "", "", "", 0, "active", testCollectionID).
		WillReturnError(sql.ErrNoRows)

	_, err := store.UpdateCollection(context.Background(), toUpdate)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCollectionNotFound), "Error should be ErrCollectionNotFound")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCollectionSlug(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`UPDATE collections SET slug = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2;`)
	mock.ExpectExec(query).WithArgs("exotic-colors", testCollectionID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("x", "00000000-0000-4000-8000-000000000000").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.UpdateCollectionSlug(context.Background(), testCollectionID, "exotic-colors"))
	err := store.UpdateCollectionSlug(context.Background(), "00000000-0000-4000-8000-000000000000", "x")
	assert.True(t, errors.Is(err, ErrCollectionNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteCollection_Success(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`DELETE FROM collections WHERE id = $1;`)
	mock.ExpectExec(query).WithArgs(testCollectionID).WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.DeleteCollection(context.Background(), testCollectionID)

	require.NoError(t, err, "DeleteCollection should not return an error on success")
	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_DeleteCollection_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`DELETE FROM collections WHERE id = $1;`)
	mock.ExpectExec(query).WithArgs(testCollectionID).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteCollection(context.Background(), testCollectionID)

	require.Error(t, err, "DeleteCollection should return an error if no rows were affected")
	assert.True(t, errors.Is(err, ErrCollectionNotFound), "Error should be ErrCollectionNotFound")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "blogs_slug_key"}
	assert.True(t, isUniqueViolation(err, "blogs_slug_key"))
	assert.False(t, isUniqueViolation(err, "admins_email_key"))
	assert.False(t, isUniqueViolation(errors.New("other"), "blogs_slug_key"))
}
