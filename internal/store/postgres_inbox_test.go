package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stone-catalog-service/internal/domain"
)

const testMediaID = "5d4c3b2a-1908-4776-a655-443322110099"

var mediaRowColumns = []string{"id", "url", "type", "created_at"}

func TestPostgresStore_CreateMedia(t *testing.T) {
	db, mock, s := newMockDBAndStore(t)
	defer db.Close()
	now := time.Now()
	url := "https://res.cloudinary.com/demo/image/upload/v1/stone-catalog/onyx.jpg"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO media (url, type) VALUES ($1, $2) RETURNING id, url, type, created_at`)).
		WithArgs(url, "image").
		WillReturnRows(sqlmock.NewRows(mediaRowColumns).AddRow(testMediaID, url, "image", now))

	created, err := s.CreateMedia(context.Background(), &domain.Media{URL: url, Type: "image"})
	require.NoError(t, err)
	assert.Equal(t, testMediaID, created.ID)
	assert.Equal(t, url, created.URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMediaByID_NotFound(t *testing.T) {
	db, mock, s := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, url, type, created_at FROM media WHERE id = $1`)).
		WithArgs(testMediaID).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetMediaByID(context.Background(), testMediaID)
	assert.ErrorIs(t, err, ErrMediaNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListMedia_Empty(t *testing.T) {
	db, mock, s := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, url, type, created_at FROM media ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(mediaRowColumns))

	media, err := s.ListMedia(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, media)
	assert.Empty(t, media)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListEnquiries_StatusFilter(t *testing.T) {
	db, mock, s := newMockDBAndStore(t)
	defer db.Close()
	status := domain.EnquiryNew

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+enquiryColumns+` FROM enquiries WHERE status = $1 ORDER BY created_at DESC`)).
		WithArgs("new").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "message", "source", "status", "created_at"}).
			AddRow("e1", "Asha", "asha@example.com", "", "Need slabs", "contact", "new", time.Now()))

	enquiries, err := s.ListEnquiries(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, enquiries, 1)
	assert.Equal(t, domain.EnquiryNew, enquiries[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
