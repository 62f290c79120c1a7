package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"selfie-filter-backend/internal/database"
)

var photoColumns = []string{"id", "nome", "caminho", "favorita", "data_criacao"}

func newMockStore(t *testing.T) (*database.PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewPostgresStore(db), mock
}

func TestPostgresStore_CreatePhoto(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO fotos").
		WithArgs("selfie", "/uploads/a.jpg", false).
		WillReturnRows(sqlmock.NewRows(photoColumns).AddRow(int64(7), "selfie", "/uploads/a.jpg", false, created))

	photo, err := store.CreatePhoto(context.Background(), "selfie", "/uploads/a.jpg")

	require.NoError(t, err)
	assert.Equal(t, int64(7), photo.ID)
	assert.Equal(t, "/uploads/a.jpg", photo.Path)
	assert.Equal(t, created, photo.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreatePhotoFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO fotos").WillReturnError(errors.New("connection refused"))

	_, err := store.CreatePhoto(context.Background(), "selfie", "/uploads/a.jpg")

	require.Error(t, err)
	assert.NotErrorIs(t, err, database.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPostgresStore_ListPhotos(t *testing.T) {
	store, mock := newMockStore(t)
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM fotos ORDER BY data_criacao DESC").
		WillReturnRows(sqlmock.NewRows(photoColumns).
			AddRow(int64(2), "b", "/uploads/b.jpg", true, newer).
			AddRow(int64(1), "a", "/uploads/a.jpg", false, older))

	photos, err := store.ListPhotos(context.Background())

	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, int64(2), photos[0].ID)
	assert.True(t, photos[0].Favorite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListPhotosEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM fotos").WillReturnRows(sqlmock.NewRows(photoColumns))

	photos, err := store.ListPhotos(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, photos)
	assert.Empty(t, photos)
}

func TestPostgresStore_GetPhotoNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM fotos WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(photoColumns))

	_, err := store.GetPhoto(context.Background(), 42)

	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPostgresStore_UpdateFavorite(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE fotos SET favorita").
		WithArgs(true, int64(3)).
		WillReturnRows(sqlmock.NewRows(photoColumns).AddRow(int64(3), "c", "/uploads/c.jpg", true, created))

	photo, err := store.UpdateFavorite(context.Background(), 3, true)

	require.NoError(t, err)
	assert.True(t, photo.Favorite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeletePhoto(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("DELETE FROM fotos").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(photoColumns).AddRow(int64(3), "c", "/uploads/c.jpg", false, created))
	mock.ExpectQuery("DELETE FROM fotos").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(photoColumns))

	photo, err := store.DeletePhoto(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "c", photo.Name)

	_, err = store.DeletePhoto(context.Background(), 3)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_AppliesPendingMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("001_create_fotos.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS fotos").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("001_create_fotos.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	applied, err := database.NewMigrator(db).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_fotos.sql"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_SkipsAppliedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("001_create_fotos.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	applied, err := database.NewMigrator(db).Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS fotos").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	_, err = database.NewMigrator(db).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_create_fotos.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
