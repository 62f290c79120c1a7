package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"selfie-filter-backend/internal/models"
)

// PostgresStore keeps photos in the fotos table.
type PostgresStore struct {
	db *sql.DB
}

var _ PhotoStore = (*PostgresStore)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, connectionString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*models.Photo, error) {
	var photo models.Photo
	err := row.Scan(&photo.ID, &photo.Name, &photo.Path, &photo.Favorite, &photo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (s *PostgresStore) CreatePhoto(ctx context.Context, name, path string) (*models.Photo, error) {
	photo, err := scanPhoto(s.db.QueryRowContext(ctx, `
		INSERT INTO fotos (nome, caminho, favorita)
		VALUES ($1, $2, $3)
		RETURNING `+photoColumns,
		name, path, false))
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}
	return photo, nil
}

func (s *PostgresStore) ListPhotos(ctx context.Context) ([]models.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+photoColumns+`
		FROM fotos
		ORDER BY data_criacao DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, *photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, nil
}

func (s *PostgresStore) GetPhoto(ctx context.Context, id int64) (*models.Photo, error) {
	photo, err := scanPhoto(s.db.QueryRowContext(ctx, `
		SELECT `+photoColumns+`
		FROM fotos
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get photo %d: %w", id, err)
	}
	return photo, nil
}

func (s *PostgresStore) UpdateFavorite(ctx context.Context, id int64, favorite bool) (*models.Photo, error) {
	photo, err := scanPhoto(s.db.QueryRowContext(ctx, `
		UPDATE fotos
		SET favorita = $1
		WHERE id = $2
		RETURNING `+photoColumns,
		favorite, id))
	if err != nil {
		return nil, fmt.Errorf("failed to update photo %d: %w", id, err)
	}
	return photo, nil
}

func (s *PostgresStore) DeletePhoto(ctx context.Context, id int64) (*models.Photo, error) {
	photo, err := scanPhoto(s.db.QueryRowContext(ctx, `
		DELETE FROM fotos
		WHERE id = $1
		RETURNING `+photoColumns,
		id))
	if err != nil {
		return nil, fmt.Errorf("failed to delete photo %d: %w", id, err)
	}
	return photo, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
