package database

import (
	"context"
	"errors"

	"selfie-filter-backend/internal/models"
)

// ErrNotFound is returned when no photo has the requested id.
var ErrNotFound = errors.New("photo not found")

// PhotoStore persists photo records. Implementations own id assignment,
// creation timestamps and ordering.
type PhotoStore interface {
	CreatePhoto(ctx context.Context, name, path string) (*models.Photo, error)
	// ListPhotos returns every photo, newest first.
	ListPhotos(ctx context.Context) ([]models.Photo, error)
	GetPhoto(ctx context.Context, id int64) (*models.Photo, error)
	UpdateFavorite(ctx context.Context, id int64, favorite bool) (*models.Photo, error)
	// DeletePhoto removes the record and returns it as it was.
	DeletePhoto(ctx context.Context, id int64) (*models.Photo, error)
	Close() error
}

const photoColumns = "id, nome, caminho, favorita, data_criacao"
