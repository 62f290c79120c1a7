package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"selfie-filter-backend/internal/models"
)

// MemoryStore is a PhotoStore for running without DATABASE_URL. Records are
// lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	photos map[int64]models.Photo
	nextID int64
	now    func() time.Time
}

var _ PhotoStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		photos: make(map[int64]models.Photo),
		now:    time.Now,
	}
}

// WithClock replaces the timestamp source. Used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) CreatePhoto(ctx context.Context, name, path string) (*models.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	photo := models.Photo{
		ID:        s.nextID,
		Name:      name,
		Path:      path,
		CreatedAt: s.now().UTC(),
	}
	s.photos[photo.ID] = photo
	return &photo, nil
}

func (s *MemoryStore) ListPhotos(ctx context.Context) ([]models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	photos := make([]models.Photo, 0, len(s.photos))
	for _, photo := range s.photos {
		photos = append(photos, photo)
	}
	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.After(photos[j].CreatedAt)
		}
		return photos[i].ID > photos[j].ID
	})
	return photos, nil
}

func (s *MemoryStore) GetPhoto(ctx context.Context, id int64) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	photo, ok := s.photos[id]
	if !ok {
		return nil, fmt.Errorf("failed to get photo %d: %w", id, ErrNotFound)
	}
	return &photo, nil
}

func (s *MemoryStore) UpdateFavorite(ctx context.Context, id int64, favorite bool) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photo, ok := s.photos[id]
	if !ok {
		return nil, fmt.Errorf("failed to update photo %d: %w", id, ErrNotFound)
	}
	photo.Favorite = favorite
	s.photos[id] = photo
	return &photo, nil
}

func (s *MemoryStore) DeletePhoto(ctx context.Context, id int64) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photo, ok := s.photos[id]
	if !ok {
		return nil, fmt.Errorf("failed to delete photo %d: %w", id, ErrNotFound)
	}
	delete(s.photos, id)
	return &photo, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
