package supabase

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient mirrors saved photos into a Supabase Storage bucket.
type StorageClient struct {
	baseURL string
	key     string
	bucket  string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if serviceRoleKey == "" {
		return nil, fmt.Errorf("supabase service key is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	return &StorageClient{
		baseURL: baseURL + "/storage/v1",
		key:     serviceRoleKey,
		bucket:  bucket,
	}, nil
}

// api returns a client for a single call. storage-go stores upload options
// in headers shared by all requests of a client.
func (s *StorageClient) api() *storage.Client {
	return storage.NewClient(s.baseURL, s.key, nil)
}

// ObjectPath is the key a saved file is stored under: fotos/<file name>.
func ObjectPath(fileName string) string {
	return "fotos/" + path.Base(fileName)
}

// Upload stores data under ObjectPath(fileName), replacing any previous copy.
func (s *StorageClient) Upload(fileName string, data []byte) error {
	contentType := ContentType(fileName)
	upsert := true
	_, err := s.api().UploadFile(s.bucket, ObjectPath(fileName), bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", fileName, err)
	}
	return nil
}

func (s *StorageClient) Remove(fileName string) error {
	if _, err := s.api().RemoveFile(s.bucket, []string{ObjectPath(fileName)}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", fileName, err)
	}
	return nil
}

// ContentType maps the image extensions the service writes to a MIME type.
func ContentType(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
