package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"selfie-filter-backend/internal/compositor"
	"selfie-filter-backend/internal/database"
	"selfie-filter-backend/internal/filters"
	"selfie-filter-backend/internal/models"
)

// ErrInvalidInput marks requests rejected before anything is written.
var ErrInvalidInput = errors.New("invalid input")

// Compositor burns a filter into a saved file in place.
type Compositor interface {
	Composite(ctx context.Context, basePath, filterID string, override *filters.Descriptor) compositor.Result
}

// Mirror keeps a copy of saved files outside the uploads directory.
type Mirror interface {
	Upload(fileName string, data []byte) error
	Remove(fileName string) error
}

type PhotoServiceConfig struct {
	UploadDir string
	// URLPrefix is the public path the uploads directory is served under.
	URLPrefix   string
	DeleteFiles bool
	Mirror      Mirror
	Logger      *slog.Logger
}

type PhotoService struct {
	store       database.PhotoStore
	compositor  Compositor
	mirror      Mirror
	uploadDir   string
	urlPrefix   string
	deleteFiles bool
	logger      *slog.Logger
	now         func() time.Time
}

func NewPhotoService(store database.PhotoStore, comp Compositor, cfg PhotoServiceConfig) *PhotoService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefix := "/" + strings.Trim(cfg.URLPrefix, "/")
	if cfg.URLPrefix == "" {
		prefix = "/uploads"
	}
	return &PhotoService{
		store:       store,
		compositor:  comp,
		mirror:      cfg.Mirror,
		uploadDir:   cfg.UploadDir,
		urlPrefix:   prefix,
		deleteFiles: cfg.DeleteFiles,
		logger:      logger,
		now:         time.Now,
	}
}

type UploadInput struct {
	Name string
	Data []byte
	// Ext is the extension to save under, e.g. ".png". Sniffed from Data when empty or unknown.
	Ext      string
	FilterID string
	Override *filters.Descriptor
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Upload saves the image, applies the filter and records the photo.
// A filter that cannot be applied never fails the upload.
func (s *PhotoService) Upload(ctx context.Context, in UploadInput) (*models.Photo, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}

	fileName := s.newFileName(resolveExtension(in.Ext, in.Data))
	filePath := filepath.Join(s.uploadDir, fileName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(filePath, in.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	if in.FilterID != "" {
		result := s.compositor.Composite(ctx, filePath, in.FilterID, in.Override)
		if !result.Applied {
			s.logger.Debug("Photo saved without filter", "file", fileName, "filter", in.FilterID, "reason", result.Reason)
		}
	}

	s.mirrorUpload(fileName, filePath)

	photo, err := s.store.CreatePhoto(ctx, name, s.urlPrefix+"/"+fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}

	s.logger.Info("Photo uploaded", "id", photo.ID, "path", photo.Path, "filter", in.FilterID)
	return photo, nil
}

func (s *PhotoService) newFileName(ext string) string {
	return fmt.Sprintf("imagem_%d_%s%s", s.now().UnixNano(), uuid.NewString()[:8], ext)
}

func (s *PhotoService) mirrorUpload(fileName, filePath string) {
	if s.mirror == nil {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		s.logger.Warn("Failed to read photo for mirroring", "file", fileName, "error", err)
		return
	}
	if err := s.mirror.Upload(fileName, data); err != nil {
		s.logger.Warn("Failed to mirror photo", "file", fileName, "error", err)
	}
}

func resolveExtension(ext string, data []byte) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if imageExtensions[ext] {
		return ext
	}
	return extensionForMediaType(http.DetectContentType(data))
}

func extensionForMediaType(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

var dataURIPrefix = regexp.MustCompile(`^data:([a-zA-Z0-9.+/-]+)?(;[^,]*)?,`)

// DecodeDataURI accepts "data:image/<type>;base64,<payload>" or a bare base64
// payload and returns the bytes with the extension they should be saved under.
func DecodeDataURI(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	ext := ""
	if m := dataURIPrefix.FindStringSubmatch(s); m != nil {
		if m[1] != "" {
			ext = extensionForMediaType(m[1])
		}
		s = s[len(m[0]):]
	}

	data, err := decodeBase64(s)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image is not valid base64", ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}
	if ext == "" {
		ext = resolveExtension("", data)
	}
	return data, ext, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// CreateRecord stores metadata for an image saved elsewhere.
func (s *PhotoService) CreateRecord(ctx context.Context, name, photoPath string) (*models.Photo, error) {
	name = strings.TrimSpace(name)
	photoPath = strings.TrimSpace(photoPath)
	if name == "" || photoPath == "" {
		return nil, fmt.Errorf("%w: name and path are required", ErrInvalidInput)
	}
	photo, err := s.store.CreatePhoto(ctx, name, photoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}
	return photo, nil
}

func (s *PhotoService) List(ctx context.Context) ([]models.Photo, error) {
	return s.store.ListPhotos(ctx)
}

func (s *PhotoService) Get(ctx context.Context, id int64) (*models.Photo, error) {
	return s.store.GetPhoto(ctx, id)
}

func (s *PhotoService) SetFavorite(ctx context.Context, id int64, favorite bool) (*models.Photo, error) {
	return s.store.UpdateFavorite(ctx, id, favorite)
}

// Delete removes the record, then the file it points to when the file lives
// in the uploads directory. File cleanup failures are only logged.
func (s *PhotoService) Delete(ctx context.Context, id int64) (*models.Photo, error) {
	photo, err := s.store.DeletePhoto(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.deleteFiles {
		s.removeFiles(photo.Path)
	}
	return photo, nil
}

func (s *PhotoService) removeFiles(photoPath string) {
	fileName, ok := s.uploadedFileName(photoPath)
	if !ok {
		s.logger.Debug("Photo path is outside the uploads directory, keeping file", "path", photoPath)
		return
	}

	if err := os.Remove(filepath.Join(s.uploadDir, fileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove photo file", "file", fileName, "error", err)
	}
	if s.mirror != nil {
		if err := s.mirror.Remove(fileName); err != nil {
			s.logger.Warn("Failed to remove mirrored photo", "file", fileName, "error", err)
		}
	}
}

// uploadedFileName returns the bare file name of a path under the uploads
// prefix, refusing anything that would escape the directory.
func (s *PhotoService) uploadedFileName(photoPath string) (string, bool) {
	rest, ok := strings.CutPrefix(photoPath, s.urlPrefix+"/")
	if !ok || rest == "" {
		return "", false
	}
	if path.Base(rest) != rest || rest == "." || rest == ".." {
		return "", false
	}
	return rest, true
}
