// Package compositor burns filter stickers into stored photos.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"selfie-filter-backend/internal/filters"
)

// DefaultJPEGQuality is the quality used when re-encoding lossy output.
const DefaultJPEGQuality = 95

var assetNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Result tells the caller whether the sticker was applied. A skipped result
// is not an error: the uploaded photo stays as the stored artifact.
type Result struct {
	Applied   bool
	Reason    string
	Placement *filters.Placement
}

func applied(p filters.Placement) Result {
	return Result{Applied: true, Placement: &p}
}

func skipped(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Compositor owns the photo file while it is being rewritten.
type Compositor struct {
	catalog     *filters.Catalog
	assetsDir   string
	jpegQuality int
	logger      *slog.Logger
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithJPEGQuality sets the quality for JPEG output.
func WithJPEGQuality(quality int) Option {
	return func(c *Compositor) {
		if quality >= 1 && quality <= 100 {
			c.jpegQuality = quality
		}
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compositor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Compositor that reads sticker PNGs from assetsDir.
func New(catalog *filters.Catalog, assetsDir string, opts ...Option) *Compositor {
	c := &Compositor{
		catalog:     catalog,
		assetsDir:   assetsDir,
		jpegQuality: DefaultJPEGQuality,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AssetPath returns where the sticker image for filterID is expected.
func (c *Compositor) AssetPath(filterID string) (string, error) {
	name := c.catalog.Canonical(filterID)
	if !assetNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid filter id %q", filterID)
	}
	return filepath.Join(c.assetsDir, name+".png"), nil
}

// Composite overlays the sticker for filterID onto the image at basePath and
// replaces the file in place. override, when set, is used instead of the
// catalog descriptor. Failures are logged and reported as skipped.
func (c *Compositor) Composite(ctx context.Context, basePath, filterID string, override *filters.Descriptor) (result Result) {
	if c.catalog.IsOriginal(filterID) {
		return skipped("no filter requested")
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Filter panicked", "filter", filterID, "path", basePath, "panic", r)
			result = skipped("panic: %v", r)
		}
	}()

	result = c.composite(ctx, basePath, filterID, override)
	if result.Applied {
		p := result.Placement
		c.logger.Info("Filter applied",
			"filter", filterID, "path", basePath,
			"x", p.X, "y", p.Y, "width", p.Width, "height", p.Height)
	} else {
		c.logger.Warn("Filter skipped", "filter", filterID, "path", basePath, "reason", result.Reason)
	}
	return result
}

func (c *Compositor) composite(ctx context.Context, basePath, filterID string, override *filters.Descriptor) Result {
	format, err := outputFormat(basePath)
	if err != nil {
		return skipped("%v", err)
	}

	assetPath, err := c.AssetPath(filterID)
	if err != nil {
		return skipped("%v", err)
	}
	if _, err := os.Stat(assetPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return skipped("filter asset not found: %s", assetPath)
		}
		return skipped("failed to stat filter asset: %v", err)
	}

	descriptor := c.catalog.Resolve(filterID)
	if override != nil {
		descriptor = *override
	}
	if descriptor.Scale <= 0 {
		return skipped("invalid scale %v", descriptor.Scale)
	}

	baseWidth, baseHeight, err := dimensions(basePath)
	if err != nil {
		return skipped("failed to read image dimensions: %v", err)
	}

	boxWidth, boxHeight := filters.Box(descriptor, baseWidth, baseHeight)
	if boxWidth <= 0 || boxHeight <= 0 {
		return skipped("image %dx%d too small for scale %v", baseWidth, baseHeight, descriptor.EffectiveScale())
	}

	if err := ctx.Err(); err != nil {
		return skipped("canceled: %v", err)
	}

	sticker, err := imaging.Open(assetPath)
	if err != nil {
		return skipped("failed to open filter asset: %v", err)
	}
	fitWidth, fitHeight := filters.FitSize(sticker.Bounds().Dx(), sticker.Bounds().Dy(), boxWidth, boxHeight)
	if fitWidth == 0 || fitHeight == 0 {
		return skipped("filter asset %s is empty", assetPath)
	}
	resized := imaging.Resize(sticker, fitWidth, fitHeight, imaging.Lanczos)

	// Position against what the resize produced, not the requested box.
	placement := filters.Place(descriptor, baseWidth, baseHeight, resized.Bounds().Dx(), resized.Bounds().Dy())

	base, err := imaging.Open(basePath)
	if err != nil {
		return skipped("failed to open image: %v", err)
	}
	out := imaging.Overlay(base, resized, image.Pt(placement.X, placement.Y), 1.0)

	if err := ctx.Err(); err != nil {
		return skipped("canceled: %v", err)
	}

	if err := c.replace(basePath, out, format); err != nil {
		return skipped("%v", err)
	}
	return applied(placement)
}

// replace encodes img next to path and swaps it in, so a crash mid-encode
// never leaves a truncated photo behind.
func (c *Compositor) replace(path string, img image.Image, format imaging.Format) error {
	tempPath := path + ".temp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	encodeErr := imaging.Encode(f, img, format, imaging.JPEGQuality(c.jpegQuality))
	closeErr := f.Close()
	if encodeErr != nil || closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode image: %w", errors.Join(encodeErr, closeErr))
	}

	if err := os.Remove(path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to remove original: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to move composited image into place: %w", err)
	}
	return nil
}

// outputFormat is the encoder matching the file's extension. WebP decodes
// but cannot be written back, so those photos are kept as uploaded.
func outputFormat(path string) (imaging.Format, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	return format, nil
}

func dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
