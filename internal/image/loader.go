// Package image provides utilities for loading and preparing images for palette extraction.
package image

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/hueprobe/internal/util/http"
	"github.com/jmylchreest/hueprobe/internal/util/imagecache"
)

// ErrUnsupportedFormat is returned when image data cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported or invalid image format")

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := DecodeReader(file)
	return img, err
}

// DecodeReader decodes an image from r and reports its format name.
func DecodeReader(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, format, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return img, format, nil
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidateImagePath checks if the given path is valid and points to a supported image file or directory.
// Local files are checked by decoding their header; directories and URLs are accepted as-is.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if IsURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file or directory not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ScanDirectoryForImages scans a directory and returns all valid image files in name order.
// It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// Stat the target so symlinks to files are included.
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}

	return imageFiles, nil
}

// SelectRandomImage selects a random image from a list of image paths.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}

	randomIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(imagePaths))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return imagePaths[randomIndex.Int64()], nil
}

// ResolveImagePaths expands a path into the images to process.
// Files and URLs are returned as-is. A directory yields every image in it
// when all is set, otherwise one picked at random.
func ResolveImagePaths(path string, all bool) ([]string, error) {
	if IsURL(path) {
		return []string{path}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	imageFiles, err := ScanDirectoryForImages(path)
	if err != nil {
		return nil, err
	}
	if all {
		return imageFiles, nil
	}

	selected, err := SelectRandomImage(imageFiles)
	if err != nil {
		return nil, err
	}
	return []string{selected}, nil
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader *FileLoader
	fetchOpts  httputil.FetchOptions
	cache      *imagecache.CacheOptions
}

// SmartLoaderOption configures a SmartLoader.
type SmartLoaderOption func(*SmartLoader)

// WithCache stores downloaded images on disk and reuses them on later loads.
func WithCache(opts imagecache.CacheOptions) SmartLoaderOption {
	return func(l *SmartLoader) {
		l.cache = &opts
	}
}

// WithFetchOptions sets the HTTP options used for remote images.
func WithFetchOptions(opts httputil.FetchOptions) SmartLoaderOption {
	return func(l *SmartLoader) {
		l.fetchOpts = opts
	}
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader(opts ...SmartLoaderOption) *SmartLoader {
	l := &SmartLoader{fileLoader: NewFileLoader()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if !IsURL(path) {
		return l.fileLoader.Load(ctx, path)
	}

	if l.cache != nil {
		cached, err := imagecache.DownloadAndCache(ctx, path, *l.cache)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return l.fileLoader.Load(ctx, cached)
	}

	data, err := httputil.Fetch(ctx, path, l.fetchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	img, _, err := DecodeReader(bytes.NewReader(data))
	return img, err
}
