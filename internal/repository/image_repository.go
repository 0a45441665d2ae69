package repository

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/internal/storage"
)

// supportedExtensions is the set of image types the batch accepts.
// Matching is case-insensitive on the file extension.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
}

// IsSupportedExtension reports whether ext (including the dot, any case)
// names an accepted image type.
func IsSupportedExtension(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// FileImageRepository implements ImageRepository over a local directory
// using a pluggable image-loading collaborator for decoding.
type FileImageRepository struct {
	loader storage.ImageLoader
}

// NewFileImageRepository creates a filesystem-backed image repository
func NewFileImageRepository(loader storage.ImageLoader) ImageRepository {
	return &FileImageRepository{
		loader: loader,
	}
}

// ListImages enumerates the top-level entries of directory. Only regular
// files with a supported extension become descriptors; subdirectories and
// unsupported files are returned as skipped entries. The result order is
// stabilized lexicographically so that runs are reproducible regardless
// of filesystem enumeration order.
func (r *FileImageRepository) ListImages(directory string) ([]ImageDescriptor, []SkippedEntry, error) {
	info, err := os.Stat(directory)
	if err != nil {
		return nil, nil, apperrors.NewDirectoryNotFoundError(
			fmt.Sprintf("input directory %q does not exist", directory), err)
	}
	if !info.IsDir() {
		return nil, nil, apperrors.NewDirectoryNotFoundError(
			fmt.Sprintf("input path %q is not a directory", directory), nil)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, nil, apperrors.NewDirectoryNotFoundError(
			fmt.Sprintf("failed to read input directory %q", directory), err)
	}

	var descriptors []ImageDescriptor
	var skipped []SkippedEntry
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			// Directories are excluded silently, not counted as skips.
			continue
		}
		if !IsSupportedExtension(filepath.Ext(name)) {
			skipped = append(skipped, SkippedEntry{
				Filename: name,
				Reason:   fmt.Sprintf("unsupported extension %q", filepath.Ext(name)),
			})
			continue
		}
		descriptors = append(descriptors, ImageDescriptor{
			Path:     filepath.Join(directory, name),
			Filename: name,
		})
	}

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Filename < descriptors[j].Filename
	})

	return descriptors, skipped, nil
}

// LoadImage decodes the image at path via the loading collaborator.
func (r *FileImageRepository) LoadImage(ctx context.Context, path string) (image.Image, error) {
	if !IsSupportedExtension(filepath.Ext(path)) {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("cannot decode %q", path), ErrUnsupportedFormat)
	}
	img, err := r.loader.LoadImage(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, apperrors.NewDecodeError(fmt.Sprintf("failed to decode %q", path), err)
	}
	return img, nil
}
