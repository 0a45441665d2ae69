package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "go-image-quantifier/internal/errors"
	"go-image-quantifier/internal/storage"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
}

func TestListImagesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.png", "alpha.jpeg", "beta.TIF", "readme.md", "data.csv"} {
		touch(t, filepath.Join(dir, name))
	}

	repo := NewFileImageRepository(storage.NewFileImageLoader())
	descriptors, skipped, err := repo.ListImages(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"alpha.jpeg", "beta.TIF", "zeta.png"}
	if len(descriptors) != len(expected) {
		t.Fatalf("Expected %d descriptors, got %d", len(expected), len(descriptors))
	}
	for i, name := range expected {
		if descriptors[i].Filename != name {
			t.Errorf("Expected descriptor %d to be %s, got %s", i, name, descriptors[i].Filename)
		}
		if descriptors[i].Path != filepath.Join(dir, name) {
			t.Errorf("Expected full path for %s, got %s", name, descriptors[i].Path)
		}
	}
	if len(skipped) != 2 {
		t.Errorf("Expected 2 skipped entries, got %d", len(skipped))
	}
}

func TestListImagesExcludesSubdirectoriesSilently(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "img.png"))
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	repo := NewFileImageRepository(storage.NewFileImageLoader())
	descriptors, skipped, err := repo.ListImages(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(descriptors) != 1 || descriptors[0].Filename != "img.png" {
		t.Errorf("Expected only img.png, got %+v", descriptors)
	}
	// Subdirectories are not skips; they simply do not participate.
	if len(skipped) != 0 {
		t.Errorf("Expected no skipped entries, got %+v", skipped)
	}
}

func TestListImagesMissingDirectory(t *testing.T) {
	repo := NewFileImageRepository(storage.NewFileImageLoader())
	_, _, err := repo.ListImages("/no/such/place")
	if err == nil {
		t.Fatal("Expected error for missing directory")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeDirectoryNotFound) {
		t.Errorf("Expected directory_not_found error, got %v", err)
	}
}

func TestListImagesPathIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.png")
	touch(t, file)

	repo := NewFileImageRepository(storage.NewFileImageLoader())
	_, _, err := repo.ListImages(file)
	if err == nil {
		t.Fatal("Expected error when the input path is a file")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeDirectoryNotFound) {
		t.Errorf("Expected directory_not_found error, got %v", err)
	}
}

func TestListImagesEmptyDirectory(t *testing.T) {
	repo := NewFileImageRepository(storage.NewFileImageLoader())
	descriptors, skipped, err := repo.ListImages(t.TempDir())
	if err != nil {
		t.Fatalf("An empty directory is a valid input, got %v", err)
	}
	if len(descriptors) != 0 || len(skipped) != 0 {
		t.Errorf("Expected empty listing, got %d descriptors, %d skipped", len(descriptors), len(skipped))
	}
}

func TestLoadImageWrapsDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	touch(t, bad)

	repo := NewFileImageRepository(storage.NewFileImageLoader())
	_, err := repo.LoadImage(context.Background(), bad)
	if err == nil {
		t.Fatal("Expected decode error for non-image content")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		t.Errorf("Expected decode_failure error, got %v", err)
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	repo := NewFileImageRepository(storage.NewFileImageLoader())
	_, err := repo.LoadImage(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Expected ErrImageNotFound in the chain, got %v", err)
	}
}

func TestLoadImageUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	touch(t, path)

	repo := NewFileImageRepository(storage.NewFileImageLoader())
	_, err := repo.LoadImage(context.Background(), path)
	if err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat in the chain, got %v", err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	supported := []string{".png", ".PNG", ".jpg", ".JPEG", ".tif", ".tiff", ".bmp", ".gif"}
	for _, ext := range supported {
		if !IsSupportedExtension(ext) {
			t.Errorf("Expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".txt", ".webp", ".pdf", ""} {
		if IsSupportedExtension(ext) {
			t.Errorf("Expected %s to be unsupported", ext)
		}
	}
}
