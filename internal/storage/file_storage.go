package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageLoader is the image-loading collaborator the quantification core
// depends on: give it a path, get decoded pixels back. Codec selection is
// handled entirely by the registered decoders above.
type ImageLoader interface {
	LoadImage(ctx context.Context, path string) (image.Image, error)
}

// FileImageLoader implements ImageLoader against the local filesystem.
type FileImageLoader struct{}

// NewFileImageLoader creates a filesystem-backed image loader
func NewFileImageLoader() ImageLoader {
	return &FileImageLoader{}
}

func (l *FileImageLoader) LoadImage(ctx context.Context, path string) (image.Image, error) {
	// Decode blocks on file I/O only; honor cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}
