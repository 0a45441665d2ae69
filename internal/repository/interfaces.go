package repository

import (
	"context"
	"image"
)

// ImageDescriptor identifies one loadable image inside the input
// directory. Descriptors are immutable and live only for the duration of
// a batch run.
type ImageDescriptor struct {
	Path     string
	Filename string
}

// SkippedEntry records a top-level directory entry that was excluded from
// the batch, together with the reason, so the runner can count and log it.
type SkippedEntry struct {
	Filename string
	Reason   string
}

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// ListImages enumerates the loadable images in a directory, sorted
	// lexicographically by filename, along with the entries it excluded.
	ListImages(directory string) ([]ImageDescriptor, []SkippedEntry, error)

	// LoadImage decodes the image at path into pixels.
	LoadImage(ctx context.Context, path string) (image.Image, error)
}
