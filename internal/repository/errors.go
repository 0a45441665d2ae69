package repository

import "errors"

var (
	// ErrUnsupportedFormat indicates a file extension outside the accepted set
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrImageNotFound indicates the image was not found
	ErrImageNotFound = errors.New("image not found")
)
