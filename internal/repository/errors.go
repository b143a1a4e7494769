package repository

import (
	"errors"

	"go-blob-analyzer/internal/storage"
)

var (
	// ErrInvalidImageURL indicates an invalid image URL
	ErrInvalidImageURL = errors.New("invalid image URL")

	// ErrImageNotFound indicates the image was not found at its URL.
	// Re-exported so callers match on it without importing storage.
	ErrImageNotFound = storage.ErrImageNotFound
)
