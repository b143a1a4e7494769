package repository

import (
	"context"
	"image"
)

// ImageRepository defines the interface for image acquisition.
type ImageRepository interface {
	// FetchImage retrieves and decodes the image at the given URL.
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)

	// ValidateImageURL validates if the provided URL is acceptable.
	ValidateImageURL(imageURL string) error
}
