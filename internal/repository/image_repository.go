package repository

import (
	"context"
	"image"
	"net/url"
	"strings"

	"go-blob-analyzer/internal/storage"
)

// imageRepository fetches images over HTTP, routing Azure Blob Storage
// URLs to the blob client when one is configured.
type imageRepository struct {
	fetcher storage.ImageFetcher
	blobs   storage.BlobStorage
}

// NewImageRepository creates an image repository. blobs may be nil when
// no Azure account is configured.
func NewImageRepository(fetcher storage.ImageFetcher, blobs storage.BlobStorage) ImageRepository {
	return &imageRepository{
		fetcher: fetcher,
		blobs:   blobs,
	}
}

func (r *imageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if r.blobs != nil && isBlobURL(imageURL) {
		return r.blobs.GetImage(ctx, imageURL)
	}
	return r.fetcher.FetchImage(ctx, imageURL)
}

func (r *imageRepository) ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return ErrInvalidImageURL
	}
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Host == "" {
		return ErrInvalidImageURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidImageURL
	}
	return nil
}

func isBlobURL(imageURL string) bool {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Host, ".blob.core.windows.net")
}
