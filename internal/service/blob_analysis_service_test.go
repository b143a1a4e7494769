package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "go-blob-analyzer/internal/errors"
	"go-blob-analyzer/internal/observer"
	"go-blob-analyzer/internal/pipeline"
	"go-blob-analyzer/internal/repository"
	"go-blob-analyzer/internal/worker"
	"go-blob-analyzer/pkg/models"
)

// stubRepository serves canned images per URL without any network access.
type stubRepository struct {
	images map[string]image.Image
	errs   map[string]error
}

func (s *stubRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if err, ok := s.errs[imageURL]; ok {
		return nil, err
	}
	if img, ok := s.images[imageURL]; ok {
		return img, nil
	}
	return nil, errors.New("no such image")
}

func (s *stubRepository) ValidateImageURL(imageURL string) error {
	if !strings.HasPrefix(imageURL, "http") {
		return errors.New("unsupported scheme")
	}
	return nil
}

// blockImage draws a dark size x size square at (x0, y0) on a white field.
func blockImage(width, height, x0, y0, size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return img
}

func testOptions() pipeline.Options {
	opts := pipeline.DefaultOptions().WithSizeRange(1, 0)
	opts.MedianRadius = 1
	return opts
}

func newTestService(repo *stubRepository, events observer.Subject) (BlobAnalysisService, *worker.Pool) {
	pool := worker.NewPool(2)
	pool.Start()
	return NewBlobAnalysisService(repo, pool, events, testOptions(), 0), pool
}

func TestAnalyzeImageSingleBlob(t *testing.T) {
	repo := &stubRepository{
		images: map[string]image.Image{
			"http://example.com/blob.png": blockImage(8, 8, 3, 3, 3),
		},
	}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	resp, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL: "http://example.com/blob.png",
	})
	if err != nil {
		t.Fatalf("AnalyzeImage failed: %v", err)
	}

	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Errorf("response ID %q is not a UUID: %v", resp.ID, err)
	}
	if resp.Width != 8 || resp.Height != 8 {
		t.Errorf("dimensions = %dx%d, want 8x8", resp.Width, resp.Height)
	}
	if len(resp.Particles) != 1 {
		t.Fatalf("got %d particles, want 1", len(resp.Particles))
	}

	p := resp.Particles[0]
	if p.Area != 9 {
		t.Errorf("area = %g, want 9", p.Area)
	}
	if p.CentroidX != 4 || p.CentroidY != 4 {
		t.Errorf("centroid = (%g, %g), want (4, 4)", p.CentroidX, p.CentroidY)
	}
	if p.Mean != 0 {
		t.Errorf("mean = %g, want 0", p.Mean)
	}
	if resp.Summary.Count != 1 || resp.Summary.TotalArea != 9 {
		t.Errorf("summary = %+v, want count 1 total area 9", resp.Summary)
	}
}

func TestAnalyzeImageAppliesOverrides(t *testing.T) {
	repo := &stubRepository{
		images: map[string]image.Image{
			"http://example.com/blob.png": blockImage(8, 8, 3, 3, 3),
		},
	}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	// A 9-pixel blob must be dropped once the minimum area is raised.
	minArea := 50.0
	resp, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL:             "http://example.com/blob.png",
		OptionOverrides: models.OptionOverrides{MinArea: &minArea},
	})
	if err != nil {
		t.Fatalf("AnalyzeImage failed: %v", err)
	}
	if len(resp.Particles) != 0 {
		t.Errorf("got %d particles with min area %g, want 0", len(resp.Particles), minArea)
	}
}

func TestAnalyzeImageRejectsInvalidOverrides(t *testing.T) {
	repo := &stubRepository{
		images: map[string]image.Image{
			"http://example.com/blob.png": blockImage(8, 8, 3, 3, 3),
		},
	}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	radius := -1
	_, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL:             "http://example.com/blob.png",
		OptionOverrides: models.OptionOverrides{MedianRadius: &radius},
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeConfig) {
		t.Errorf("got %v, want config error", err)
	}
}

func TestAnalyzeImageInvalidURL(t *testing.T) {
	repo := &stubRepository{}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	_, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{URL: "ftp://nope"})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestAnalyzeImageFetchFailure(t *testing.T) {
	repo := &stubRepository{
		errs: map[string]error{
			"http://example.com/missing.png": errors.New("connection refused"),
		},
	}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	_, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL: "http://example.com/missing.png",
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		t.Errorf("got %v, want network error", err)
	}
}

func TestAnalyzeImageNotFound(t *testing.T) {
	repo := &stubRepository{
		errs: map[string]error{
			"http://example.com/gone.png": repository.ErrImageNotFound,
		},
	}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	_, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL: "http://example.com/gone.png",
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("got %v, want not found error", err)
	}
}

// hangingRepository blocks every fetch until its context expires.
type hangingRepository struct{}

func (h *hangingRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (h *hangingRepository) ValidateImageURL(imageURL string) error {
	return nil
}

func TestAnalyzeImageAnalysisTimeout(t *testing.T) {
	pool := worker.NewPool(2)
	pool.Start()
	defer pool.Close()
	svc := NewBlobAnalysisService(&hangingRepository{}, pool, nil, testOptions(), 20*time.Millisecond)

	_, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL: "http://example.com/slow.png",
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		t.Errorf("got %v, want timeout error", err)
	}
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	repo := &stubRepository{
		images: map[string]image.Image{
			"http://example.com/a.png": blockImage(8, 8, 3, 3, 3),
			"http://example.com/c.png": blockImage(8, 8, 2, 2, 4),
		},
		errs: map[string]error{
			"http://example.com/b.png": errors.New("connection refused"),
		},
	}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	urls := []string{
		"http://example.com/a.png",
		"http://example.com/b.png",
		"http://example.com/c.png",
	}
	resp, err := svc.AnalyzeBatch(context.Background(), models.BatchAnalysisRequest{URLs: urls})
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}
	if len(resp.Results) != len(urls) {
		t.Fatalf("got %d results, want %d", len(resp.Results), len(urls))
	}

	for i, url := range urls {
		if resp.Results[i].ImageURL != url {
			t.Errorf("results[%d].ImageURL = %q, want %q", i, resp.Results[i].ImageURL, url)
		}
	}
	if resp.Results[0].Result == nil || resp.Results[0].Error != "" {
		t.Errorf("results[0] should have succeeded: %+v", resp.Results[0])
	}
	if resp.Results[1].Result != nil || resp.Results[1].Error == "" {
		t.Errorf("results[1] should have failed: %+v", resp.Results[1])
	}
	if resp.Results[2].Result == nil {
		t.Fatalf("results[2] should have succeeded: %+v", resp.Results[2])
	}
	if got := resp.Results[2].Result.Particles[0].Area; got != 16 {
		t.Errorf("results[2] area = %g, want 16", got)
	}
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	repo := &stubRepository{}
	svc, pool := newTestService(repo, nil)
	defer pool.Close()

	_, err := svc.AnalyzeBatch(context.Background(), models.BatchAnalysisRequest{})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestAnalyzeImagePublishesEvents(t *testing.T) {
	repo := &stubRepository{
		images: map[string]image.Image{
			"http://example.com/blob.png": blockImage(8, 8, 3, 3, 3),
		},
		errs: map[string]error{
			"http://example.com/missing.png": errors.New("connection refused"),
		},
	}

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(metrics)

	svc, pool := newTestService(repo, events)
	defer pool.Close()

	if _, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL: "http://example.com/blob.png",
	}); err != nil {
		t.Fatalf("AnalyzeImage failed: %v", err)
	}
	if _, err := svc.AnalyzeImage(context.Background(), models.AnalysisRequest{
		URL: "http://example.com/missing.png",
	}); err == nil {
		t.Fatal("expected fetch failure")
	}

	m := metrics.GetMetrics()
	if m["total_runs"] != int64(2) {
		t.Errorf("total_runs = %v, want 2", m["total_runs"])
	}
	if m["successful_runs"] != int64(1) {
		t.Errorf("successful_runs = %v, want 1", m["successful_runs"])
	}
	if m["failed_runs"] != int64(1) {
		t.Errorf("failed_runs = %v, want 1", m["failed_runs"])
	}
	if m["total_particles"] != int64(1) {
		t.Errorf("total_particles = %v, want 1", m["total_particles"])
	}
}

func TestRound3(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.23456, 1.235},
		{1.2344, 1.234},
		{0, 0},
		{-2.5556, -2.556},
	}
	for _, tc := range cases {
		if got := round3(tc.in); got != tc.want {
			t.Errorf("round3(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}
