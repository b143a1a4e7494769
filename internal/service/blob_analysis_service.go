package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "go-blob-analyzer/internal/errors"
	"go-blob-analyzer/internal/logger"
	"go-blob-analyzer/internal/observer"
	"go-blob-analyzer/internal/pipeline"
	"go-blob-analyzer/internal/repository"
	"go-blob-analyzer/internal/worker"
	"go-blob-analyzer/pkg/models"
)

// BlobAnalysisService runs the blob analysis pipeline against remote images.
type BlobAnalysisService interface {
	// AnalyzeImage fetches one image and returns its particle results table.
	AnalyzeImage(ctx context.Context, request models.AnalysisRequest) (*models.AnalysisResponse, error)

	// AnalyzeBatch analyzes several images concurrently. Per-image failures
	// are reported inline; the batch itself only fails on an empty URL list.
	AnalyzeBatch(ctx context.Context, request models.BatchAnalysisRequest) (*models.BatchAnalysisResponse, error)

	// ValidateImageURL validates if the provided URL is acceptable.
	ValidateImageURL(imageURL string) error
}

// blobAnalysisService implements BlobAnalysisService on top of the image
// repository and the shared worker pool.
type blobAnalysisService struct {
	imageRepo       repository.ImageRepository
	pool            *worker.Pool
	events          observer.Subject
	defaults        pipeline.Options
	analysisTimeout time.Duration
}

// NewBlobAnalysisService creates a blob analysis service. The defaults come
// from the deployment config; per-request overrides are applied on top. Run
// lifecycle events are delivered to the subscribers of events.
// analysisTimeout bounds each image end to end, which matters for batches
// where the request deadline covers the whole list; non-positive disables it.
func NewBlobAnalysisService(
	imageRepository repository.ImageRepository,
	pool *worker.Pool,
	events observer.Subject,
	defaults pipeline.Options,
	analysisTimeout time.Duration,
) BlobAnalysisService {
	return &blobAnalysisService{
		imageRepo:       imageRepository,
		pool:            pool,
		events:          events,
		defaults:        defaults,
		analysisTimeout: analysisTimeout,
	}
}

// AnalyzeImage fetches, decodes and analyzes a single image.
func (s *blobAnalysisService) AnalyzeImage(ctx context.Context, request models.AnalysisRequest) (*models.AnalysisResponse, error) {
	runID := uuid.NewString()
	startTime := time.Now()

	if err := s.ValidateImageURL(request.URL); err != nil {
		return nil, apperrors.NewValidationError("invalid image URL", err)
	}

	if s.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
	}

	s.notify(ctx, observer.RunEvent{
		EventType: observer.RunStarted,
		Timestamp: startTime,
		RunID:     runID,
		ImageURL:  request.URL,
	})

	opts := applyOverrides(s.defaults, request.OptionOverrides)

	img, err := s.imageRepo.FetchImage(ctx, request.URL)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			err = apperrors.NewTimeoutError("image fetch timed out", err)
		case errors.Is(err, repository.ErrImageNotFound):
			err = apperrors.NewNotFoundError("image not found", err)
		default:
			err = apperrors.NewNetworkError("failed to fetch image", err)
		}
		s.notifyFailure(ctx, runID, request.URL, startTime, err)
		return nil, err
	}

	raster := pipeline.RasterFromImage(img)

	result, err := pipeline.Run(raster, opts)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.NewProcessingError("pipeline run failed", err)
		}
		s.notifyFailure(ctx, runID, request.URL, startTime, err)
		return nil, err
	}

	duration := time.Since(startTime)
	logger.WithFields(logrus.Fields{
		"run_id":    runID,
		"url":       request.URL,
		"width":     raster.Width,
		"height":    raster.Height,
		"threshold": result.Threshold,
		"labels":    result.LabelCount,
	}).Debug("Pipeline run finished")

	s.notify(ctx, observer.RunEvent{
		EventType:      observer.RunCompleted,
		Timestamp:      time.Now(),
		RunID:          runID,
		ImageURL:       request.URL,
		ProcessingTime: duration,
		ParticleCount:  len(result.Records),
	})

	return s.buildResponse(runID, request.URL, raster, result, startTime, duration), nil
}

func (s *blobAnalysisService) notify(ctx context.Context, event observer.RunEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

func (s *blobAnalysisService) notifyFailure(ctx context.Context, runID, imageURL string, startTime time.Time, err error) {
	s.notify(ctx, observer.RunEvent{
		EventType:      observer.RunFailed,
		Timestamp:      time.Now(),
		RunID:          runID,
		ImageURL:       imageURL,
		ProcessingTime: time.Since(startTime),
		ErrorMessage:   err.Error(),
	})
}

// AnalyzeBatch fans the URLs out across the worker pool and collects the
// outcomes in request order.
func (s *blobAnalysisService) AnalyzeBatch(ctx context.Context, request models.BatchAnalysisRequest) (*models.BatchAnalysisResponse, error) {
	if len(request.URLs) == 0 {
		return nil, apperrors.NewValidationError("batch must contain at least one URL", nil)
	}

	results := make([]models.BatchResult, len(request.URLs))
	var wg sync.WaitGroup

	for i, imageURL := range request.URLs {
		i, imageURL := i, imageURL
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()

			resp, err := s.AnalyzeImage(ctx, models.AnalysisRequest{
				URL:             imageURL,
				OptionOverrides: request.OptionOverrides,
			})
			if err != nil {
				logger.WithError(err).WithField("url", imageURL).Warn("Batch image failed")
				results[i] = models.BatchResult{ImageURL: imageURL, Error: err.Error()}
				return
			}
			results[i] = models.BatchResult{ImageURL: imageURL, Result: resp}
		})
	}

	wg.Wait()
	return &models.BatchAnalysisResponse{Results: results}, nil
}

// ValidateImageURL validates the image URL.
func (s *blobAnalysisService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

func (s *blobAnalysisService) buildResponse(
	runID, imageURL string,
	raster *pipeline.Raster,
	result *pipeline.Result,
	startTime time.Time,
	duration time.Duration,
) *models.AnalysisResponse {
	particles := make([]models.ParticleRecord, len(result.Records))
	for i, rec := range result.Records {
		rec.Area = round3(rec.Area)
		rec.Mean = round3(rec.Mean)
		rec.CentroidX = round3(rec.CentroidX)
		rec.CentroidY = round3(rec.CentroidY)
		rec.IntegratedDensity = round3(rec.IntegratedDensity)
		particles[i] = rec
	}

	summary := result.Summary
	summary.TotalArea = round3(summary.TotalArea)
	summary.MeanArea = round3(summary.MeanArea)
	summary.MinArea = round3(summary.MinArea)
	summary.MaxArea = round3(summary.MaxArea)
	summary.StdDevArea = round3(summary.StdDevArea)
	summary.MeanIntensity = round3(summary.MeanIntensity)

	return &models.AnalysisResponse{
		ID:                runID,
		ImageURL:          imageURL,
		Timestamp:         startTime.UTC().Format("2006-01-02T15:04:05Z07:00"),
		ProcessingTimeSec: round3(duration.Seconds()),
		Width:             raster.Width,
		Height:            raster.Height,
		Threshold:         result.Threshold,
		Particles:         particles,
		Summary:           summary,
	}
}

// applyOverrides layers the request's set fields over the configured
// defaults. Values are not validated here; pipeline.Run rejects bad ones.
func applyOverrides(base pipeline.Options, o models.OptionOverrides) pipeline.Options {
	if o.MedianRadius != nil {
		base.MedianRadius = *o.MedianRadius
	}
	if o.Polarity != nil {
		base.Polarity = pipeline.Polarity(*o.Polarity)
	}
	if o.Watershed != nil {
		base.Watershed = *o.Watershed
	}
	if o.Connectivity != nil {
		base.Connectivity = pipeline.Connectivity(*o.Connectivity)
	}
	if o.MinArea != nil {
		base.MinArea = *o.MinArea
	}
	if o.MaxArea != nil {
		base.MaxArea = *o.MaxArea
	}
	if o.ExcludeEdgeObjects != nil {
		base.ExcludeEdgeObjects = *o.ExcludeEdgeObjects
	}
	return base
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
