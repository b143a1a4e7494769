package container

import (
	"fmt"
	"net/http"
	"strings"

	"go-blob-analyzer/internal/config"
	"go-blob-analyzer/internal/logger"
	"go-blob-analyzer/internal/observer"
	"go-blob-analyzer/internal/pipeline"
	"go-blob-analyzer/internal/repository"
	"go-blob-analyzer/internal/service"
	"go-blob-analyzer/internal/storage"
	"go-blob-analyzer/internal/transport"
	"go-blob-analyzer/internal/worker"
	pkgconfig "go-blob-analyzer/pkg/config"
	"go-blob-analyzer/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	pipelineOptions pipeline.Options
	imageFetcher    storage.ImageFetcher
	blobStorage     storage.BlobStorage
	imageRepository repository.ImageRepository
	workerPool      *worker.Pool
	metrics         *observer.MetricsObserver
	analysisService service.BlobAnalysisService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Resolve pipeline defaults, from file when one is configured
	opts, err := loadPipelineOptions(cfg.PipelineConfigPath)
	if err != nil {
		return nil, err
	}

	// Build dependency graph
	imageFetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout)

	var blobStorage storage.BlobStorage
	if cfg.AzureAccountName != "" {
		blobStorage, err = storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
		}
	}

	imageRepository := repository.NewImageRepository(imageFetcher, blobStorage)

	workerPool := worker.NewPool(cfg.BatchWorkers)
	workerPool.Start()

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	analysisService := service.NewBlobAnalysisService(imageRepository, workerPool, events, opts, cfg.AnalysisTimeout)
	handler := transport.NewHandler(analysisService, metrics, cfg)

	return &Container{
		config:          cfg,
		pipelineOptions: opts,
		imageFetcher:    imageFetcher,
		blobStorage:     blobStorage,
		imageRepository: imageRepository,
		workerPool:      workerPool,
		metrics:         metrics,
		analysisService: analysisService,
		handler:         handler,
	}, nil
}

func loadPipelineOptions(path string) (pipeline.Options, error) {
	fileCfg := pkgconfig.DefaultPipelineConfig()
	if path != "" {
		var err error
		fileCfg, err = pkgconfig.LoadFromFile(path)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("failed to load pipeline config: %w", err)
		}
	}

	validator := validation.NewPipelineValidator()
	if issues := validator.Validate(fileCfg); len(issues) > 0 {
		messages := validator.ConvertIssuesToMessages(issues)
		return pipeline.Options{}, fmt.Errorf("invalid pipeline config: %s", strings.Join(messages, "; "))
	}
	return fileCfg.ToOptions(), nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases background resources, draining the worker pool.
func (c *Container) Close() {
	c.workerPool.Close()
}
