package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RunEvent describes one lifecycle event of a blob analysis run.
type RunEvent struct {
	EventType      EventType     `json:"event_type"`
	Timestamp      time.Time     `json:"timestamp"`
	RunID          string        `json:"run_id"`
	ImageURL       string        `json:"image_url"`
	ProcessingTime time.Duration `json:"processing_time"`
	ParticleCount  int           `json:"particle_count"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// EventType represents the type of run event
type EventType string

const (
	// RunStarted when a pipeline run begins
	RunStarted EventType = "run_started"
	// RunCompleted when a pipeline run finishes successfully
	RunCompleted EventType = "run_completed"
	// RunFailed when a pipeline run fails
	RunFailed EventType = "run_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event RunEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	NotifyObservers(ctx context.Context, event RunEvent)
}

// LoggingObserver logs run events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles run events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event RunEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"run_id":          event.RunID,
		"image_url":       event.ImageURL,
		"processing_time": event.ProcessingTime,
	}

	switch event.EventType {
	case RunStarted:
		o.logger.WithFields(fields).Debug("Blob analysis run started")
	case RunCompleted:
		fields["particles"] = event.ParticleCount
		o.logger.WithFields(fields).Info("Blob analysis run completed")
	case RunFailed:
		fields["error"] = event.ErrorMessage
		o.logger.WithFields(fields).Error("Blob analysis run failed")
	default:
		o.logger.WithFields(fields).Info("Run event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver aggregates run counters for the /metrics endpoint.
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalRuns           int64
	successfulRuns      int64
	failedRuns          int64
	totalParticles      int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles run events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event RunEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case RunStarted:
		o.totalRuns++
	case RunCompleted:
		o.successfulRuns++
		o.totalParticles += int64(event.ParticleCount)
		o.totalProcessingTime += event.ProcessingTime
	case RunFailed:
		o.failedRuns++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns the current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulRuns > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulRuns)
	}

	return map[string]interface{}{
		"total_runs":             o.totalRuns,
		"successful_runs":        o.successfulRuns,
		"failed_runs":            o.failedRuns,
		"total_particles":        o.totalParticles,
		"total_processing_time":  o.totalProcessingTime.String(),
		"avg_processing_time_ms": avgProcessingTime.Milliseconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// NotifyObservers delivers an event to every observer. Delivery is
// synchronous; observers must not block.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event RunEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		obs.OnEvent(ctx, event)
	}
}
