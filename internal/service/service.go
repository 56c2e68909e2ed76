// Package service is the application core: it validates input, enforces the
// access policy and coordinates the repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/repository"
)

// Change kinds published to the Notifier.
const (
	ChangeRecordSaved   = "record.saved"
	ChangeRecordDeleted = "record.deleted"
	ChangeTaskSaved     = "task.saved"
	ChangeTaskDeleted   = "task.deleted"
	ChangeUserSaved     = "user.saved"
	ChangeUserDeleted   = "user.deleted"
	ChangeStoreReloaded = "store.reloaded"
)

// Notifier receives a change after every successful mutation.
type Notifier interface {
	PublishChange(kind, id string)
}

// MetricsSink is refreshed with the current collections after mutations.
type MetricsSink interface {
	Observe(records []models.MarketingRecord, tasks []models.Task)
	LoginAttempt(success bool)
}

// Service coordinates repositories, policy and side channels.
type Service struct {
	repos    *repository.Repositories
	logger   *slog.Logger
	notifier Notifier
	metrics  MetricsSink
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the change notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m MetricsSink) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// New creates a Service over repos.
func New(repos *repository.Repositories, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repos:  repos,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Refresh recomputes metrics from the stored collections.
func (s *Service) Refresh(ctx context.Context) error {
	if s.metrics == nil {
		return nil
	}
	records, err := s.repos.Records.GetAll(ctx)
	if err != nil {
		return err
	}
	tasks, err := s.repos.Tasks.GetAll(ctx)
	if err != nil {
		return err
	}
	s.metrics.Observe(records, tasks)
	return nil
}

// Reloaded handles a collection changed by another process.
func (s *Service) Reloaded(ctx context.Context, key string) {
	s.logger.Info("store changed externally", slog.String("key", key))
	s.changed(ctx, ChangeStoreReloaded, key)
}

func (s *Service) changed(ctx context.Context, kind, id string) {
	if s.notifier != nil {
		s.notifier.PublishChange(kind, id)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("metrics refresh failed", slog.String("error", err.Error()))
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
