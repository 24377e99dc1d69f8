package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shadowbane/home-flood-report/pkg/events"
	"github.com/shadowbane/home-flood-report/pkg/geocoder"
	"github.com/shadowbane/home-flood-report/pkg/imagestore"
	"github.com/shadowbane/home-flood-report/pkg/metrics"
	"github.com/shadowbane/home-flood-report/pkg/models"
	"github.com/shadowbane/home-flood-report/pkg/store"
	"go.uber.org/zap"
)

// Options wires a Service. Geocoder and Publisher default to the
// placeholder geocoder and a no-op publisher.
type Options struct {
	Store      store.Store
	Images     *imagestore.ImageStore
	Geocoder   geocoder.Geocoder
	Publisher  events.Publisher
	Metrics    *metrics.Metrics
	AppendOnly bool
}

// Service accepts report submissions and reads the stored collection.
type Service struct {
	store      store.Store
	images     *imagestore.ImageStore
	geocoder   geocoder.Geocoder
	publisher  events.Publisher
	metrics    *metrics.Metrics
	appendOnly bool
	validator  *validator.Validate

	// mu serializes reload-append-rewrite within this process only.
	mu sync.Mutex
}

func NewService(opts Options) *Service {
	if opts.Geocoder == nil {
		opts.Geocoder = geocoder.Placeholder{}
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NoopPublisher{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewForTesting()
	}
	return &Service{
		store:      opts.Store,
		images:     opts.Images,
		geocoder:   opts.Geocoder,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		appendOnly: opts.AppendOnly,
		validator:  newValidator(),
	}
}

// Submit stores one report. The image, when present, is written before the
// record; the two writes are not transactional.
func (s *Service) Submit(ctx context.Context, sub Submission) (models.FloodReport, error) {
	sub.Address = strings.TrimSpace(sub.Address)
	if sub.Address == "" {
		return models.FloodReport{}, ErrMissingAddress
	}

	if err := s.validate(sub); err != nil {
		s.metrics.SubmissionErrors.WithLabelValues("validate").Inc()
		return models.FloodReport{}, err
	}

	location, err := s.geocoder.ForwardGeocode(ctx, sub.Address)
	if err != nil {
		return models.FloodReport{}, fmt.Errorf("geocode address: %w", err)
	}

	report := models.FloodReport{
		Address:  sub.Address,
		Type:     sub.Type(),
		Severity: sub.Severity,
	}
	report.SetCoordinates(location.Lat, location.Lon)

	if sub.Image != nil {
		name := imagestore.ImageName(sub.Address, sub.Cause)
		path, err := s.images.Store(ctx, sub.Image, name)
		if err != nil {
			s.metrics.SubmissionErrors.WithLabelValues("image").Inc()
			return models.FloodReport{}, fmt.Errorf("store image: %w", err)
		}
		s.metrics.ImagesStored.Inc()
		report.ImagePath = path
	}

	if err := s.persist(ctx, report); err != nil {
		s.metrics.SubmissionErrors.WithLabelValues("store").Inc()
		return models.FloodReport{}, err
	}

	s.metrics.ReportsSubmitted.WithLabelValues(string(sub.Cause)).Inc()
	zap.S().Infof("Flood report added at %s (%s, severity %d)", report.Address, report.Type, report.Severity)

	if err := s.publisher.PublishReportCreated(ctx, report); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		zap.S().Errorf("Failed to publish report event: %v", err)
	} else {
		s.metrics.EventsPublished.WithLabelValues("success").Inc()
	}

	return report, nil
}

func (s *Service) persist(ctx context.Context, report models.FloodReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appendOnly {
		defer s.observe("append", time.Now())
		if err := s.store.Append(ctx, report); err != nil {
			return fmt.Errorf("append report: %w", err)
		}
		return nil
	}

	reports, err := s.List(ctx)
	if err != nil {
		return err
	}
	reports = append(reports, report)

	defer s.observe("save", time.Now())
	if err := s.store.Save(ctx, reports); err != nil {
		return fmt.Errorf("save reports: %w", err)
	}
	return nil
}

// List loads every stored report.
func (s *Service) List(ctx context.Context) ([]models.FloodReport, error) {
	defer s.observe("load", time.Now())
	reports, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}
	return reports, nil
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// IsClientError reports whether err was caused by the submitted input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSubmission) || errors.Is(err, ErrMissingAddress)
}
