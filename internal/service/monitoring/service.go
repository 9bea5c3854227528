// Package monitoring orchestrates vital-sign ingestion: resolve the patient,
// classify the reading, persist it, then push best-effort realtime alerts.
package monitoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/notifier"
	"github.com/curagenie/health-api/internal/repository"
	"github.com/curagenie/health-api/internal/vitals"
	apperrors "github.com/curagenie/health-api/pkg/errors"
	"github.com/curagenie/health-api/pkg/messaging"
	"github.com/curagenie/health-api/pkg/metrics"
)

// AlertChannel is the broker channel alert events are published on for
// off-process consumers.
const AlertChannel = "vitals.alerts"

const (
	statsCacheTTL     = 30 * time.Second
	statsCacheCleanup = 5 * time.Minute
)

type Service struct {
	patients repository.PatientRepository
	readings repository.ReadingRepository
	users    repository.UserRepository
	registry *notifier.Registry
	broker   messaging.Broker
	emails   EmailSender
	metrics  *metrics.Metrics
	cache    *cache.Cache
	logger   *zerolog.Logger
}

// EmailSender is the slice of the email service this package needs.
type EmailSender interface {
	SendCriticalAlert(ctx context.Context, to string, metricType string, value float64, message string) error
}

// Options carries the optional collaborators; any of them may be nil and the
// corresponding side effect is skipped.
type Options struct {
	Broker  messaging.Broker
	Emails  EmailSender
	Metrics *metrics.Metrics
}

func NewService(
	patients repository.PatientRepository,
	readings repository.ReadingRepository,
	users repository.UserRepository,
	registry *notifier.Registry,
	logger *zerolog.Logger,
	opts Options,
) *Service {
	return &Service{
		patients: patients,
		readings: readings,
		users:    users,
		registry: registry,
		broker:   opts.Broker,
		emails:   opts.Emails,
		metrics:  opts.Metrics,
		cache:    cache.New(statsCacheTTL, statsCacheCleanup),
		logger:   logger,
	}
}

// RecordReading ingests one vital-sign reading for the patient owned by
// userID. Persistence failure is fatal to the call; realtime delivery, broker
// publish and email are best effort and never fail the request.
func (s *Service) RecordReading(ctx context.Context, userID uuid.UUID, req *model.CreateReadingRequest) (*model.Reading, error) {
	start := time.Now()

	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	metricType := model.MetricType(req.MetricType)
	if err := validateReading(metricType, req); err != nil {
		return nil, err
	}

	verdict := vitals.Classify(metricType, req.Value, req.Systolic, req.Diastolic)

	now := time.Now()
	recordedAt := now
	if req.RecordedAt != nil && !req.RecordedAt.IsZero() {
		recordedAt = *req.RecordedAt
	}

	reading := &model.Reading{
		ID:           uuid.New(),
		PatientID:    patient.ID,
		MetricType:   metricType,
		Value:        req.Value,
		Unit:         req.Unit,
		Systolic:     req.Systolic,
		Diastolic:    req.Diastolic,
		DeviceID:     req.DeviceID,
		Notes:        req.Notes,
		IsAlert:      verdict.IsAlert,
		AlertMessage: verdict.Message,
		RecordedAt:   recordedAt,
		CreatedAt:    now,
	}

	if err := s.readings.Append(ctx, reading); err != nil {
		return nil, apperrors.Persistence("failed to store reading", err)
	}

	if s.metrics != nil {
		s.metrics.ReadingsIngested.WithLabelValues(string(metricType)).Inc()
		s.metrics.IngestLatency.Observe(time.Since(start).Seconds())
	}

	if verdict.IsAlert {
		s.dispatchAlert(ctx, userID, reading, verdict)
	}

	s.invalidateStats(userID)

	return reading, nil
}

// dispatchAlert pushes the alert through every best-effort channel. Nothing
// here may fail the ingestion: durable truth is already in the store.
func (s *Service) dispatchAlert(ctx context.Context, userID uuid.UUID, reading *model.Reading, verdict vitals.Verdict) {
	event := model.AlertEvent{
		Type:       "alert",
		MetricType: reading.MetricType,
		Value:      reading.Value,
		Message:    *verdict.Message,
	}

	s.registry.Send(userID, event)

	severity := "warning"
	if verdict.Critical() {
		severity = "critical"
	}
	if s.metrics != nil {
		s.metrics.AlertsFired.WithLabelValues(string(reading.MetricType), severity).Inc()
	}

	if s.broker != nil {
		msg := messaging.Message{Type: "vitals.alert", Payload: event}
		if err := s.broker.Publish(ctx, AlertChannel, msg); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish alert event")
		}
	}

	if s.emails != nil && verdict.Critical() {
		if user, err := s.users.Get(ctx, userID); err == nil {
			if err := s.emails.SendCriticalAlert(ctx, user.Email, string(reading.MetricType), reading.Value, event.Message); err != nil {
				s.logger.Warn().Err(err).Msg("failed to send critical alert email")
			}
		}
	}

	s.logger.Info().
		Str("patient_id", reading.PatientID.String()).
		Str("metric_type", string(reading.MetricType)).
		Float64("value", reading.Value).
		Str("severity", severity).
		Msg("alert classified")
}

// ListReadings returns the patient's readings within the trailing window,
// newest first, optionally filtered by metric type.
func (s *Service) ListReadings(ctx context.Context, userID uuid.UUID, metricType string, days int) ([]model.Reading, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	var filter *model.MetricType
	if metricType != "" {
		mt := model.MetricType(metricType)
		if !mt.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("unsupported metric type %q", metricType), nil)
		}
		filter = &mt
	}

	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	readings, err := s.readings.Query(ctx, patient.ID, filter, since)
	if err != nil {
		return nil, apperrors.Persistence("failed to query readings", err)
	}

	// Store returns ascending; the API lists newest first.
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}

// TrendSummaries computes one summary per metric type that has at least one
// reading in the trailing window. Metric types with zero readings are
// omitted entirely.
func (s *Service) TrendSummaries(ctx context.Context, userID uuid.UUID, days int) ([]model.TrendSummary, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	if days <= 0 {
		days = 30
	}

	cacheKey := fmt.Sprintf("%s:%d", statsCacheKey(userID), days)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]model.TrendSummary), nil
	}

	since := time.Now().AddDate(0, 0, -days)

	summaries := make([]model.TrendSummary, 0, len(model.MetricTypes))
	for _, metricType := range model.MetricTypes {
		mt := metricType
		readings, err := s.readings.Query(ctx, patient.ID, &mt, since)
		if err != nil {
			return nil, apperrors.Persistence("failed to query readings", err)
		}
		if summary := vitals.Summarize(readings); summary != nil {
			summaries = append(summaries, *summary)
		}
	}

	s.cache.Set(cacheKey, summaries, cache.DefaultExpiration)
	return summaries, nil
}

func validateReading(metricType model.MetricType, req *model.CreateReadingRequest) error {
	if !metricType.Valid() {
		return apperrors.Validation(fmt.Sprintf("unsupported metric type %q", req.MetricType), nil)
	}
	if math.IsNaN(req.Value) || math.IsInf(req.Value, 0) {
		return apperrors.Validation("value must be a finite number", nil)
	}
	if metricType == model.MetricBloodPressure {
		if req.Systolic == nil || req.Diastolic == nil {
			return apperrors.Validation("systolic and diastolic are required for blood pressure", nil)
		}
	}
	return nil
}

func statsCacheKey(userID uuid.UUID) string {
	return "stats:" + userID.String()
}

// invalidateStats drops every cached summary window for the user. Keys are
// per (user, days) so this sweeps by prefix.
func (s *Service) invalidateStats(userID uuid.UUID) {
	prefix := statsCacheKey(userID)
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}
