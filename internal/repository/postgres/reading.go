package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	"github.com/curagenie/health-api/pkg/metrics"
)

type readingRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

// NewReadingRepository returns the postgres-backed metric store. Readings
// are append-only; rows are never updated or deleted here. metrics may be
// nil.
func NewReadingRepository(db *sqlx.DB, m *metrics.Metrics) repository.ReadingRepository {
	return &readingRepository{db: db, metrics: m}
}

func (r *readingRepository) observe(op string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.DatabaseOperations.WithLabelValues(op, status).Inc()
	r.metrics.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (r *readingRepository) Append(ctx context.Context, reading *model.Reading) error {
	query := `
		INSERT INTO health_metrics (id, patient_id, metric_type, value, unit, systolic, diastolic, device_id, notes, is_alert, alert_message, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		reading.ID,
		reading.PatientID,
		reading.MetricType,
		reading.Value,
		reading.Unit,
		reading.Systolic,
		reading.Diastolic,
		reading.DeviceID,
		reading.Notes,
		reading.IsAlert,
		reading.AlertMessage,
		reading.RecordedAt,
		reading.CreatedAt,
	)
	r.observe("reading_append", start, err)
	if err != nil {
		return fmt.Errorf("failed to append reading: %w", err)
	}
	return nil
}

func (r *readingRepository) Query(ctx context.Context, patientID uuid.UUID, metricType *model.MetricType, since time.Time) ([]model.Reading, error) {
	query := `SELECT * FROM health_metrics WHERE patient_id = $1 AND recorded_at >= $2`
	args := []interface{}{patientID, since}

	if metricType != nil {
		args = append(args, *metricType)
		query += fmt.Sprintf(" AND metric_type = $%d", len(args))
	}
	query += " ORDER BY recorded_at ASC"

	start := time.Now()
	var readings []model.Reading
	err := r.db.SelectContext(ctx, &readings, query, args...)
	r.observe("reading_query", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	return readings, nil
}
