package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
)

type predictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) repository.PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *model.Prediction) error {
	query := `
		INSERT INTO predictions (id, patient_id, prediction_type, input_data, result, confidence_score, risk_level, reviewed_by, doctor_notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	prediction.CreatedAt = time.Now()
	prediction.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		prediction.ID,
		prediction.PatientID,
		prediction.PredictionType,
		prediction.InputDataJSON,
		prediction.Result,
		prediction.ConfidenceScore,
		prediction.RiskLevel,
		prediction.ReviewedBy,
		prediction.DoctorNotes,
		prediction.Status,
		prediction.CreatedAt,
		prediction.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

func (r *predictionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	query := `SELECT * FROM predictions WHERE id = $1 AND deleted_at IS NULL`
	var prediction model.Prediction
	if err := r.db.GetContext(ctx, &prediction, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &prediction, nil
}

func (r *predictionRepository) Update(ctx context.Context, prediction *model.Prediction) error {
	query := `
		UPDATE predictions
		SET result = $1, confidence_score = $2, risk_level = $3, reviewed_by = $4, doctor_notes = $5, status = $6, updated_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		prediction.Result,
		prediction.ConfidenceScore,
		prediction.RiskLevel,
		prediction.ReviewedBy,
		prediction.DoctorNotes,
		prediction.Status,
		time.Now(),
		prediction.ID,
	)
	return err
}

func (r *predictionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prediction, error) {
	query := `SELECT * FROM predictions WHERE patient_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`
	var predictions []*model.Prediction
	if err := r.db.SelectContext(ctx, &predictions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return predictions, nil
}
