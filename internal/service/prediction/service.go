// Package prediction runs patient-submitted data through the external ML
// scoring service and keeps the result for doctor review.
package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/internal/config"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

// Scorer is the outbound ML surface.
type Scorer interface {
	Score(ctx context.Context, predictionType string, input model.JSONMap) (*ScoreResult, error)
}

type ScoreResult struct {
	Result     string  `json:"result"`
	Confidence float64 `json:"confidence"`
	RiskLevel  string  `json:"risk_level"`
}

type Service struct {
	predictions repository.PredictionRepository
	patients    repository.PatientRepository
	doctors     repository.DoctorRepository
	scorer      Scorer
	logger      *zerolog.Logger
}

func NewService(
	predictions repository.PredictionRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	scorer Scorer,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		predictions: predictions,
		patients:    patients,
		doctors:     doctors,
		scorer:      scorer,
		logger:      logger,
	}
}

// Create scores the input synchronously and persists the outcome in pending
// state for later doctor review.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreatePredictionRequest) (*model.Prediction, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	score, err := s.scorer.Score(ctx, req.PredictionType, req.InputData)
	if err != nil {
		s.logger.Warn().Err(err).Str("prediction_type", req.PredictionType).Msg("scoring failed")
		return nil, apperrors.Internal(err)
	}

	raw, err := json.Marshal(req.InputData)
	if err != nil {
		return nil, apperrors.Validation("invalid input data", err)
	}

	prediction := &model.Prediction{
		PatientID:       patient.ID,
		PredictionType:  req.PredictionType,
		InputData:       req.InputData,
		InputDataJSON:   string(raw),
		Result:          score.Result,
		ConfidenceScore: score.Confidence,
		RiskLevel:       score.RiskLevel,
		Status:          model.PredictionStatusPending,
	}
	prediction.ID = uuid.New()

	if err := s.predictions.Create(ctx, prediction); err != nil {
		return nil, apperrors.Persistence("failed to store prediction", err)
	}

	s.logger.Info().
		Str("prediction_id", prediction.ID.String()).
		Str("risk_level", prediction.RiskLevel).
		Msg("prediction created")
	return prediction, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*model.Prediction, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}
	predictions, err := s.predictions.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list predictions", err)
	}
	return predictions, nil
}

// Review lets a doctor annotate and advance a pending prediction.
func (s *Service) Review(ctx context.Context, userID uuid.UUID, predictionID uuid.UUID, req *model.ReviewPredictionRequest) (*model.Prediction, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}

	prediction, err := s.predictions.Get(ctx, predictionID)
	if err != nil {
		return nil, apperrors.NotFound("prediction", err)
	}

	prediction.ReviewedBy = &doctor.ID
	prediction.DoctorNotes = req.DoctorNotes
	prediction.Status = model.PredictionStatus(req.Status)

	if err := s.predictions.Update(ctx, prediction); err != nil {
		return nil, apperrors.Persistence("failed to update prediction", err)
	}
	return prediction, nil
}

// restyScorer calls the external ML service.
type restyScorer struct {
	client *resty.Client
}

func NewScorer(cfg config.MLConfig) Scorer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(60 * time.Second).
		SetRetryCount(1)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &restyScorer{client: client}
}

func (s *restyScorer) Score(ctx context.Context, predictionType string, input model.JSONMap) (*ScoreResult, error) {
	var out ScoreResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"prediction_type": predictionType,
			"input":           input,
		}).
		SetResult(&out).
		Post("/v1/predict")
	if err != nil {
		return nil, fmt.Errorf("ml request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ml service returned %s", resp.Status())
	}
	return &out, nil
}
