package model

import (
	"github.com/google/uuid"
)

type PredictionStatus string

const (
	PredictionStatusPending  PredictionStatus = "pending"
	PredictionStatusReviewed PredictionStatus = "reviewed"
	PredictionStatusApproved PredictionStatus = "approved"
)

type Prediction struct {
	Base
	PatientID       uuid.UUID        `db:"patient_id" json:"patient_id"`
	PredictionType  string           `db:"prediction_type" json:"prediction_type"`
	InputData       JSONMap          `db:"-" json:"input_data,omitempty"`
	InputDataJSON   string           `db:"input_data" json:"-"`
	Result          string           `db:"result" json:"result"`
	ConfidenceScore float64          `db:"confidence_score" json:"confidence_score"`
	RiskLevel       string           `db:"risk_level" json:"risk_level"`
	ReviewedBy      *uuid.UUID       `db:"reviewed_by" json:"reviewed_by,omitempty"`
	DoctorNotes     string           `db:"doctor_notes" json:"doctor_notes,omitempty"`
	Status          PredictionStatus `db:"status" json:"status"`
}

type CreatePredictionRequest struct {
	PredictionType string  `json:"prediction_type" binding:"required,oneof=diabetes heart_disease brain_tumor"`
	InputData      JSONMap `json:"input_data" binding:"required"`
}

type ReviewPredictionRequest struct {
	DoctorNotes string `json:"doctor_notes"`
	Status      string `json:"status" binding:"required,oneof=reviewed approved"`
}
