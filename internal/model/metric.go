package model

import (
	"time"

	"github.com/google/uuid"
)

// MetricType is the closed set of vital-sign metric types the platform
// classifies and trends.
type MetricType string

const (
	MetricHeartRate     MetricType = "heart_rate"
	MetricBloodPressure MetricType = "blood_pressure"
	MetricGlucose       MetricType = "glucose"
	MetricOxygen        MetricType = "oxygen"
	MetricTemperature   MetricType = "temperature"
)

// MetricTypes lists all recognized metric types in a stable order.
var MetricTypes = []MetricType{
	MetricHeartRate,
	MetricBloodPressure,
	MetricGlucose,
	MetricOxygen,
	MetricTemperature,
}

// Valid reports whether t is one of the recognized metric types.
func (t MetricType) Valid() bool {
	switch t {
	case MetricHeartRate, MetricBloodPressure, MetricGlucose, MetricOxygen, MetricTemperature:
		return true
	}
	return false
}

// Reading is one vital-sign observation for a patient. The alert fields are
// computed once at ingestion and never change afterwards, even if thresholds
// are later revised.
type Reading struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	MetricType   MetricType `db:"metric_type" json:"metric_type"`
	Value        float64    `db:"value" json:"value"`
	Unit         string     `db:"unit" json:"unit"`
	Systolic     *float64   `db:"systolic" json:"systolic,omitempty"`
	Diastolic    *float64   `db:"diastolic" json:"diastolic,omitempty"`
	DeviceID     string     `db:"device_id" json:"device_id,omitempty"`
	Notes        string     `db:"notes" json:"notes,omitempty"`
	IsAlert      bool       `db:"is_alert" json:"is_alert"`
	AlertMessage *string    `db:"alert_message" json:"alert_message,omitempty"`
	RecordedAt   time.Time  `db:"recorded_at" json:"recorded_at"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// CreateReadingRequest is the ingestion payload for the authenticated patient.
// RecordedAt is optional clinical time; the server fills it with now() when
// absent.
type CreateReadingRequest struct {
	MetricType string     `json:"metric_type" binding:"required"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit" binding:"required"`
	Systolic   *float64   `json:"systolic"`
	Diastolic  *float64   `json:"diastolic"`
	DeviceID   string     `json:"device_id"`
	Notes      string     `json:"notes"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// Trend is the directional classification of a metric over a window.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// TrendSummary is recomputed on demand and never persisted.
type TrendSummary struct {
	MetricType MetricType `json:"metric_type"`
	Average    float64    `json:"average"`
	Min        float64    `json:"min"`
	Max        float64    `json:"max"`
	Latest     float64    `json:"latest"`
	Trend      Trend      `json:"trend"`
	Unit       string     `json:"unit"`
}

// AlertEvent is the realtime payload pushed to a connected user when a
// reading classifies as an alert.
type AlertEvent struct {
	Type       string     `json:"type"`
	MetricType MetricType `json:"metric_type"`
	Value      float64    `json:"value"`
	Message    string     `json:"message"`
}
