package model

import (
	"time"

	"github.com/google/uuid"
)

type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "active"
	PrescriptionStatusExpired   PrescriptionStatus = "expired"
	PrescriptionStatusCancelled PrescriptionStatus = "cancelled"
)

// Medication is a single line item on a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type Prescription struct {
	Base
	AppointmentID  *uuid.UUID         `db:"appointment_id" json:"appointment_id,omitempty"`
	PatientID      uuid.UUID          `db:"patient_id" json:"patient_id"`
	DoctorID       uuid.UUID          `db:"doctor_id" json:"doctor_id"`
	Medications    []Medication       `db:"-" json:"medications"`
	MedicationsJSON string            `db:"medications" json:"-"`
	Diagnosis      string             `db:"diagnosis" json:"diagnosis"`
	Instructions   string             `db:"instructions" json:"instructions,omitempty"`
	ValidUntil     *time.Time         `db:"valid_until" json:"valid_until,omitempty"`
	Status         PrescriptionStatus `db:"status" json:"status"`
}

type CreatePrescriptionRequest struct {
	PatientID     string       `json:"patient_id" binding:"required,uuid"`
	AppointmentID string       `json:"appointment_id" binding:"omitempty,uuid"`
	Medications   []Medication `json:"medications" binding:"required,min=1,dive"`
	Diagnosis     string       `json:"diagnosis" binding:"required"`
	Instructions  string       `json:"instructions"`
	ValidUntil    *time.Time   `json:"valid_until"`
}
