package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

type Appointment struct {
	Base
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentType string            `db:"appointment_type" json:"appointment_type"`
	Duration        int               `db:"duration" json:"duration"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
}

type CreateAppointmentRequest struct {
	DoctorID        string    `json:"doctor_id" binding:"required,uuid"`
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
	AppointmentType string    `json:"appointment_type" binding:"omitempty,oneof=consultation video_call follow_up"`
	Duration        int       `json:"duration" binding:"omitempty,min=5,max=240"`
	Notes           string    `json:"notes"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    string    `form:"status"`
	From      time.Time `form:"from" time_format:"2006-01-02"`
	To        time.Time `form:"to" time_format:"2006-01-02"`
}
