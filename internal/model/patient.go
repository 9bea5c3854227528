package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	DateOfBirth      *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender           string     `db:"gender" json:"gender,omitempty"`
	BloodGroup       string     `db:"blood_group" json:"blood_group,omitempty"`
	Phone            string     `db:"phone" json:"phone,omitempty"`
	Address          string     `db:"address" json:"address,omitempty"`
	EmergencyContact string     `db:"emergency_contact" json:"emergency_contact,omitempty"`
	MedicalHistory   JSONMap    `db:"-" json:"medical_history,omitempty"`
	MedicalHistoryJSON string   `db:"medical_history" json:"-"`
}

type UpdatePatientRequest struct {
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Gender           *string    `json:"gender"`
	BloodGroup       *string    `json:"blood_group"`
	Phone            *string    `json:"phone"`
	Address          *string    `json:"address"`
	EmergencyContact *string    `json:"emergency_contact"`
	MedicalHistory   JSONMap    `json:"medical_history"`
}
