package model

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	Base
	UserID              uuid.UUID `db:"user_id" json:"user_id"`
	Specialization      string    `db:"specialization" json:"specialization"`
	LicenseNumber       string    `db:"license_number" json:"license_number"`
	YearsOfExperience   int       `db:"years_of_experience" json:"years_of_experience"`
	Phone               string    `db:"phone" json:"phone,omitempty"`
	Bio                 string    `db:"bio" json:"bio,omitempty"`
	HospitalAffiliation string    `db:"hospital_affiliation" json:"hospital_affiliation,omitempty"`
}

type UpdateDoctorRequest struct {
	Specialization      *string `json:"specialization"`
	LicenseNumber       *string `json:"license_number"`
	YearsOfExperience   *int    `json:"years_of_experience"`
	Phone               *string `json:"phone"`
	Bio                 *string `json:"bio"`
	HospitalAffiliation *string `json:"hospital_affiliation"`
}

type DoctorReview struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Rating    int       `db:"rating" json:"rating"`
	Review    string    `db:"review" json:"review,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

type DoctorFilters struct {
	Specialization string `form:"specialization"`
	SearchTerm     string `form:"q"`
}

// DoctorAvailability is one weekly availability window for a doctor.
type DoctorAvailability struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DayOfWeek    int       `db:"day_of_week" json:"day_of_week"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	IsAvailable  bool      `db:"is_available" json:"is_available"`
	SlotDuration int       `db:"slot_duration" json:"slot_duration"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
