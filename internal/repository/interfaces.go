package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/curagenie/health-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error)
		AddReview(ctx context.Context, review *model.DoctorReview) error
		ListReviews(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorReview, error)
		ListAvailability(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorAvailability, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		HasConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (bool, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error)
	}

	// ReadingRepository is the metric store: an append-only log of readings
	// per patient, queryable by type and time window. Query results are
	// ordered by recorded_at ascending.
	ReadingRepository interface {
		Append(ctx context.Context, reading *model.Reading) error
		Query(ctx context.Context, patientID uuid.UUID, metricType *model.MetricType, since time.Time) ([]model.Reading, error)
	}

	ChatRepository interface {
		Create(ctx context.Context, message *model.ChatMessage) error
		ListByUser(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]*model.ChatMessage, error)
	}

	PredictionRepository interface {
		Create(ctx context.Context, prediction *model.Prediction) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
		Update(ctx context.Context, prediction *model.Prediction) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prediction, error)
	}
)
