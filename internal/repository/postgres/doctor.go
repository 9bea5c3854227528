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

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (id, user_id, specialization, license_number, years_of_experience, phone, bio, hospital_affiliation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.YearsOfExperience,
		doctor.Phone,
		doctor.Bio,
		doctor.HospitalAffiliation,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE id = $1 AND deleted_at IS NULL`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE user_id = $1 AND deleted_at IS NULL`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET specialization = $1, license_number = $2, years_of_experience = $3, phone = $4, bio = $5, hospital_affiliation = $6, updated_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		doctor.Specialization,
		doctor.LicenseNumber,
		doctor.YearsOfExperience,
		doctor.Phone,
		doctor.Bio,
		doctor.HospitalAffiliation,
		time.Now(),
		doctor.ID,
	)
	return err
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE deleted_at IS NULL`
	args := []interface{}{}

	if filters != nil && filters.Specialization != "" {
		args = append(args, filters.Specialization)
		query += fmt.Sprintf(" AND specialization = $%d", len(args))
	}
	if filters != nil && filters.SearchTerm != "" {
		args = append(args, "%"+filters.SearchTerm+"%")
		query += fmt.Sprintf(" AND (specialization ILIKE $%d OR hospital_affiliation ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) AddReview(ctx context.Context, review *model.DoctorReview) error {
	query := `
		INSERT INTO doctor_reviews (id, doctor_id, patient_id, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	review.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.DoctorID,
		review.PatientID,
		review.Rating,
		review.Review,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add review: %w", err)
	}
	return nil
}

func (r *doctorRepository) ListReviews(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorReview, error) {
	query := `SELECT * FROM doctor_reviews WHERE doctor_id = $1 ORDER BY created_at DESC`
	var reviews []*model.DoctorReview
	if err := r.db.SelectContext(ctx, &reviews, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *doctorRepository) ListAvailability(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorAvailability, error) {
	query := `SELECT * FROM doctor_availability WHERE doctor_id = $1 AND is_available = true ORDER BY day_of_week, start_time`
	var slots []*model.DoctorAvailability
	if err := r.db.SelectContext(ctx, &slots, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return slots, nil
}
