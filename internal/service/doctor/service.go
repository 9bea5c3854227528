package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	logger   *zerolog.Logger
}

func NewService(doctors repository.DoctorRepository, patients repository.PatientRepository, logger *zerolog.Logger) *Service {
	return &Service{doctors: doctors, patients: patients, logger: logger}
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	doctors, err := s.doctors.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Persistence("failed to list doctors", err)
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	return doctor, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}
	return doctor, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}

	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.YearsOfExperience != nil {
		doctor.YearsOfExperience = *req.YearsOfExperience
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.HospitalAffiliation != nil {
		doctor.HospitalAffiliation = *req.HospitalAffiliation
	}

	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, apperrors.Persistence("failed to update doctor profile", err)
	}

	s.logger.Info().Str("doctor_id", doctor.ID.String()).Msg("doctor profile updated")
	return doctor, nil
}

// AddReview records a patient review for a doctor. The reviewer must have a
// patient profile.
func (s *Service) AddReview(ctx context.Context, doctorID, userID uuid.UUID, req *model.CreateReviewRequest) (*model.DoctorReview, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	review := &model.DoctorReview{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patient.ID,
		Rating:    req.Rating,
		Review:    req.Review,
		CreatedAt: time.Now(),
	}
	if err := s.doctors.AddReview(ctx, review); err != nil {
		return nil, apperrors.Persistence("failed to add review", err)
	}
	return review, nil
}

func (s *Service) ListReviews(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorReview, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	reviews, err := s.doctors.ListReviews(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list reviews", err)
	}
	return reviews, nil
}

func (s *Service) ListAvailability(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorAvailability, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	slots, err := s.doctors.ListAvailability(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list availability", err)
	}
	return slots, nil
}
