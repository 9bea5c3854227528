package patient

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

type Service struct {
	patients repository.PatientRepository
	logger   *zerolog.Logger
}

func NewService(patients repository.PatientRepository, logger *zerolog.Logger) *Service {
	return &Service{patients: patients, logger: logger}
}

// GetProfile returns the patient profile owned by userID with the medical
// history decoded.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}
	if err := decodeMedicalHistory(patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

// UpdateProfile applies a partial update; nil fields are left untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = *req.EmergencyContact
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = req.MedicalHistory
		raw, err := json.Marshal(req.MedicalHistory)
		if err != nil {
			return nil, apperrors.Validation("invalid medical history", err)
		}
		patient.MedicalHistoryJSON = string(raw)
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.Persistence("failed to update patient profile", err)
	}

	s.logger.Info().Str("patient_id", patient.ID.String()).Msg("patient profile updated")
	return patient, nil
}

func decodeMedicalHistory(patient *model.Patient) error {
	if patient.MedicalHistoryJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(patient.MedicalHistoryJSON), &patient.MedicalHistory)
}
