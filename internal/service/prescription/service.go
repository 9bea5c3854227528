package prescription

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
	prescriptions repository.PrescriptionRepository
	patients      repository.PatientRepository
	doctors       repository.DoctorRepository
	logger        *zerolog.Logger
}

func NewService(
	prescriptions repository.PrescriptionRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		prescriptions: prescriptions,
		patients:      patients,
		doctors:       doctors,
		logger:        logger,
	}
}

// Create issues a prescription. Doctor-only.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient id", err)
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	raw, err := json.Marshal(req.Medications)
	if err != nil {
		return nil, apperrors.Validation("invalid medications", err)
	}

	prescription := &model.Prescription{
		PatientID:       patientID,
		DoctorID:        doctor.ID,
		Medications:     req.Medications,
		MedicationsJSON: string(raw),
		Diagnosis:       req.Diagnosis,
		Instructions:    req.Instructions,
		ValidUntil:      req.ValidUntil,
		Status:          model.PrescriptionStatusActive,
	}
	prescription.ID = uuid.New()

	if req.AppointmentID != "" {
		appointmentID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			return nil, apperrors.Validation("invalid appointment id", err)
		}
		prescription.AppointmentID = &appointmentID
	}

	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, apperrors.Persistence("failed to create prescription", err)
	}

	s.logger.Info().
		Str("prescription_id", prescription.ID.String()).
		Str("patient_id", patientID.String()).
		Msg("prescription issued")
	return prescription, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.prescriptions.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("prescription", err)
	}

	owns := false
	if patient, err := s.patients.GetByUserID(ctx, userID); err == nil && patient.ID == prescription.PatientID {
		owns = true
	}
	if doctor, err := s.doctors.GetByUserID(ctx, userID); err == nil && doctor.ID == prescription.DoctorID {
		owns = true
	}
	if !owns {
		return nil, apperrors.Forbidden("not your prescription")
	}

	if err := decodeMedications(prescription); err != nil {
		return nil, apperrors.Internal(err)
	}
	return prescription, nil
}

// ListMine returns the caller's prescriptions, as patient or as doctor
// depending on which profile they own.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]*model.Prescription, error) {
	if patient, err := s.patients.GetByUserID(ctx, userID); err == nil {
		return s.list(ctx, func() ([]*model.Prescription, error) {
			return s.prescriptions.ListByPatient(ctx, patient.ID)
		})
	}
	if doctor, err := s.doctors.GetByUserID(ctx, userID); err == nil {
		return s.list(ctx, func() ([]*model.Prescription, error) {
			return s.prescriptions.ListByDoctor(ctx, doctor.ID)
		})
	}
	return nil, apperrors.NotFound("profile", nil)
}

func (s *Service) list(_ context.Context, fetch func() ([]*model.Prescription, error)) ([]*model.Prescription, error) {
	prescriptions, err := fetch()
	if err != nil {
		return nil, apperrors.Persistence("failed to list prescriptions", err)
	}
	for _, p := range prescriptions {
		if err := decodeMedications(p); err != nil {
			return nil, apperrors.Internal(err)
		}
	}
	return prescriptions, nil
}

func decodeMedications(p *model.Prescription) error {
	if p.MedicationsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(p.MedicationsJSON), &p.Medications)
}
