package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

const defaultDurationMinutes = 30

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	logger       *zerolog.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		logger:       logger,
	}
}

// Book schedules an appointment for the authenticated patient, rejecting
// past dates and slots that overlap an existing booking for the doctor.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation("invalid doctor id", err)
	}
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}

	if req.AppointmentDate.Before(time.Now()) {
		return nil, apperrors.Validation("appointment date must be in the future", nil)
	}

	duration := req.Duration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	end := req.AppointmentDate.Add(time.Duration(duration) * time.Minute)

	conflict, err := s.appointments.HasConflict(ctx, doctorID, req.AppointmentDate, end)
	if err != nil {
		return nil, apperrors.Persistence("failed to check availability", err)
	}
	if conflict {
		return nil, apperrors.Validation("the selected slot is no longer available", nil)
	}

	appointmentType := req.AppointmentType
	if appointmentType == "" {
		appointmentType = "consultation"
	}

	appointment := &model.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentType: appointmentType,
		Duration:        duration,
		Status:          model.AppointmentStatusScheduled,
		Notes:           req.Notes,
	}
	appointment.ID = uuid.New()

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperrors.Persistence("failed to create appointment", err)
	}

	s.logger.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("doctor_id", doctorID.String()).
		Time("date", appointment.AppointmentDate).
		Msg("appointment booked")
	return appointment, nil
}

// ListForPatient returns the authenticated patient's appointments.
func (s *Service) ListForPatient(ctx context.Context, userID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}
	filters.PatientID = patient.ID

	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Persistence("failed to list appointments", err)
	}
	return appointments, nil
}

// ListForDoctor returns the authenticated doctor's appointments.
func (s *Service) ListForDoctor(ctx context.Context, userID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}
	filters.DoctorID = doctor.ID

	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Persistence("failed to list appointments", err)
	}
	return appointments, nil
}

// Cancel marks the appointment cancelled. Only the owning patient or the
// assigned doctor may cancel, and completed appointments stay completed.
func (s *Service) Cancel(ctx context.Context, userID uuid.UUID, appointmentID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}

	owns, err := s.owns(ctx, userID, appointment)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, apperrors.Forbidden("not your appointment")
	}

	if appointment.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.Validation("completed appointments cannot be cancelled", nil)
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return appointment, nil
	}

	appointment.Status = model.AppointmentStatusCancelled
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, apperrors.Persistence("failed to cancel appointment", err)
	}
	return appointment, nil
}

// UpdateStatus moves the appointment through its lifecycle. Doctor-only.
func (s *Service) UpdateStatus(ctx context.Context, userID uuid.UUID, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}

	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if appointment.DoctorID != doctor.ID {
		return nil, apperrors.Forbidden("not your appointment")
	}

	switch status {
	case model.AppointmentStatusInProgress, model.AppointmentStatusCompleted, model.AppointmentStatusCancelled:
	default:
		return nil, apperrors.Validation("invalid appointment status", nil)
	}

	appointment.Status = status
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, apperrors.Persistence("failed to update appointment", err)
	}
	return appointment, nil
}

func (s *Service) owns(ctx context.Context, userID uuid.UUID, appointment *model.Appointment) (bool, error) {
	if patient, err := s.patients.GetByUserID(ctx, userID); err == nil && patient.ID == appointment.PatientID {
		return true, nil
	}
	if doctor, err := s.doctors.GetByUserID(ctx, userID); err == nil && doctor.ID == appointment.DoctorID {
		return true, nil
	}
	return false, nil
}
