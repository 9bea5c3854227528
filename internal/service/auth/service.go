package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/internal/email"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	"github.com/curagenie/health-api/pkg/auth"
	apperrors "github.com/curagenie/health-api/pkg/errors"
	"github.com/curagenie/health-api/pkg/security"
)

type Service struct {
	users    repository.UserRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	hasher   security.PasswordHasher
	tokens   auth.JWTService
	emails   email.Service
	logger   *zerolog.Logger
}

func NewService(
	users repository.UserRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	hasher security.PasswordHasher,
	tokens auth.JWTService,
	emails email.Service,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		users:    users,
		patients: patients,
		doctors:  doctors,
		hasher:   hasher,
		tokens:   tokens,
		emails:   emails,
		logger:   logger,
	}
}

// Register creates the user account plus its role profile (patient or
// doctor) in one call. The welcome email is best effort.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.users.GetByEmail(ctx, normalized); err == nil && existing != nil {
		return nil, apperrors.Validation("email already registered", nil)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("password does not meet requirements", err)
	}

	now := time.Now()
	user := &model.User{
		ID:             uuid.New(),
		Email:          normalized,
		HashedPassword: hashed,
		FullName:       req.FullName,
		Role:           model.UserRole(req.Role),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Persistence("failed to create user", err)
	}

	switch user.Role {
	case model.UserRolePatient:
		patient := &model.Patient{UserID: user.ID}
		patient.ID = uuid.New()
		if err := s.patients.Create(ctx, patient); err != nil {
			return nil, apperrors.Persistence("failed to create patient profile", err)
		}
	case model.UserRoleDoctor:
		doctor := &model.Doctor{UserID: user.ID}
		doctor.ID = uuid.New()
		if err := s.doctors.Create(ctx, doctor); err != nil {
			return nil, apperrors.Persistence("failed to create doctor profile", err)
		}
	}

	if err := s.emails.SendWelcome(ctx, user.Email, user.FullName); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to send welcome email")
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues an access token. Invalid email and
// invalid password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}
	if err := s.hasher.Compare(user.HashedPassword, req.Password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// Me returns the account behind an authenticated user id.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return user, nil
}
