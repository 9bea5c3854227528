package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curagenie/health-api/internal/email"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/pkg/auth"
	apperrors "github.com/curagenie/health-api/pkg/errors"
	"github.com/curagenie/health-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uuid.UUID]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

type fakePatientRepo struct {
	created []*model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, patient *model.Patient) error {
	f.created = append(f.created, patient)
	return nil
}
func (f *fakePatientRepo) Get(context.Context, uuid.UUID) (*model.Patient, error) {
	return nil, errors.New("not implemented")
}
func (f *fakePatientRepo) GetByUserID(context.Context, uuid.UUID) (*model.Patient, error) {
	return nil, errors.New("not implemented")
}
func (f *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }

type fakeDoctorRepo struct {
	created []*model.Doctor
}

func (f *fakeDoctorRepo) Create(_ context.Context, doctor *model.Doctor) error {
	f.created = append(f.created, doctor)
	return nil
}
func (f *fakeDoctorRepo) Get(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeDoctorRepo) GetByUserID(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeDoctorRepo) Update(context.Context, *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) List(context.Context, *model.DoctorFilters) ([]*model.Doctor, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) AddReview(context.Context, *model.DoctorReview) error { return nil }
func (f *fakeDoctorRepo) ListReviews(context.Context, uuid.UUID) ([]*model.DoctorReview, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) ListAvailability(context.Context, uuid.UUID) ([]*model.DoctorAvailability, error) {
	return nil, nil
}

func newTestService() (*Service, *fakeUserRepo, *fakePatientRepo, *fakeDoctorRepo) {
	users := newFakeUserRepo()
	patients := &fakePatientRepo{}
	doctors := &fakeDoctorRepo{}
	logger := zerolog.Nop()

	svc := NewService(
		users,
		patients,
		doctors,
		security.NewBcryptHasher(4),
		auth.NewJWTService("test-secret", 1),
		email.Noop(),
		&logger,
	)
	return svc, users, patients, doctors
}

func TestRegisterPatientCreatesProfile(t *testing.T) {
	svc, users, patients, doctors := newTestService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "Jane@Example.com",
		Password: "supersecret",
		FullName: "Jane Doe",
		Role:     "patient",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, model.UserRolePatient, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "supersecret", user.HashedPassword)

	require.Len(t, patients.created, 1)
	assert.Equal(t, user.ID, patients.created[0].UserID)
	assert.Empty(t, doctors.created)

	_, ok := users.byEmail["jane@example.com"]
	assert.True(t, ok)
}

func TestRegisterDoctorCreatesProfile(t *testing.T) {
	svc, _, patients, doctors := newTestService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "doc@example.com",
		Password: "supersecret",
		FullName: "Dr. Smith",
		Role:     "doctor",
	})
	require.NoError(t, err)

	require.Len(t, doctors.created, 1)
	assert.Equal(t, user.ID, doctors.created[0].UserID)
	assert.Empty(t, patients.created)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := &model.RegisterRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
		FullName: "Jane Doe",
		Role:     "patient",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
		FullName: "Jane Doe",
		Role:     "patient",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, "jane@example.com", resp.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
		FullName: "Jane Doe",
		Role:     "patient",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, users, _, _ := newTestService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
		FullName: "Jane Doe",
		Role:     "patient",
	})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, users.Update(context.Background(), user))

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}
