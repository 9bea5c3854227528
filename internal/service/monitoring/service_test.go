package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/notifier"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

type fakePatientRepo struct {
	byUser map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) Get(context.Context, uuid.UUID) (*model.Patient, error) {
	return nil, errors.New("not implemented")
}
func (f *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Patient, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return p, nil
}

type fakeReadingRepo struct {
	stored     []model.Reading
	appendErr  error
	queryCalls int
}

func (f *fakeReadingRepo) Append(_ context.Context, reading *model.Reading) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.stored = append(f.stored, *reading)
	return nil
}

func (f *fakeReadingRepo) Query(_ context.Context, patientID uuid.UUID, metricType *model.MetricType, since time.Time) ([]model.Reading, error) {
	f.queryCalls++
	var out []model.Reading
	for _, r := range f.stored {
		if r.PatientID != patientID {
			continue
		}
		if metricType != nil && r.MetricType != *metricType {
			continue
		}
		if r.RecordedAt.Before(since) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeUserRepo struct {
	user *model.User
}

func (f *fakeUserRepo) Create(context.Context, *model.User) error { return nil }
func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, errors.New("no rows")
	}
	return f.user, nil
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserRepo) Update(context.Context, *model.User) error { return nil }

type fakeConn struct {
	events []interface{}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.events = append(c.events, v)
	return nil
}
func (c *fakeConn) Close() error { return nil }

type recordingBroker struct {
	published []interface{}
	channels  []string
}

func (b *recordingBroker) Publish(_ context.Context, channel string, message interface{}) error {
	b.channels = append(b.channels, channel)
	b.published = append(b.published, message)
	return nil
}
func (b *recordingBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}
func (b *recordingBroker) Close() error { return nil }

type recordingEmails struct {
	sent []string
}

func (e *recordingEmails) SendCriticalAlert(_ context.Context, to string, _ string, _ float64, message string) error {
	e.sent = append(e.sent, message)
	return nil
}

type fixture struct {
	svc      *Service
	patients *fakePatientRepo
	readings *fakeReadingRepo
	users    *fakeUserRepo
	registry *notifier.Registry
	broker   *recordingBroker
	emails   *recordingEmails
	userID   uuid.UUID
	patient  *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	patient := &model.Patient{UserID: userID}
	patient.ID = uuid.New()

	patients := &fakePatientRepo{byUser: map[uuid.UUID]*model.Patient{userID: patient}}
	readings := &fakeReadingRepo{}
	users := &fakeUserRepo{user: &model.User{Email: "pat@example.com"}}
	users.user.ID = userID

	logger := zerolog.Nop()
	registry := notifier.NewRegistry(&logger, nil)
	broker := &recordingBroker{}
	emails := &recordingEmails{}

	svc := NewService(patients, readings, users, registry, &logger, Options{
		Broker: broker,
		Emails: emails,
	})

	return &fixture{
		svc:      svc,
		patients: patients,
		readings: readings,
		users:    users,
		registry: registry,
		broker:   broker,
		emails:   emails,
		userID:   userID,
		patient:  patient,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestRecordReadingNormal(t *testing.T) {
	f := newFixture(t)

	reading, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "heart_rate",
		Value:      72,
		Unit:       "bpm",
	})
	require.NoError(t, err)

	assert.False(t, reading.IsAlert)
	assert.Nil(t, reading.AlertMessage)
	assert.Equal(t, f.patient.ID, reading.PatientID)
	assert.False(t, reading.RecordedAt.IsZero())
	require.Len(t, f.readings.stored, 1)
	assert.Empty(t, f.broker.published)
	assert.Empty(t, f.emails.sent)
}

func TestRecordReadingNoPatientProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordReading(context.Background(), uuid.New(), &model.CreateReadingRequest{
		MetricType: "heart_rate",
		Value:      72,
		Unit:       "bpm",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	assert.Empty(t, f.readings.stored)
}

func TestRecordReadingUnknownMetricType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "cholesterol",
		Value:      190,
		Unit:       "mg/dL",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Empty(t, f.readings.stored)
}

func TestRecordReadingBloodPressureMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "blood_pressure",
		Value:      120,
		Unit:       "mmHg",
		Systolic:   floatPtr(120),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Empty(t, f.readings.stored)
}

func TestRecordReadingPersistenceFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.readings.appendErr = errors.New("connection reset")

	conn := &fakeConn{}
	f.registry.Connect(f.userID, conn)

	_, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "glucose",
		Value:      300,
		Unit:       "mg/dL",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPersistence))

	// Nothing may leak out when the store rejects the reading.
	assert.Empty(t, conn.events)
	assert.Empty(t, f.broker.published)
	assert.Empty(t, f.emails.sent)
}

func TestRecordReadingWarningAlert(t *testing.T) {
	f := newFixture(t)

	conn := &fakeConn{}
	f.registry.Connect(f.userID, conn)

	reading, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "glucose",
		Value:      55,
		Unit:       "mg/dL",
	})
	require.NoError(t, err)

	assert.True(t, reading.IsAlert)
	require.NotNil(t, reading.AlertMessage)
	assert.Equal(t, "Low blood sugar (hypoglycemia)", *reading.AlertMessage)

	require.Len(t, conn.events, 1)
	event, ok := conn.events[0].(model.AlertEvent)
	require.True(t, ok)
	assert.Equal(t, "alert", event.Type)
	assert.Equal(t, model.MetricGlucose, event.MetricType)
	assert.Equal(t, 55.0, event.Value)

	require.Len(t, f.broker.channels, 1)
	assert.Equal(t, AlertChannel, f.broker.channels[0])

	// Warning-level alerts do not email.
	assert.Empty(t, f.emails.sent)
}

func TestRecordReadingCriticalAlertEmails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "glucose",
		Value:      40,
		Unit:       "mg/dL",
	})
	require.NoError(t, err)

	require.Len(t, f.emails.sent, 1)
	assert.Equal(t, "CRITICAL: Severe hypoglycemia", f.emails.sent[0])
}

func TestRecordReadingAlertWithNoChannelStillSucceeds(t *testing.T) {
	f := newFixture(t)

	reading, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "blood_pressure",
		Value:      185,
		Unit:       "mmHg",
		Systolic:   floatPtr(185),
		Diastolic:  floatPtr(80),
	})
	require.NoError(t, err)
	assert.True(t, reading.IsAlert)
	require.NotNil(t, reading.AlertMessage)
	assert.Equal(t, "CRITICAL: Hypertensive crisis", *reading.AlertMessage)
	require.Len(t, f.readings.stored, 1)
}

func TestRecordReadingClientSuppliedRecordedAt(t *testing.T) {
	f := newFixture(t)

	recordedAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	reading, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "temperature",
		Value:      98.4,
		Unit:       "F",
		RecordedAt: &recordedAt,
	})
	require.NoError(t, err)
	assert.True(t, recordedAt.Equal(reading.RecordedAt))
}

func TestListReadingsNewestFirst(t *testing.T) {
	f := newFixture(t)

	for _, v := range []float64{70, 75, 80} {
		_, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
			MetricType: "heart_rate",
			Value:      v,
			Unit:       "bpm",
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	readings, err := f.svc.ListReadings(context.Background(), f.userID, "heart_rate", 7)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, 80.0, readings[0].Value)
	assert.Equal(t, 70.0, readings[2].Value)
}

func TestListReadingsRejectsUnknownFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListReadings(context.Background(), f.userID, "steps", 7)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestTrendSummariesOmitEmptyMetricTypes(t *testing.T) {
	f := newFixture(t)

	for _, v := range []float64{100, 100, 100, 150, 150} {
		_, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
			MetricType: "glucose",
			Value:      v,
			Unit:       "mg/dL",
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	summaries, err := f.svc.TrendSummaries(context.Background(), f.userID, 30)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, model.MetricGlucose, s.MetricType)
	assert.Equal(t, 120.0, s.Average)
	assert.Equal(t, 100.0, s.Min)
	assert.Equal(t, 150.0, s.Max)
	assert.Equal(t, 150.0, s.Latest)
	assert.Equal(t, model.TrendIncreasing, s.Trend)
}

func TestTrendSummariesCached(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordReading(context.Background(), f.userID, &model.CreateReadingRequest{
		MetricType: "oxygen",
		Value:      98,
		Unit:       "%",
	})
	require.NoError(t, err)

	_, err = f.svc.TrendSummaries(context.Background(), f.userID, 30)
	require.NoError(t, err)
	callsAfterFirst := f.readings.queryCalls

	_, err = f.svc.TrendSummaries(context.Background(), f.userID, 30)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, f.readings.queryCalls)
}
