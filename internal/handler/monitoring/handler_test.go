package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curagenie/health-api/internal/middleware"
	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/notifier"
	"github.com/curagenie/health-api/internal/service/monitoring"
	"github.com/curagenie/health-api/internal/service/report"
	"github.com/curagenie/health-api/pkg/auth"
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
	stored []model.Reading
}

func (f *fakeReadingRepo) Append(_ context.Context, reading *model.Reading) error {
	f.stored = append(f.stored, *reading)
	return nil
}

func (f *fakeReadingRepo) Query(_ context.Context, patientID uuid.UUID, metricType *model.MetricType, since time.Time) ([]model.Reading, error) {
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

type testEnv struct {
	engine   *gin.Engine
	token    string
	userID   uuid.UUID
	readings *fakeReadingRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	patient := &model.Patient{UserID: userID}
	patient.ID = uuid.New()

	patients := &fakePatientRepo{byUser: map[uuid.UUID]*model.Patient{userID: patient}}
	readings := &fakeReadingRepo{}
	user := &model.User{Email: "pat@example.com", FullName: "Pat Doe"}
	user.ID = userID
	users := &fakeUserRepo{user: user}

	logger := zerolog.Nop()
	registry := notifier.NewRegistry(&logger, nil)

	svc := monitoring.NewService(patients, readings, users, registry, &logger, monitoring.Options{})
	reports := report.NewService(patients, readings, users, &logger)

	tokens := auth.NewJWTService("test-secret", 1)
	token, err := tokens.GenerateAccessToken(userID, "pat@example.com", "patient")
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(middleware.ErrorHandler(&logger))

	authMW := middleware.NewAuthMiddleware(tokens)
	api := engine.Group("/api/v1")
	api.Use(authMW.Authenticate())
	NewHandler(svc, reports, registry).RegisterRoutes(api)

	return &testEnv{engine: engine, token: token, userID: userID, readings: readings}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestRecordReadingEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/vitals/metrics", map[string]interface{}{
		"metric_type": "heart_rate",
		"value":       72,
		"unit":        "bpm",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string        `json:"status"`
		Data   model.Reading `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.False(t, resp.Data.IsAlert)
	assert.Equal(t, model.MetricHeartRate, resp.Data.MetricType)
}

func TestRecordReadingEndpointAlert(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/vitals/metrics", map[string]interface{}{
		"metric_type": "glucose",
		"value":       40,
		"unit":        "mg/dL",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data model.Reading `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.IsAlert)
	require.NotNil(t, resp.Data.AlertMessage)
	assert.Equal(t, "CRITICAL: Severe hypoglycemia", *resp.Data.AlertMessage)
}

func TestRecordReadingEndpointUnknownMetric(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/vitals/metrics", map[string]interface{}{
		"metric_type": "cholesterol",
		"value":       190,
		"unit":        "mg/dL",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.readings.stored)
}

func TestRecordReadingEndpointUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vitals/metrics", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListReadingsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	for _, v := range []float64{70, 80} {
		w := env.do(t, http.MethodPost, "/api/v1/vitals/metrics", map[string]interface{}{
			"metric_type": "heart_rate",
			"value":       v,
			"unit":        "bpm",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(2 * time.Millisecond)
	}

	w := env.do(t, http.MethodGet, "/api/v1/vitals/metrics?metric_type=heart_rate&days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.Reading `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 80.0, resp.Data[0].Value)
}

func TestTrendSummariesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	for _, v := range []float64{100, 100, 100, 150, 150} {
		w := env.do(t, http.MethodPost, "/api/v1/vitals/metrics", map[string]interface{}{
			"metric_type": "glucose",
			"value":       v,
			"unit":        "mg/dL",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(2 * time.Millisecond)
	}

	w := env.do(t, http.MethodGet, "/api/v1/vitals/stats?days=30", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.TrendSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, model.MetricGlucose, resp.Data[0].MetricType)
	assert.Equal(t, 120.0, resp.Data[0].Average)
	assert.Equal(t, model.TrendIncreasing, resp.Data[0].Trend)
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/vitals/metrics", map[string]interface{}{
		"metric_type": "oxygen",
		"value":       98,
		"unit":        "%",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/vitals/export?days=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}
