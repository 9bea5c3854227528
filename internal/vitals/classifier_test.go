package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curagenie/health-api/internal/model"
)

func f(v float64) *float64 { return &v }

func TestClassifyScalarBounds(t *testing.T) {
	tests := []struct {
		name       string
		metricType model.MetricType
		value      float64
		wantAlert  bool
		wantMsg    string
	}{
		{"heart rate normal", model.MetricHeartRate, 72, false, ""},
		{"heart rate low", model.MetricHeartRate, 55, true, "Heart rate is below normal range (bradycardia)"},
		{"heart rate high", model.MetricHeartRate, 105, true, "Heart rate is above normal range (tachycardia)"},
		{"heart rate critical low", model.MetricHeartRate, 38, true, "CRITICAL: Dangerously low heart rate"},
		{"heart rate critical high wins over high", model.MetricHeartRate, 125, true, "CRITICAL: Dangerously high heart rate"},
		{"heart rate boundary inclusive low", model.MetricHeartRate, 60, true, "Heart rate is below normal range (bradycardia)"},
		{"heart rate boundary inclusive critical", model.MetricHeartRate, 120, true, "CRITICAL: Dangerously high heart rate"},
		{"glucose normal", model.MetricGlucose, 100, false, ""},
		{"glucose low", model.MetricGlucose, 65, true, "Low blood sugar (hypoglycemia)"},
		{"glucose high", model.MetricGlucose, 150, true, "High blood sugar (hyperglycemia)"},
		{"glucose just above critical low", model.MetricGlucose, 55, true, "Low blood sugar (hypoglycemia)"},
		{"glucose critical high", model.MetricGlucose, 210, true, "CRITICAL: Severe hyperglycemia"},
		{"oxygen normal", model.MetricOxygen, 98, false, ""},
		{"oxygen low", model.MetricOxygen, 94, true, "Low oxygen saturation"},
		{"oxygen critical low", model.MetricOxygen, 88, true, "CRITICAL: Dangerously low oxygen level"},
		{"temperature normal", model.MetricTemperature, 98.6, false, ""},
		{"temperature low", model.MetricTemperature, 96.5, true, "Low body temperature"},
		{"temperature fever", model.MetricTemperature, 100.2, true, "Elevated temperature (fever)"},
		{"temperature critical", model.MetricTemperature, 103.5, true, "CRITICAL: High fever - seek medical attention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.metricType, tt.value, nil, nil)
			assert.Equal(t, tt.wantAlert, v.IsAlert)
			if tt.wantAlert {
				require.NotNil(t, v.Message)
				assert.Equal(t, tt.wantMsg, *v.Message)
			} else {
				assert.Nil(t, v.Message)
			}
		})
	}
}

func TestClassifyGlucoseSevereHypoglycemia(t *testing.T) {
	v := Classify(model.MetricGlucose, 54, nil, nil)
	require.True(t, v.IsAlert)
	assert.Equal(t, "CRITICAL: Severe hypoglycemia", *v.Message)
	assert.True(t, v.Critical())

	v = Classify(model.MetricGlucose, 40, nil, nil)
	require.True(t, v.IsAlert)
	assert.Equal(t, "CRITICAL: Severe hypoglycemia", *v.Message)
}

func TestClassifyBloodPressure(t *testing.T) {
	tests := []struct {
		name                string
		systolic, diastolic float64
		wantAlert           bool
		wantMsg             string
	}{
		{"normal", 118, 76, false, ""},
		{"elevated systolic", 145, 85, true, "Blood pressure is elevated"},
		{"elevated diastolic", 130, 92, true, "Blood pressure is elevated"},
		{"crisis via systolic alone", 185, 80, true, "CRITICAL: Hypertensive crisis"},
		{"crisis via diastolic alone", 150, 125, true, "CRITICAL: Hypertensive crisis"},
		{"crisis boundary", 180, 80, true, "CRITICAL: Hypertensive crisis"},
		{"elevated boundary", 140, 70, true, "Blood pressure is elevated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(model.MetricBloodPressure, 0, f(tt.systolic), f(tt.diastolic))
			assert.Equal(t, tt.wantAlert, v.IsAlert)
			if tt.wantAlert {
				require.NotNil(t, v.Message)
				assert.Equal(t, tt.wantMsg, *v.Message)
			}
		})
	}
}

func TestClassifyBloodPressureMissingFields(t *testing.T) {
	// Without both fields blood pressure falls through to the scalar table,
	// which has no blood-pressure bounds.
	v := Classify(model.MetricBloodPressure, 190, f(190), nil)
	assert.False(t, v.IsAlert)
	assert.Nil(t, v.Message)

	v = Classify(model.MetricBloodPressure, 190, nil, nil)
	assert.False(t, v.IsAlert)
}

func TestClassifyUnknownMetricNeverAlerts(t *testing.T) {
	v := Classify(model.MetricType("unknown"), 999, nil, nil)
	assert.False(t, v.IsAlert)
	assert.Nil(t, v.Message)
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify(model.MetricHeartRate, 125, nil, nil)
	for i := 0; i < 50; i++ {
		again := Classify(model.MetricHeartRate, 125, nil, nil)
		assert.Equal(t, first.IsAlert, again.IsAlert)
		assert.Equal(t, *first.Message, *again.Message)
	}
}

func TestBoundsFor(t *testing.T) {
	b, ok := BoundsFor(model.MetricOxygen)
	require.True(t, ok)
	assert.NotNil(t, b.Low)
	assert.NotNil(t, b.CriticalLow)
	assert.Nil(t, b.High)
	assert.Nil(t, b.CriticalHigh)

	_, ok = BoundsFor(model.MetricBloodPressure)
	assert.False(t, ok)

	_, ok = BoundsFor(model.MetricType("bogus"))
	assert.False(t, ok)
}
