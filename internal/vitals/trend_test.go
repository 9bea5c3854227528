package vitals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curagenie/health-api/internal/model"
)

func readings(metricType model.MetricType, unit string, values ...float64) []model.Reading {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rs := make([]model.Reading, len(values))
	for i, v := range values {
		rs[i] = model.Reading{
			MetricType: metricType,
			Value:      v,
			Unit:       unit,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return rs
}

func TestSummarizeEmptyWindow(t *testing.T) {
	assert.Nil(t, Summarize(nil))
	assert.Nil(t, Summarize([]model.Reading{}))
}

func TestSummarizeSingleReading(t *testing.T) {
	s := Summarize(readings(model.MetricGlucose, "mg/dL", 55))
	require.NotNil(t, s)
	assert.Equal(t, model.MetricGlucose, s.MetricType)
	assert.Equal(t, 55.0, s.Average)
	assert.Equal(t, 55.0, s.Min)
	assert.Equal(t, 55.0, s.Max)
	assert.Equal(t, 55.0, s.Latest)
	assert.Equal(t, model.TrendStable, s.Trend)
	assert.Equal(t, "mg/dL", s.Unit)
}

func TestSummarizeIncreasingOddSplit(t *testing.T) {
	// n=5: first half [100,100], second half [100,150,150]. The second-half
	// mean (~133.3) exceeds 100*1.05, so the window is increasing.
	s := Summarize(readings(model.MetricHeartRate, "bpm", 100, 100, 100, 150, 150))
	require.NotNil(t, s)
	assert.Equal(t, model.TrendIncreasing, s.Trend)
	assert.Equal(t, 120.0, s.Average)
	assert.Equal(t, 100.0, s.Min)
	assert.Equal(t, 150.0, s.Max)
	assert.Equal(t, 150.0, s.Latest)
}

func TestSummarizeDecreasing(t *testing.T) {
	s := Summarize(readings(model.MetricGlucose, "mg/dL", 180, 170, 120, 110))
	require.NotNil(t, s)
	assert.Equal(t, model.TrendDecreasing, s.Trend)
	assert.Equal(t, 110.0, s.Latest)
}

func TestSummarizeStableWithinBand(t *testing.T) {
	// Second-half mean 102 sits inside the 5% band around 100.
	s := Summarize(readings(model.MetricHeartRate, "bpm", 100, 100, 102, 102))
	require.NotNil(t, s)
	assert.Equal(t, model.TrendStable, s.Trend)
}

func TestSummarizeResortsByRecordedAt(t *testing.T) {
	// Persisted out of clinical order; trend must follow recorded_at.
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rs := []model.Reading{
		{MetricType: model.MetricHeartRate, Value: 150, Unit: "bpm", RecordedAt: base.Add(3 * time.Hour)},
		{MetricType: model.MetricHeartRate, Value: 100, Unit: "bpm", RecordedAt: base},
		{MetricType: model.MetricHeartRate, Value: 150, Unit: "bpm", RecordedAt: base.Add(4 * time.Hour)},
		{MetricType: model.MetricHeartRate, Value: 100, Unit: "bpm", RecordedAt: base.Add(time.Hour)},
		{MetricType: model.MetricHeartRate, Value: 100, Unit: "bpm", RecordedAt: base.Add(2 * time.Hour)},
	}

	s := Summarize(rs)
	require.NotNil(t, s)
	assert.Equal(t, model.TrendIncreasing, s.Trend)
	assert.Equal(t, 150.0, s.Latest)

	// Input slice is left untouched.
	assert.Equal(t, 150.0, rs[0].Value)
}

func TestSummarizeAverageRounding(t *testing.T) {
	s := Summarize(readings(model.MetricTemperature, "F", 98.1, 98.2, 98.2))
	require.NotNil(t, s)
	assert.Equal(t, 98.17, s.Average)
}

func TestSummarizeTwoReadings(t *testing.T) {
	s := Summarize(readings(model.MetricOxygen, "%", 98, 90))
	require.NotNil(t, s)
	assert.Equal(t, model.TrendDecreasing, s.Trend)

	s = Summarize(readings(model.MetricOxygen, "%", 90, 98))
	require.NotNil(t, s)
	assert.Equal(t, model.TrendIncreasing, s.Trend)
}
