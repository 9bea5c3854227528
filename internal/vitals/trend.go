package vitals

import (
	"math"
	"sort"

	"github.com/curagenie/health-api/internal/model"
)

// Trend band: second-half mean must move more than 5% past the first-half
// mean before a window counts as increasing or decreasing. Absorbs
// measurement noise.
const trendBand = 0.05

// Summarize computes window statistics over the given readings, which are
// expected to belong to a single patient and metric type. Returns nil for an
// empty window; callers omit that metric type rather than reporting zeros.
//
// Readings are re-sorted by recorded_at before the trend split: concurrent
// ingestion can persist rows out of clinical-time order, and the halves must
// follow clinical time.
func Summarize(readings []model.Reading) *model.TrendSummary {
	if len(readings) == 0 {
		return nil
	}

	ordered := make([]model.Reading, len(readings))
	copy(ordered, readings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	values := make([]float64, len(ordered))
	for i, r := range ordered {
		values[i] = r.Value
	}

	sum := 0.0
	min, max := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return &model.TrendSummary{
		MetricType: ordered[0].MetricType,
		Average:    math.Round(sum/float64(len(values))*100) / 100,
		Min:        min,
		Max:        max,
		Latest:     values[len(values)-1],
		Trend:      trendOf(values),
		Unit:       ordered[0].Unit,
	}
}

// trendOf splits the chronologically ascending values into floor(n/2)
// earliest items and the remainder; for odd n the second half keeps the
// extra (middle) element. Fewer than two values is always stable.
func trendOf(values []float64) model.Trend {
	n := len(values)
	if n < 2 {
		return model.TrendStable
	}

	half := n / 2
	firstMean := mean(values[:half])
	secondMean := mean(values[half:])

	switch {
	case secondMean > firstMean*(1+trendBand):
		return model.TrendIncreasing
	case secondMean < firstMean*(1-trendBand):
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
