// Package vitals implements the health-metric alerting and trend-analysis
// engine: clinical threshold tables, pure alert classification, and rolling
// window statistics over vital-sign readings.
package vitals

import (
	"github.com/curagenie/health-api/internal/model"
)

// Bound is one inclusive scalar threshold paired with its alert message.
type Bound struct {
	Threshold float64
	Message   string
}

// Bounds holds the scalar thresholds for one metric type. A nil bound means
// the metric has no threshold in that direction.
type Bounds struct {
	Low          *Bound
	High         *Bound
	CriticalLow  *Bound
	CriticalHigh *Bound
}

// BPBounds holds the two-field thresholds used only for blood pressure.
// Both the critical and elevated checks treat systolic and diastolic as
// independent triggers (OR semantics).
type BPBounds struct {
	CriticalSystolic  float64
	CriticalDiastolic float64
	HighSystolic      float64
	HighDiastolic     float64
	CriticalMessage   string
	ElevatedMessage   string
}

// Clinical reference values. Comparisons are inclusive: low bounds fire at
// value <= threshold, high bounds at value >= threshold.
var scalarBounds = map[model.MetricType]Bounds{
	model.MetricHeartRate: {
		Low:          &Bound{60, "Heart rate is below normal range (bradycardia)"},
		High:         &Bound{100, "Heart rate is above normal range (tachycardia)"},
		CriticalLow:  &Bound{40, "CRITICAL: Dangerously low heart rate"},
		CriticalHigh: &Bound{120, "CRITICAL: Dangerously high heart rate"},
	},
	model.MetricGlucose: {
		Low:          &Bound{70, "Low blood sugar (hypoglycemia)"},
		High:         &Bound{140, "High blood sugar (hyperglycemia)"},
		CriticalLow:  &Bound{54, "CRITICAL: Severe hypoglycemia"},
		CriticalHigh: &Bound{200, "CRITICAL: Severe hyperglycemia"},
	},
	model.MetricOxygen: {
		Low:         &Bound{95, "Low oxygen saturation"},
		CriticalLow: &Bound{90, "CRITICAL: Dangerously low oxygen level"},
	},
	model.MetricTemperature: {
		Low:          &Bound{97.0, "Low body temperature"},
		High:         &Bound{99.5, "Elevated temperature (fever)"},
		CriticalHigh: &Bound{103.0, "CRITICAL: High fever - seek medical attention"},
	},
}

var bloodPressureBounds = BPBounds{
	CriticalSystolic:  180,
	CriticalDiastolic: 120,
	HighSystolic:      140,
	HighDiastolic:     90,
	CriticalMessage:   "CRITICAL: Hypertensive crisis",
	ElevatedMessage:   "Blood pressure is elevated",
}

// BoundsFor returns the scalar bounds for a metric type. The second return
// is false for blood pressure (which uses BloodPressureBounds) and for
// unrecognized types.
func BoundsFor(t model.MetricType) (Bounds, bool) {
	b, ok := scalarBounds[t]
	return b, ok
}

// BloodPressureBounds returns the two-field thresholds for blood pressure.
func BloodPressureBounds() BPBounds {
	return bloodPressureBounds
}
