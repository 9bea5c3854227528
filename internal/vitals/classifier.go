package vitals

import (
	"strings"

	"github.com/curagenie/health-api/internal/model"
)

// Verdict is the result of classifying one reading. Message is nil when
// IsAlert is false.
type Verdict struct {
	IsAlert bool
	Message *string
}

// Critical reports whether the verdict carries a critical-severity message.
func (v Verdict) Critical() bool {
	return v.IsAlert && v.Message != nil && strings.HasPrefix(*v.Message, "CRITICAL")
}

func alert(msg string) Verdict {
	return Verdict{IsAlert: true, Message: &msg}
}

// Classify judges a single reading against the clinical thresholds. It is a
// pure, total function: unknown metric types and in-range values return a
// no-alert verdict, and at most one bound ever fires.
//
// Blood pressure is classified on systolic/diastolic when both are present;
// critical bounds win over elevated. All other metrics use the scalar bounds
// with critical checks before warning checks, so e.g. a heart rate of 125
// reports the critical-high message rather than the plain high one.
func Classify(metricType model.MetricType, value float64, systolic, diastolic *float64) Verdict {
	if metricType == model.MetricBloodPressure && systolic != nil && diastolic != nil {
		bp := bloodPressureBounds
		if *systolic >= bp.CriticalSystolic || *diastolic >= bp.CriticalDiastolic {
			return alert(bp.CriticalMessage)
		}
		if *systolic >= bp.HighSystolic || *diastolic >= bp.HighDiastolic {
			return alert(bp.ElevatedMessage)
		}
		// Fall through to scalar bounds; blood pressure has none, so this
		// is a no-alert path unless the table ever grows them.
	}

	bounds, ok := scalarBounds[metricType]
	if !ok {
		return Verdict{}
	}

	if b := bounds.CriticalHigh; b != nil && value >= b.Threshold {
		return alert(b.Message)
	}
	if b := bounds.CriticalLow; b != nil && value <= b.Threshold {
		return alert(b.Message)
	}
	if b := bounds.High; b != nil && value >= b.Threshold {
		return alert(b.Message)
	}
	if b := bounds.Low; b != nil && value <= b.Threshold {
		return alert(b.Message)
	}

	return Verdict{}
}
