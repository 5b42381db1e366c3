// Package analytics provides the numeric helpers shared by the forecasting
// stages: trend classification and series statistics.
package analytics

// TrendDirection indicates the direction of a series over time.
type TrendDirection string

const (
	// TrendIncreasing indicates the series is rising.
	TrendIncreasing TrendDirection = "increasing"
	// TrendDecreasing indicates the series is falling.
	TrendDecreasing TrendDirection = "decreasing"
	// TrendStable indicates the series is relatively flat.
	TrendStable TrendDirection = "stable"
)

// SlopeThreshold is the absolute slope, in series units per step, above
// which a series stops being stable.
const SlopeThreshold = 0.5

// Trend captures the regression of a series against its index.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Slope     float64        `json:"slope"`
	Points    int            `json:"points"`
}

// IsIncreasing returns true if the series is rising.
func (t Trend) IsIncreasing() bool {
	return t.Direction == TrendIncreasing
}

// IsDecreasing returns true if the series is falling.
func (t Trend) IsDecreasing() bool {
	return t.Direction == TrendDecreasing
}

// Slope returns the ordinary least-squares slope of values against their
// index 0..n-1. Fewer than two points yield 0.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if len(values) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

// AnalyzeTrend classifies a series by its regression slope.
func AnalyzeTrend(values []float64) Trend {
	if len(values) < 2 {
		return Trend{Direction: TrendStable, Points: len(values)}
	}

	slope := Slope(values)
	return Trend{
		Direction: Classify(slope),
		Slope:     slope,
		Points:    len(values),
	}
}

// Classify maps a slope to a direction.
func Classify(slope float64) TrendDirection {
	switch {
	case slope > SlopeThreshold:
		return TrendIncreasing
	case slope < -SlopeThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
