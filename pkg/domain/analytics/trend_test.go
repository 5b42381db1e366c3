package analytics

import (
	"math"
	"testing"
)

func TestSlope(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 0},
		{"linear", []float64{10, 20, 30, 40}, 10},
		{"flat", []float64{50, 50, 50}, 0},
		{"falling", []float64{90, 60, 30}, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slope(tt.values); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Slope(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestAnalyzeTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   TrendDirection
	}{
		{"increasing", []float64{10, 20, 30, 40}, TrendIncreasing},
		{"stable", []float64{50, 50, 50}, TrendStable},
		{"single point", []float64{99}, TrendStable},
		{"no points", nil, TrendStable},
		{"decreasing", []float64{100, 80, 60}, TrendDecreasing},
		{"small drift", []float64{50, 50.4, 50.8}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeTrend(tt.values)
			if got.Direction != tt.want {
				t.Errorf("AnalyzeTrend(%v).Direction = %s, want %s", tt.values, got.Direction, tt.want)
			}
			if got.Points != len(tt.values) {
				t.Errorf("Points = %d, want %d", got.Points, len(tt.values))
			}
		})
	}
}

func TestClassify_Boundaries(t *testing.T) {
	if got := Classify(0.5); got != TrendStable {
		t.Errorf("Classify(0.5) = %s, want stable", got)
	}
	if got := Classify(0.51); got != TrendIncreasing {
		t.Errorf("Classify(0.51) = %s, want increasing", got)
	}
	if got := Classify(-0.5); got != TrendStable {
		t.Errorf("Classify(-0.5) = %s, want stable", got)
	}
	if got := Classify(-0.51); got != TrendDecreasing {
		t.Errorf("Classify(-0.51) = %s, want decreasing", got)
	}
}

func TestTrend_Predicates(t *testing.T) {
	if !(Trend{Direction: TrendIncreasing}).IsIncreasing() {
		t.Error("expected increasing trend to report IsIncreasing")
	}
	if !(Trend{Direction: TrendDecreasing}).IsDecreasing() {
		t.Error("expected decreasing trend to report IsDecreasing")
	}
	if (Trend{Direction: TrendStable}).IsIncreasing() {
		t.Error("stable trend must not report IsIncreasing")
	}
}

func TestMeanMaxRatio(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{20, 30}); got != 25 {
		t.Errorf("Mean = %v, want 25", got)
	}
	if got := Max([]float64{3, 9, 4}); got != 9 {
		t.Errorf("Max = %v, want 9", got)
	}
	if got := Ratio(50, 0); got != 0 {
		t.Errorf("Ratio with zero denominator = %v, want 0", got)
	}
	if got := Ratio(50, -10); got != 0 {
		t.Errorf("Ratio with negative denominator = %v, want 0", got)
	}
	if got := Ratio(150, 200); got != 75 {
		t.Errorf("Ratio = %v, want 75", got)
	}
}
