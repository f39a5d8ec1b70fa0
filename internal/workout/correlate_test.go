package workout

import (
	"math"
	"testing"
	"time"

	"github.com/claude/healthboard/internal/models"
)

func hrSample(at time.Time, bpm float64) models.Observation {
	return models.Observation{Value: bpm, Start: at, End: at, Source: "Watch", Device: models.DeviceWatch}
}

// TestAverageHeartRate verifies that only samples inside the workout extent
// are averaged.
func TestAverageHeartRate(t *testing.T) {
	start := time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	samples := []models.Observation{
		hrSample(start.Add(-5*time.Minute), 70), // before
		hrSample(start, 120),
		hrSample(start.Add(10*time.Minute), 140),
		hrSample(start.Add(20*time.Minute), 130),
		hrSample(end, 100),                    // end is exclusive
		hrSample(end.Add(10*time.Minute), 80), // after
	}

	avg, ok := AverageHeartRate(samples, start, end)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := 130.0; math.Abs(avg-want) > 0.001 {
		t.Errorf("avg = %.2f, want %.2f", avg, want)
	}
}

// TestAverageHeartRateNoOverlap verifies the absent result when no samples
// fall inside the extent.
func TestAverageHeartRateNoOverlap(t *testing.T) {
	start := time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)
	samples := []models.Observation{hrSample(start.Add(-time.Hour), 70)}

	if _, ok := AverageHeartRate(samples, start, start.Add(time.Hour)); ok {
		t.Error("expected ok=false for non-overlapping samples")
	}
	if _, ok := AverageHeartRate(nil, start, start.Add(time.Hour)); ok {
		t.Error("expected ok=false for empty input")
	}
}

// TestSortSamplesAscending verifies reordering of store results, which
// arrive end-time descending.
func TestSortSamplesAscending(t *testing.T) {
	base := time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)
	samples := []models.Observation{
		hrSample(base.Add(2*time.Minute), 3),
		hrSample(base, 1),
		hrSample(base.Add(time.Minute), 2),
	}

	SortSamplesAscending(samples)

	for i, want := range []float64{1, 2, 3} {
		if samples[i].Value != want {
			t.Errorf("samples[%d].Value = %.0f, want %.0f", i, samples[i].Value, want)
		}
	}
}
