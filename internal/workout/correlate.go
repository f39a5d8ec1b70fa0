package workout

import (
	"sort"
	"time"

	"github.com/claude/healthboard/internal/models"
)

// AverageHeartRate averages the heart-rate observations starting within
// [start, end). Samples must be sorted ascending by start time; callers
// that hold a full day's samples can reuse the slice across workouts.
// Returns ok=false when nothing falls inside the extent.
func AverageHeartRate(samples []models.Observation, start, end time.Time) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}

	first := sort.Search(len(samples), func(i int) bool {
		return !samples[i].Start.Before(start)
	})

	var sum float64
	var count int
	for _, s := range samples[first:] {
		if !s.Start.Before(end) {
			break
		}
		sum += s.Value
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// SortSamplesAscending orders observations by start time. The store returns
// samples end-time descending; correlation needs the opposite order.
func SortSamplesAscending(samples []models.Observation) {
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Start.Before(samples[j].Start)
	})
}
