// Package sleep reconstructs nightly sleep sessions from raw, unordered
// sleep-stage observations.
package sleep

import (
	"sort"
	"time"

	"github.com/claude/healthboard/internal/models"
)

// DefaultSessionGap is the largest silence between consecutive observations
// that still belongs to the same session. A gap strictly greater than this
// starts a new session.
const DefaultSessionGap = time.Hour

// Config controls segmentation. The stage mapping is injected so callers
// decide which platform code set is active; the segmenter itself never
// inspects platform versions.
type Config struct {
	// TrustedSources is the allowlist of first-party recording sources.
	// Observations from any other source are discarded entirely, even if
	// they would form the largest session.
	TrustedSources []string

	// SessionGap overrides DefaultSessionGap when positive.
	SessionGap time.Duration

	// Stages maps raw stage codes to stages. Defaults to the modern
	// six-code mapping.
	Stages models.StageMapping
}

// Segmenter groups sleep-stage observations into sessions and summarizes
// the most significant one. Segment is a pure function of its input, so a
// single Segmenter is safe for concurrent use.
type Segmenter struct {
	trusted map[string]bool
	gap     time.Duration
	stages  models.StageMapping
}

// NewSegmenter builds a Segmenter from cfg, applying defaults for the gap
// threshold and stage mapping.
func NewSegmenter(cfg Config) *Segmenter {
	trusted := make(map[string]bool, len(cfg.TrustedSources))
	for _, s := range cfg.TrustedSources {
		trusted[s] = true
	}
	gap := cfg.SessionGap
	if gap <= 0 {
		gap = DefaultSessionGap
	}
	stages := cfg.Stages
	if stages == nil {
		stages = models.ModernStageMapping()
	}
	return &Segmenter{trusted: trusted, gap: gap, stages: stages}
}

// session is one contiguous block of intervals found during the scan.
type session struct {
	intervals []models.SleepInterval
	total     time.Duration
	lastEnd   time.Time
}

// Segment reconstructs the night's sleep from raw observations.
//
// Observations from untrusted sources or with stage codes outside the
// configured mapping are dropped first; the remainder is sorted by start
// time and split into sessions wherever the gap to the previous
// observation's furthest end exceeds the threshold. The session with the
// greatest summed interval duration (all stages counted) wins; on a tie
// the earliest session wins, which keeps the result deterministic for
// identical inputs. An empty input yields the empty summary, not an error.
func (s *Segmenter) Segment(observations []models.Observation) models.SleepSummary {
	intervals := make([]models.SleepInterval, 0, len(observations))
	for _, o := range observations {
		if !s.trusted[o.Source] {
			continue
		}
		stage, ok := s.stages[o.StageCode]
		if !ok {
			continue
		}
		intervals = append(intervals, models.SleepInterval{
			Stage:           stage,
			Start:           o.Start,
			End:             o.End,
			DurationSeconds: int(o.End.Sub(o.Start) / time.Second),
			Source:          o.Source,
			Device:          o.Device,
		})
	}
	if len(intervals) == 0 {
		return models.SleepSummary{}
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	// Single left-to-right scan. Intervals within a session may overlap,
	// so the gap is measured against the furthest end seen so far.
	var sessions []session
	cur := session{lastEnd: intervals[0].Start}
	for _, iv := range intervals {
		if len(cur.intervals) > 0 && iv.Start.Sub(cur.lastEnd) > s.gap {
			sessions = append(sessions, cur)
			cur = session{}
		}
		cur.intervals = append(cur.intervals, iv)
		cur.total += time.Duration(iv.DurationSeconds) * time.Second
		if iv.End.After(cur.lastEnd) {
			cur.lastEnd = iv.End
		}
	}
	sessions = append(sessions, cur)

	best := sessions[0]
	for _, sess := range sessions[1:] {
		if sess.total > best.total {
			best = sess
		}
	}

	return summarize(best.intervals)
}

// summarize buckets a session's intervals into the exposed stage lists and
// computes the window bounds. In Bed and unspecified Asleep intervals shape
// the window but appear in no bucket and add nothing to the sleep total.
func summarize(intervals []models.SleepInterval) models.SleepSummary {
	sum := models.SleepSummary{
		WindowStart: intervals[0].Start,
		WindowEnd:   intervals[0].End,
	}
	for _, iv := range intervals {
		if iv.Start.Before(sum.WindowStart) {
			sum.WindowStart = iv.Start
		}
		if iv.End.After(sum.WindowEnd) {
			sum.WindowEnd = iv.End
		}
		switch iv.Stage {
		case models.StageAwake:
			sum.Awake = append(sum.Awake, iv)
		case models.StageREM:
			sum.REM = append(sum.REM, iv)
		case models.StageCore:
			sum.Core = append(sum.Core, iv)
		case models.StageDeep:
			sum.Deep = append(sum.Deep, iv)
		}
		if iv.Stage.IsAsleep() {
			sum.TotalSleepSeconds += iv.DurationSeconds
		}
	}
	return sum
}
