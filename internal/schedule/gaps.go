package schedule

// DefaultGapThreshold is the gap size, in minutes, above which a gap is flagged.
const DefaultGapThreshold = 10

// Observation labels attached to chronological entries.
const (
	LabelEarliest = "Menor Horário"
	LabelLatest   = "Maior Horário"
	LabelGap      = "GAP"
)

// GapOptions configures gap detection. With Inclusive unset a gap must be
// strictly greater than Threshold; with it set, equal also counts.
type GapOptions struct {
	Threshold int
	Inclusive bool
}

func (o GapOptions) exceeds(gap int) bool {
	if o.Inclusive {
		return gap >= o.Threshold
	}
	return gap > o.Threshold
}

// GapRecord is a pair of chronologically adjacent entries too far apart.
type GapRecord struct {
	Before  TimelineEntry
	After   TimelineEntry
	Minutes int
}

// DaySummary holds descriptive statistics for one weekday.
type DaySummary struct {
	Weekday    Weekday
	EntryCount int
	// MinTime and MaxTime are the raw times of day of the first and last
	// chronological entries. Meaningless when EntryCount is 0.
	MinTime TimeOfDay
	MaxTime TimeOfDay
	// SpanMinutes is last minus first on the adjusted timeline.
	SpanMinutes int
	Crosses     bool
	Gaps        []GapRecord
	// OrderNonDecreasing is nil when the day has no entries.
	OrderNonDecreasing *bool
	PartialCount       int
}

// HasEntries returns true if the day has at least one complete entry.
func (s DaySummary) HasEntries() bool {
	return s.EntryCount > 0
}

// Annotate walks the chronological view and derives min/max, span, gaps,
// and the order monotonicity check.
func Annotate(tl Timeline, opts GapOptions) DaySummary {
	s := DaySummary{
		Weekday:    tl.Weekday,
		EntryCount: len(tl.Chronological),
		Crosses:    tl.Crossing.Crosses,
	}
	if s.EntryCount == 0 {
		return s
	}

	chrono := tl.Chronological
	first, last := chrono[0], chrono[len(chrono)-1]
	s.MinTime = first.Time
	s.MaxTime = last.Time
	s.SpanMinutes = last.AdjustedMinutes - first.AdjustedMinutes

	monotonic := true
	for i := 1; i < len(chrono); i++ {
		prev, next := chrono[i-1], chrono[i]
		if next.Order < prev.Order {
			monotonic = false
		}
		gap := next.AdjustedMinutes - prev.AdjustedMinutes
		if opts.exceeds(gap) {
			s.Gaps = append(s.Gaps, GapRecord{Before: prev, After: next, Minutes: gap})
		}
	}
	s.OrderNonDecreasing = &monotonic
	return s
}

// Observations returns one label per chronological entry: earliest/latest
// markers for entries whose time equals the day's min/max, and GAP for gap
// endpoints. An entry in two gaps is marked once.
func Observations(tl Timeline, s DaySummary) []string {
	obs := make([]string, len(tl.Chronological))
	if s.EntryCount == 0 {
		return obs
	}

	for i, e := range tl.Chronological {
		switch e.Time {
		case s.MaxTime:
			obs[i] = LabelLatest
		case s.MinTime:
			obs[i] = LabelEarliest
		}
	}

	inGap := make(map[int]bool, 2*len(s.Gaps))
	for _, g := range s.Gaps {
		inGap[g.Before.Position] = true
		inGap[g.After.Position] = true
	}
	for i, e := range tl.Chronological {
		if !inGap[e.Position] {
			continue
		}
		if obs[i] == "" {
			obs[i] = LabelGap
		} else {
			obs[i] += " " + LabelGap
		}
	}
	return obs
}
