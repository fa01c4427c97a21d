package schedule

import (
	"fmt"
	"slices"
	"strings"
)

// CrossingPolicy decides how the hour heuristic and the shift label combine
// into the midnight-crossing decision.
type CrossingPolicy string

const (
	// PolicyHeuristic uses only the evening/morning hour heuristic.
	PolicyHeuristic CrossingPolicy = "heuristic"
	// PolicyShift uses the shift label when one is known, the heuristic otherwise.
	PolicyShift CrossingPolicy = "shift"
	// PolicyEither crosses when either signal says so.
	PolicyEither CrossingPolicy = "either"
	// PolicyBoth crosses only when both signals agree.
	PolicyBoth CrossingPolicy = "both"
)

// Valid returns true if p is a known policy.
func (p CrossingPolicy) Valid() bool {
	switch p {
	case PolicyHeuristic, PolicyShift, PolicyEither, PolicyBoth:
		return true
	default:
		return false
	}
}

// ParseCrossingPolicy parses a policy name, case-insensitive.
func ParseCrossingPolicy(s string) (CrossingPolicy, error) {
	p := CrossingPolicy(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown crossing policy %q", s)
	}
	return p, nil
}

// ShiftSignal is the midnight-crossing hint carried by the shift label.
type ShiftSignal int

const (
	// ShiftUnknown means the label is absent or ambiguous.
	ShiftUnknown ShiftSignal = iota
	ShiftCrosses
	ShiftDaytime
)

// ReconcileOptions configures midnight-crossing detection.
type ReconcileOptions struct {
	EveningHour int
	MorningHour int
	Policy      CrossingPolicy
	Shift       ShiftSignal
}

// Crossing records both detection signals and the final decision.
type Crossing struct {
	Heuristic bool
	Shift     ShiftSignal
	Crosses   bool
}

// TimelineEntry is a DayEntry placed on a continuous, midnight-aware timeline.
type TimelineEntry struct {
	DayEntry
	// AdjustedMinutes is the time of day, plus 1440 for early-morning
	// entries of a midnight-crossing day.
	AdjustedMinutes int
	// Position is the 1-based rank in chronological order.
	Position int
}

// Timeline is one weekday's reconciled schedule. ByOrder and Chronological
// hold the same entries in two distinct orders.
type Timeline struct {
	Weekday       Weekday
	Crossing      Crossing
	ByOrder       []TimelineEntry
	Chronological []TimelineEntry
}

// Len returns the number of entries.
func (tl Timeline) Len() int {
	return len(tl.ByOrder)
}

// Reconcile decides whether the day crosses midnight and builds both views.
// The input is not modified.
func Reconcile(d Weekday, entries []DayEntry, opts ReconcileOptions) Timeline {
	sorted := slices.Clone(entries)
	sortByOrder(sorted)

	tl := Timeline{Weekday: d}
	tl.Crossing = detectCrossing(sorted, opts)

	morning := opts.MorningHour * 60
	tl.ByOrder = make([]TimelineEntry, len(sorted))
	for i, e := range sorted {
		adj := int(e.Time)
		if tl.Crossing.Crosses && adj < morning {
			adj += MinutesPerDay
		}
		tl.ByOrder[i] = TimelineEntry{DayEntry: e, AdjustedMinutes: adj}
	}

	idx := make([]int, len(tl.ByOrder))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return tl.ByOrder[a].AdjustedMinutes - tl.ByOrder[b].AdjustedMinutes
	})

	tl.Chronological = make([]TimelineEntry, len(idx))
	for pos, i := range idx {
		tl.ByOrder[i].Position = pos + 1
		tl.Chronological[pos] = tl.ByOrder[i]
	}
	return tl
}

func detectCrossing(entries []DayEntry, opts ReconcileOptions) Crossing {
	c := Crossing{Shift: opts.Shift}
	if len(entries) < 2 {
		return c
	}

	evening := opts.EveningHour * 60
	morning := opts.MorningHour * 60
	var late, early bool
	for _, e := range entries {
		if int(e.Time) >= evening {
			late = true
		}
		if int(e.Time) < morning {
			early = true
		}
	}
	c.Heuristic = late && early

	shift := opts.Shift == ShiftCrosses
	switch opts.Policy {
	case PolicyShift:
		if opts.Shift == ShiftUnknown {
			c.Crosses = c.Heuristic
		} else {
			c.Crosses = shift
		}
	case PolicyEither:
		c.Crosses = c.Heuristic || shift
	case PolicyBoth:
		c.Crosses = c.Heuristic && shift
	default:
		c.Crosses = c.Heuristic
	}
	return c
}
