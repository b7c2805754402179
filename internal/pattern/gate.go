package pattern

import (
	"time"

	"github.com/hpungsan/ripple/internal/journal"
)

// Longitudinal gating thresholds. The gate deliberately refuses same-day or
// thin-data reactivity: a reflection needs history, not a single bad evening.
const (
	MinEligibleEntries = 4
	MinSpanDays        = 6
)

// GateDecision reports whether longitudinal analysis should be attempted.
type GateDecision struct {
	Eligible     bool
	Reason       string // set when Eligible is false
	NonVentCount int
	SpanDays     int
}

// EvaluateGate decides eligibility from the full entry set. Vent entries are
// excluded from both the count and the span: they are emotional release, not
// longitudinal signal. No model call happens when the gate rejects.
func EvaluateGate(entries []journal.Entry) GateDecision {
	var oldest, newest time.Time
	nonVent := 0

	for _, e := range entries {
		if e.Vent {
			continue
		}
		nonVent++

		d, err := journal.ParseDate(e.EntryDate)
		if err != nil {
			continue
		}
		if oldest.IsZero() || d.Before(oldest) {
			oldest = d
		}
		if newest.IsZero() || d.After(newest) {
			newest = d
		}
	}

	spanDays := 0
	if !oldest.IsZero() {
		spanDays = int(newest.Sub(oldest).Hours() / 24)
	}

	if nonVent < MinEligibleEntries {
		return GateDecision{Reason: ReasonNotEnoughEntries, NonVentCount: nonVent, SpanDays: spanDays}
	}
	if spanDays < MinSpanDays {
		return GateDecision{Reason: ReasonNotEnoughSpan, NonVentCount: nonVent, SpanDays: spanDays}
	}

	return GateDecision{Eligible: true, NonVentCount: nonVent, SpanDays: spanDays}
}
