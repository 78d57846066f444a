// Package timeline implements the AirGrid scheduling core: window time
// arithmetic, interval placement, lane assignment, and the drag gesture
// state machine. The package is pure — it performs no I/O and holds no
// hidden state between calls.
package timeline

import (
	"fmt"
	"time"
)

// DefaultStartHour is the local hour at which every window opens. The
// broadcast day runs 02:00 → 02:00 rather than midnight to midnight.
const DefaultStartHour = 2

// Window is the visible time range of the timeline: a local anchor date
// plus a fixed start hour, spanning 24, 36 or 48 hours. Windows are
// immutable; build a new one whenever the selected date or zoom changes.
type Window struct {
	anchor time.Time // local midnight of the anchor date, in loc
	hours  int
	loc    *time.Location
}

// NewWindow builds a window anchored at the given civil date (YYYY-MM-DD),
// interpreted as local midnight in loc — never the host machine's zone.
func NewWindow(date string, hours int, loc *time.Location) (Window, error) {
	if loc == nil {
		return Window{}, fmt.Errorf("timeline: window location is required")
	}
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return Window{}, fmt.Errorf("timeline: parse window date %q: %w", date, err)
	}
	return NewWindowAt(d, hours, loc)
}

// NewWindowAt builds a window anchored at the civil date of t, interpreted
// in loc. Only 24, 36 and 48 hour spans are valid.
func NewWindowAt(t time.Time, hours int, loc *time.Location) (Window, error) {
	if loc == nil {
		return Window{}, fmt.Errorf("timeline: window location is required")
	}
	switch hours {
	case 24, 36, 48:
	default:
		return Window{}, fmt.Errorf("timeline: window hours must be 24, 36 or 48, got %d", hours)
	}
	local := t.In(loc)
	anchor := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Window{anchor: anchor, hours: hours, loc: loc}, nil
}

// Anchor returns local midnight of the window's anchor date.
func (w Window) Anchor() time.Time { return w.anchor }

// Hours returns the window span in hours.
func (w Window) Hours() int { return w.hours }

// Location returns the window's local zone.
func (w Window) Location() *time.Location { return w.loc }

// Range returns the half-open UTC interval [start, end) covered by the
// window: anchor date at the start hour, plus the window span.
func (w Window) Range() (time.Time, time.Time) {
	start := time.Date(w.anchor.Year(), w.anchor.Month(), w.anchor.Day(),
		DefaultStartHour, 0, 0, 0, w.loc).UTC()
	return start, start.Add(time.Duration(w.hours) * time.Hour)
}

// Duration returns the window span as a duration.
func (w Window) Duration() time.Duration {
	start, end := w.Range()
	return end.Sub(start)
}

// PercentAt converts an instant to its horizontal position within the
// window, as a percentage of the window span. The result is not clamped:
// instants before the window are negative and instants after exceed 100.
// Callers decide whether to clamp for display or reject for filtering.
func (w Window) PercentAt(t time.Time) float64 {
	start, end := w.Range()
	return float64(t.Sub(start)) / float64(end.Sub(start)) * 100
}

// InstantAt is the inverse of PercentAt: it converts a window percentage
// back to a UTC instant.
func (w Window) InstantAt(pct float64) time.Time {
	start, end := w.Range()
	return start.Add(time.Duration(pct / 100 * float64(end.Sub(start)))).UTC()
}

// DaySplitPercent returns the position of the visual boundary between
// day 1 and day 2 in a multi-day window: 50 for 48h, 100*24/36 ≈ 66.67
// for 36h. Single-day windows have no split (ok == false).
func (w Window) DaySplitPercent() (float64, bool) {
	switch w.hours {
	case 36, 48:
		return 100 * 24 / float64(w.hours), true
	default:
		return 0, false
	}
}

// VisibleDates returns the local civil dates (as local midnights) whose
// day segments are visible: just the anchor date for a 24h window, the
// anchor date and the following day for 36h and 48h windows.
func (w Window) VisibleDates() []time.Time {
	dates := []time.Time{w.anchor}
	if w.hours > 24 {
		next := time.Date(w.anchor.Year(), w.anchor.Month(), w.anchor.Day()+1,
			0, 0, 0, 0, w.loc)
		dates = append(dates, next)
	}
	return dates
}

// sameDate reports whether a and b fall on the same civil date in loc.
func sameDate(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
