package timeline

import (
	"strings"
	"time"
)

// MinWidthPercent is the narrowest any interval may render or shrink to:
// 0.5% of the lane width, so an interval can never become invisible or
// unclickable.
const MinWidthPercent = 0.5

// Placed is a record positioned within a specific window, as a percentage
// span of the lane width.
type Placed struct {
	Record
	StartPercent float64
	WidthPercent float64
}

// EndPercent returns the right edge of the placed interval.
func (p Placed) EndPercent() float64 {
	return p.StartPercent + p.WidthPercent
}

// Place projects records into win, returning one placed interval per
// record that is visible in the window. Records with no overlap are
// dropped; a record wholly containing the window still renders full
// width. selected is the operator-selected local date (normally the
// window's anchor) used by the beauty-camera inclusion rule.
//
// Place is pure: identical inputs yield identical output.
func Place(records []Record, win Window, selected time.Time) []Placed {
	winStart, winEnd := win.Range()
	out := make([]Placed, 0, len(records))

	for _, rec := range records {
		if isBeautyCamera(rec) {
			if p, ok := placeBeautyCamera(rec, win, selected); ok {
				out = append(out, p)
			}
			continue
		}

		start := rec.Start
		end := rec.End
		if rec.ZeroDuration() {
			// Give point events 5% of the window so they stay clickable.
			end = start.Add(win.Duration() / 20)
		}

		if !start.Before(winEnd) || !end.After(winStart) {
			continue
		}

		startPct := clamp(win.PercentAt(start), 0, 100)
		endPct := clamp(win.PercentAt(end), 0, 100)
		width := endPct - startPct
		if width < MinWidthPercent {
			width = MinWidthPercent
		}
		out = append(out, Placed{Record: rec, StartPercent: startPct, WidthPercent: width})
	}
	return out
}

// isBeautyCamera reports whether a record is an all-day beauty-camera
// placeholder: a zero-duration raw event whose title starts with "BC".
func isBeautyCamera(rec Record) bool {
	title := strings.ToUpper(strings.TrimSpace(rec.Title))
	return rec.Kind == KindEvent && rec.ZeroDuration() && strings.HasPrefix(title, "BC")
}

// placeBeautyCamera positions an all-day placeholder. The camera covers
// a full broadcast day (02:00 → 02:00) on its canonical date: it fills
// the whole lane in a single-day window, or the matching day segment of
// a multi-day window.
func placeBeautyCamera(rec Record, win Window, selected time.Time) (Placed, bool) {
	day := beautyCameraDate(rec, win.Location())
	dates := win.VisibleDates()

	if win.Hours() == 24 {
		if !sameDate(day, selected, win.Location()) {
			return Placed{}, false
		}
		return Placed{Record: rec, StartPercent: 0, WidthPercent: 100}, true
	}

	split, _ := win.DaySplitPercent()
	switch {
	case sameDate(day, dates[0], win.Location()):
		return Placed{Record: rec, StartPercent: 0, WidthPercent: split}, true
	case sameDate(day, dates[1], win.Location()):
		return Placed{Record: rec, StartPercent: split, WidthPercent: 100 - split}, true
	}
	return Placed{}, false
}

// beautyCameraDate resolves the canonical display date: an explicit feed
// date when parseable, otherwise the day after the event's local start.
func beautyCameraDate(rec Record, loc *time.Location) time.Time {
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if d, err := time.ParseInLocation(layout, rec.Date, loc); err == nil {
			return d
		}
	}
	local := rec.Start.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
