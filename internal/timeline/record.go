package timeline

import (
	"fmt"
	"time"

	"github.com/mfalcone/airgrid/internal/models"
)

// Kind distinguishes raw feed events from derived broadcast blocks. The
// beauty-camera rule applies only to raw events.
type Kind string

const (
	KindEvent Kind = "event"
	KindBlock Kind = "block"
)

// Record is the placement engine's input unit: one time-bounded item to
// position on the timeline. Records are built fresh on every data refresh
// and never mutated in place.
type Record struct {
	ID          string
	Title       string
	LaneKey     string
	Start       time.Time // UTC
	End         time.Time // UTC; zero value means open-ended / zero duration
	Date        string    // optional feed date field (DD/MM/YYYY or YYYY-MM-DD)
	Kind        Kind
	Placeholder bool
}

// ZeroDuration reports whether the record has no usable span: the end is
// absent or equal to the start.
func (r Record) ZeroDuration() bool {
	return r.End.IsZero() || r.End.Equal(r.Start)
}

// RecordFromEvent projects a feed event into a timeline record. The feed
// delivers timestamps as ISO-8601 strings; an unparseable start is an
// error (the caller logs it and drops the row), an unparseable or absent
// end degrades to a zero-duration record.
func RecordFromEvent(ev models.Event) (Record, error) {
	start, err := time.Parse(time.RFC3339, ev.StartTime)
	if err != nil {
		return Record{}, fmt.Errorf("timeline: event %s: parse start %q: %w", ev.ID, ev.StartTime, err)
	}
	rec := Record{
		ID:      ev.ID,
		Title:   ev.Title,
		LaneKey: ev.Network,
		Start:   start.UTC(),
		Date:    ev.Date,
		Kind:    KindEvent,
	}
	if ev.EndTime != "" {
		if end, err := time.Parse(time.RFC3339, ev.EndTime); err == nil {
			rec.End = end.UTC()
		}
	}
	return rec, nil
}

// RecordFromBlock projects a block into a timeline record keyed to its
// encoder lane, applying the broadcast-time override when present.
func RecordFromBlock(b models.Block) Record {
	start, end := b.EffectiveRange()
	return Record{
		ID:      b.ID,
		Title:   b.Name,
		LaneKey: b.Encoder,
		Start:   start.UTC(),
		End:     end.UTC(),
		Kind:    KindBlock,
	}
}
