package timeline

import (
	"time"
)

// snapStep is the grid all finalized gesture times snap to.
const snapStep = 5 * time.Minute

// createInset narrows a create-drag on each side: the visual drag shows
// the full event span, the resulting broadcast window starts an hour
// later and ends an hour earlier. Resize and move manipulate the
// broadcast window directly and take no inset.
const createInset = time.Hour

// Rect is a lane's bounding box in pointer coordinates, captured once at
// gesture start. All percent math for a gesture runs against this frozen
// frame, so scrolling or resizing the page mid-drag cannot skew the
// result.
type Rect struct {
	Left  float64
	Width float64
}

// percentAt maps a pointer X coordinate into the frame, clamped to
// [0, 100].
func (r Rect) percentAt(x float64) float64 {
	if r.Width <= 0 {
		return 0
	}
	return clamp((x-r.Left)/r.Width*100, 0, 100)
}

// Edge names which end of an interval a resize gesture drags.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// State is the gesture controller's current phase.
type State int

const (
	StateIdle State = iota
	StateCreating
	StateResizing
	StateMoving
)

// Range is a finalized gesture result: a validated, 5-minute-snapped UTC
// time span ready to hand to the persistence layer. IntervalID is empty
// for create gestures.
type Range struct {
	Start      time.Time
	End        time.Time
	LaneKey    string
	IntervalID string
}

// Lookup resolves an interval ID to its current placement, reporting
// false when the underlying record no longer exists. Resize and move
// gestures hold the ID only; if the record vanishes mid-drag the gesture
// is silently abandoned.
type Lookup func(id string) (Placed, bool)

// Controller is the drag gesture state machine. One gesture is active at
// a time; attempts to start a second are ignored. It is UI-thread-local
// and performs no I/O: finalized ranges are delivered through the emit
// callback and the controller forgets them immediately.
type Controller struct {
	win    Window
	emit   func(Range)
	lookup Lookup

	state   State
	laneKey string
	frame   Rect

	// create
	anchorPct  float64
	currentPct float64

	// resize
	intervalID string
	edge       Edge
	startPct   float64
	endPct     float64

	// move; pointerPct and grabStart are frozen at BeginMove, the
	// current position in moveStart/moveEnd derives from them on every
	// pointer event
	pointerPct float64
	grabStart  float64
	moveWidth  float64
	moveStart  float64
	moveEnd    float64
}

// NewController builds a gesture controller over win. emit receives each
// finalized range; lookup may be nil for controllers that only create.
func NewController(win Window, emit func(Range), lookup Lookup) *Controller {
	if emit == nil {
		emit = func(Range) {}
	}
	return &Controller{win: win, emit: emit, lookup: lookup}
}

// State returns the controller's current phase.
func (c *Controller) State() State { return c.state }

// Reset force-drops any in-flight gesture without emitting. Used on
// teardown of the surrounding view.
func (c *Controller) Reset() {
	c.state = StateIdle
}

// BeginCreate starts a create-by-drag gesture on a lane's empty space.
// Returns false if another gesture is already active.
func (c *Controller) BeginCreate(laneKey string, frame Rect, x float64) bool {
	if c.state != StateIdle {
		return false
	}
	c.state = StateCreating
	c.laneKey = laneKey
	c.frame = frame
	c.anchorPct = frame.percentAt(x)
	c.currentPct = c.anchorPct
	return true
}

// BeginResize starts an edge-drag gesture on an existing interval.
// Returns false if a gesture is active or the interval cannot be found.
func (c *Controller) BeginResize(id string, laneKey string, frame Rect, edge Edge) bool {
	if c.state != StateIdle || c.lookup == nil {
		return false
	}
	p, ok := c.lookup(id)
	if !ok {
		return false
	}
	c.state = StateResizing
	c.intervalID = id
	c.laneKey = laneKey
	c.frame = frame
	c.edge = edge
	c.startPct = p.StartPercent
	c.endPct = p.EndPercent()
	return true
}

// BeginMove starts a body-drag gesture on an existing interval. Returns
// false if a gesture is active or the interval cannot be found.
func (c *Controller) BeginMove(id string, laneKey string, frame Rect, x float64) bool {
	if c.state != StateIdle || c.lookup == nil {
		return false
	}
	p, ok := c.lookup(id)
	if !ok {
		return false
	}
	c.state = StateMoving
	c.intervalID = id
	c.laneKey = laneKey
	c.frame = frame
	c.pointerPct = frame.percentAt(x)
	c.grabStart = p.StartPercent
	c.moveWidth = p.EndPercent() - p.StartPercent
	c.moveStart = c.grabStart
	c.moveEnd = c.grabStart + c.moveWidth
	return true
}

// PointerMove advances the active gesture to the pointer's new X
// coordinate. A no-op when idle; abandons the gesture if its tracked
// interval has disappeared.
func (c *Controller) PointerMove(x float64) {
	switch c.state {
	case StateCreating:
		c.currentPct = c.frame.percentAt(x)

	case StateResizing:
		if c.orphaned() {
			c.state = StateIdle
			return
		}
		pct := c.frame.percentAt(x)
		if c.edge == EdgeStart {
			c.startPct = min(pct, c.endPct-MinWidthPercent)
		} else {
			c.endPct = max(pct, c.startPct+MinWidthPercent)
		}

	case StateMoving:
		if c.orphaned() {
			c.state = StateIdle
			return
		}
		c.applyMove(x)
	}
}

// applyMove places the moving interval at the pointer's position,
// clamping by sliding: the interval keeps its width and stops at the
// window edges. The delta is always taken against the grab point, so
// overshoot absorbed by a clamp is given back when the pointer returns
// and the interval keeps tracking where the operator grabbed it.
func (c *Controller) applyMove(x float64) {
	delta := c.frame.percentAt(x) - c.pointerPct
	start := c.grabStart + delta
	if start < 0 {
		start = 0
	}
	if start+c.moveWidth > 100 {
		start = 100 - c.moveWidth
	}
	c.moveStart = start
	c.moveEnd = start + c.moveWidth
}

// PointerUp finalizes the active gesture. Valid results are emitted as a
// Range; degenerate results (end not after start once snapped) are
// discarded silently.
func (c *Controller) PointerUp(x float64) {
	state := c.state
	c.state = StateIdle

	switch state {
	case StateCreating:
		c.finishCreate(x)
	case StateResizing:
		if c.orphaned() {
			return
		}
		c.finishResize()
	case StateMoving:
		if c.orphaned() {
			return
		}
		c.finishMove(x)
	}
}

func (c *Controller) finishCreate(x float64) {
	lo := c.anchorPct
	hi := c.frame.percentAt(x)
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi-lo < MinWidthPercent {
		hi = lo + MinWidthPercent
	}
	start := snap(c.win.InstantAt(lo).Add(createInset))
	end := snap(c.win.InstantAt(hi).Add(-createInset))
	if !start.Before(end) {
		return
	}
	c.emit(Range{Start: start, End: end, LaneKey: c.laneKey})
}

func (c *Controller) finishResize() {
	start := snap(c.win.InstantAt(c.startPct))
	end := snap(c.win.InstantAt(c.endPct))
	if !start.Before(end) {
		return
	}
	c.emit(Range{Start: start, End: end, LaneKey: c.laneKey, IntervalID: c.intervalID})
}

func (c *Controller) finishMove(x float64) {
	c.applyMove(x)
	start := snap(c.win.InstantAt(c.moveStart))
	end := snap(c.win.InstantAt(c.moveEnd))
	if !start.Before(end) {
		return
	}
	c.emit(Range{Start: start, End: end, LaneKey: c.laneKey, IntervalID: c.intervalID})
}

// orphaned reports whether the gesture's tracked interval no longer
// resolves.
func (c *Controller) orphaned() bool {
	if c.lookup == nil {
		return true
	}
	_, ok := c.lookup(c.intervalID)
	return !ok
}

// snap rounds an instant to the nearest 5-minute boundary; minute 60
// carries into the next hour.
func snap(t time.Time) time.Time {
	return t.Round(snapStep)
}
