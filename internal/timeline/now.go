package timeline

import (
	"sync"
	"time"
)

// Refresh cadences for the live indicator. The position line and the
// digital clock tick independently.
const (
	PositionRefresh = 60 * time.Second
	ClockRefresh    = time.Second
)

// NowPercent computes the "now" marker's position within win. ok is false
// when now falls outside the window — the marker must disappear rather
// than pin to an edge, since a line clamped at the boundary would suggest
// "now" is at the window edge.
func NowPercent(win Window, now time.Time) (float64, bool) {
	pct := win.PercentAt(now)
	if pct < 0 || pct > 100 {
		return 0, false
	}
	return pct, true
}

// Marker drives the live-position indicator: two independently cancellable
// repeating timers, one for the position line and one for the displayed
// clock. Stop is idempotent and neither callback fires after it returns.
type Marker struct {
	mu       sync.Mutex
	position *repeater
	clock    *repeater
}

// StartPosition begins the position refresh loop, invoking fn every
// interval with the current time. A zero interval uses PositionRefresh.
// Any previous position loop is stopped first.
func (m *Marker) StartPosition(interval time.Duration, fn func(time.Time)) {
	if interval <= 0 {
		interval = PositionRefresh
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.position != nil {
		m.position.stop()
	}
	m.position = startRepeater(interval, fn)
}

// StartClock begins the clock refresh loop. A zero interval uses
// ClockRefresh. Any previous clock loop is stopped first.
func (m *Marker) StartClock(interval time.Duration, fn func(time.Time)) {
	if interval <= 0 {
		interval = ClockRefresh
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clock != nil {
		m.clock.stop()
	}
	m.clock = startRepeater(interval, fn)
}

// Stop cancels both loops and waits for any in-flight callback to return.
func (m *Marker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.position != nil {
		m.position.stop()
		m.position = nil
	}
	if m.clock != nil {
		m.clock.stop()
		m.clock = nil
	}
}

// repeater runs fn on a ticker until stopped.
type repeater struct {
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

func startRepeater(interval time.Duration, fn func(time.Time)) *repeater {
	r := &repeater{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.done:
				return
			case t := <-r.ticker.C:
				fn(t)
			}
		}
	}()
	return r
}

func (r *repeater) stop() {
	r.ticker.Stop()
	close(r.done)
	r.wg.Wait()
}
