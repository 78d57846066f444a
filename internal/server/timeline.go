package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mfalcone/airgrid/internal/db"
	"github.com/mfalcone/airgrid/internal/models"
	"github.com/mfalcone/airgrid/internal/timeline"
)

// timelineResponse is the rendered timeline geometry for one window.
type timelineResponse struct {
	Window  windowInfo `json:"window"`
	Lanes   []laneInfo `json:"lanes"`
	Now     nowInfo    `json:"now"`
	Clock   clockInfo  `json:"clock"`
	Dropped int        `json:"dropped"`
}

type windowInfo struct {
	Date     string   `json:"date"`
	Hours    int      `json:"hours"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	DaySplit *float64 `json:"day_split,omitempty"`
}

type laneInfo struct {
	Key       string         `json:"key"`
	Order     int            `json:"order"`
	Intervals []intervalInfo `json:"intervals"`
}

type intervalInfo struct {
	ID           string  `json:"id,omitempty"`
	Title        string  `json:"title,omitempty"`
	Kind         string  `json:"kind,omitempty"`
	StartPercent float64 `json:"start_percent"`
	WidthPercent float64 `json:"width_percent"`
	Placeholder  bool    `json:"placeholder,omitempty"`
}

type nowInfo struct {
	Percent float64 `json:"percent"`
	Visible bool    `json:"visible"`
}

type clockInfo struct {
	Local     string `json:"local"`
	Secondary string `json:"secondary"`
}

// getTimeline runs the placement pipeline server-side: it projects the
// stored events and blocks into the requested window and returns lane
// geometry ready to render.
func (h *handlers) getTimeline(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().In(h.loc).Format("2006-01-02")
	}
	hours := 24
	switch c.Query("hours") {
	case "", "24":
	case "36":
		hours = 36
	case "48":
		hours = 48
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be 24, 36 or 48"})
		return
	}

	win, err := timeline.NewWindow(date, hours, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, dropped, err := h.loadRecords()
	if err != nil {
		storeError(c, err)
		return
	}

	known, err := db.EncoderNames(h.db)
	if err != nil {
		storeError(c, err)
		return
	}
	known = append(known, h.cfg.Lanes.Pinned)

	placed := timeline.Place(records, win, win.Anchor())
	lanes := timeline.AssignLanes(placed, known, h.cfg.Lanes.Pinned)

	c.JSON(http.StatusOK, h.renderTimeline(win, date, lanes, dropped))
}

// loadRecords projects the full event and block tables into timeline
// records. Events with malformed timestamps are logged here and dropped;
// the placement engine never sees them.
func (h *handlers) loadRecords() ([]timeline.Record, int, error) {
	var events []models.Event
	if err := h.db.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	var blocks []models.Block
	if err := h.db.Find(&blocks).Error; err != nil {
		return nil, 0, err
	}

	records := make([]timeline.Record, 0, len(events)+len(blocks))
	dropped := 0
	for _, ev := range events {
		rec, err := timeline.RecordFromEvent(ev)
		if err != nil {
			log.Printf("timeline: drop event %s: %v", ev.ID, err)
			dropped++
			continue
		}
		if rec.LaneKey == "" {
			rec.LaneKey = h.cfg.Lanes.Pinned
		}
		records = append(records, rec)
	}
	for _, b := range blocks {
		rec := timeline.RecordFromBlock(b)
		if rec.LaneKey == "" {
			rec.LaneKey = h.cfg.Lanes.Pinned
		}
		records = append(records, rec)
	}
	return records, dropped, nil
}

func (h *handlers) renderTimeline(win timeline.Window, date string, lanes []timeline.Lane, dropped int) timelineResponse {
	start, end := win.Range()
	resp := timelineResponse{
		Window: windowInfo{
			Date:  date,
			Hours: win.Hours(),
			Start: start.Format(time.RFC3339),
			End:   end.Format(time.RFC3339),
		},
		Lanes:   make([]laneInfo, 0, len(lanes)),
		Dropped: dropped,
	}
	if split, ok := win.DaySplitPercent(); ok {
		resp.Window.DaySplit = &split
	}

	for _, lane := range lanes {
		li := laneInfo{Key: lane.Key, Order: lane.Order}
		for _, iv := range lane.Intervals {
			li.Intervals = append(li.Intervals, intervalInfo{
				ID:           iv.ID,
				Title:        iv.Title,
				Kind:         string(iv.Kind),
				StartPercent: iv.StartPercent,
				WidthPercent: iv.WidthPercent,
				Placeholder:  iv.Placeholder,
			})
		}
		resp.Lanes = append(resp.Lanes, li)
	}

	now := time.Now()
	pct, visible := timeline.NowPercent(win, now)
	resp.Now = nowInfo{Percent: pct, Visible: visible}
	resp.Clock = clockInfo{Local: now.In(h.loc).Format("15:04:05")}
	if secondary, err := h.cfg.SecondaryLocation(); err == nil {
		resp.Clock.Secondary = now.In(secondary).Format("15:04:05")
	}
	return resp
}
