package timeline

import (
	"regexp"
	"sort"
	"strconv"
)

// DefaultPinnedLane is the planning/on-air lane that always sorts first.
const DefaultPinnedLane = "On Air"

// Lane is one horizontal timeline row, holding the placed intervals for a
// single resource key.
type Lane struct {
	Key       string
	Order     int
	Intervals []Placed
}

var (
	dxLanePattern = regexp.MustCompile(`^DX(\d+)$`)
	txLanePattern = regexp.MustCompile(`^TX\s*(\d+)$`)
)

// AssignLanes groups placed intervals into lanes and orders them. Keys in
// known with no intervals still appear, carrying a single synthetic
// placeholder so every configured resource has a visible row.
//
// Lane order is total and deterministic: the pinned key first, then
// DX-numbered lanes ascending, then TX-numbered lanes ascending, then the
// rest alphabetically; any tie falls back to plain string comparison.
func AssignLanes(placed []Placed, known []string, pinned string) []Lane {
	if pinned == "" {
		pinned = DefaultPinnedLane
	}

	byKey := make(map[string][]Placed)
	for _, p := range placed {
		byKey[p.LaneKey] = append(byKey[p.LaneKey], p)
	}
	for _, k := range known {
		if _, ok := byKey[k]; !ok {
			byKey[k] = nil
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return laneLess(keys[i], keys[j], pinned)
	})

	lanes := make([]Lane, 0, len(keys))
	for i, k := range keys {
		intervals := byKey[k]
		if len(intervals) == 0 {
			intervals = []Placed{{
				Record:       Record{LaneKey: k, Placeholder: true},
				StartPercent: 0,
				WidthPercent: 100,
			}}
		} else {
			intervals = append([]Placed(nil), intervals...)
			sort.SliceStable(intervals, func(a, b int) bool {
				if intervals[a].StartPercent != intervals[b].StartPercent {
					return intervals[a].StartPercent < intervals[b].StartPercent
				}
				return intervals[a].ID < intervals[b].ID
			})
		}
		lanes = append(lanes, Lane{Key: k, Order: i, Intervals: intervals})
	}
	return lanes
}

// laneRank buckets a key into its ordering group: pinned (0), DX-numbered
// (1), TX-numbered (2), everything else (3). num is meaningful only for
// the numbered groups.
func laneRank(key, pinned string) (rank, num int) {
	if key == pinned {
		return 0, 0
	}
	if m := dxLanePattern.FindStringSubmatch(key); m != nil {
		n, _ := strconv.Atoi(m[1])
		return 1, n
	}
	if m := txLanePattern.FindStringSubmatch(key); m != nil {
		n, _ := strconv.Atoi(m[1])
		return 2, n
	}
	return 3, 0
}

func laneLess(a, b, pinned string) bool {
	ra, na := laneRank(a, pinned)
	rb, nb := laneRank(b, pinned)
	if ra != rb {
		return ra < rb
	}
	if (ra == 1 || ra == 2) && na != nb {
		return na < nb
	}
	return a < b
}
