package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mfalcone/airgrid/internal/config"
	"github.com/mfalcone/airgrid/internal/db"
	"github.com/mfalcone/airgrid/internal/models"
	"github.com/mfalcone/airgrid/internal/timeline"
)

func newBoardCmd() *cobra.Command {
	var (
		configPath string
		date       string
		hours      int
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the timeline board for a date",
		Long:  "Renders the placed timeline lanes for one broadcast day at the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, configPath, date, hours)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "airgrid.yaml", "path to AirGrid config file")
	cmd.Flags().StringVarP(&date, "date", "d", "", "broadcast date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&hours, "hours", 24, "window span: 24, 36 or 48")
	return cmd
}

func runBoard(cmd *cobra.Command, configPath, date string, hours int) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.PrimaryLocation()
	if err != nil {
		return err
	}
	if date == "" {
		date = time.Now().In(loc).Format("2006-01-02")
	}

	win, err := timeline.NewWindow(date, hours, loc)
	if err != nil {
		return err
	}

	lanes, err := boardLanes(gormDB, cfg, win)
	if err != nil {
		return err
	}

	start, end := win.Range()
	fmt.Fprintf(out, "Board for %s (%dh window, %s – %s)\n\n",
		date, hours, start.Format("Mon 15:04 MST"), end.Format("Mon 15:04 MST"))

	for _, lane := range lanes {
		fmt.Fprintf(out, "%s\n", lane.Key)
		for _, iv := range lane.Intervals {
			if iv.Placeholder {
				fmt.Fprintf(out, "  (empty)\n")
				continue
			}
			fmt.Fprintf(out, "  %6.2f%% +%6.2f%%  %s\n",
				iv.StartPercent, iv.WidthPercent, iv.Title)
		}
	}

	if pct, visible := timeline.NowPercent(win, time.Now()); visible {
		fmt.Fprintf(out, "\nNow: %.2f%% across the window\n", pct)
	}
	return nil
}

// boardLanes runs the placement pipeline against the store: events and
// blocks in, ordered lanes with geometry out.
func boardLanes(gormDB *gorm.DB, cfg *config.Config, win timeline.Window) ([]timeline.Lane, error) {
	var events []models.Event
	if err := gormDB.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	var blocks []models.Block
	if err := gormDB.Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}

	records := make([]timeline.Record, 0, len(events)+len(blocks))
	for _, ev := range events {
		rec, err := timeline.RecordFromEvent(ev)
		if err != nil {
			log.Printf("board: drop event %s: %v", ev.ID, err)
			continue
		}
		if rec.LaneKey == "" {
			rec.LaneKey = cfg.Lanes.Pinned
		}
		records = append(records, rec)
	}
	for _, b := range blocks {
		rec := timeline.RecordFromBlock(b)
		if rec.LaneKey == "" {
			rec.LaneKey = cfg.Lanes.Pinned
		}
		records = append(records, rec)
	}

	known, err := db.EncoderNames(gormDB)
	if err != nil {
		return nil, err
	}
	known = append(known, cfg.Lanes.Pinned)

	placed := timeline.Place(records, win, win.Anchor())
	return timeline.AssignLanes(placed, known, cfg.Lanes.Pinned), nil
}
