package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfalcone/airgrid/internal/models"
	"github.com/mfalcone/airgrid/internal/realtime"
)

// Options controls a CSV import.
type Options struct {
	// Source tags imported rows; each import replaces every event
	// carrying the same tag, so a re-run is a full refresh, not an
	// append.
	Source string
	// Resolver canonicalizes network labels; nil leaves them as-is.
	Resolver *AliasResolver
}

// Result summarizes an import.
type Result struct {
	Imported int
	Skipped  int
}

// ImportFile imports the CSV feed at path.
func ImportFile(db *gorm.DB, reg *realtime.Registry, path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()
	return ImportCSV(db, reg, f, opts)
}

// ImportSource imports from a local file path or an http(s) feed URL.
func ImportSource(db *gorm.DB, reg *realtime.Registry, src string, opts Options) (Result, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		resp, err := http.Get(src)
		if err != nil {
			return Result{}, fmt.Errorf("ingest: fetch %s: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return Result{}, fmt.Errorf("ingest: fetch %s: status %s", src, resp.Status)
		}
		return ImportCSV(db, reg, resp.Body, opts)
	}
	return ImportFile(db, reg, src, opts)
}

// ImportCSV reads the OBS schedule feed and replaces the tagged event
// rows in one transaction. Columns are matched by header name; rows
// missing a title or start time are logged and skipped rather than
// failing the import. Timestamps are stored exactly as the feed delivers
// them — a malformed timestamp surfaces later as an event missing from
// the timeline, which is the degradation the operators expect.
func ImportCSV(db *gorm.DB, reg *realtime.Registry, r io.Reader, opts Options) (Result, error) {
	if opts.Source == "" {
		opts.Source = "obs"
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("ingest: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "start_time"} {
		if _, ok := cols[required]; !ok {
			return Result{}, fmt.Errorf("ingest: feed is missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result Result
	var events []models.Event
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("ingest: line %d: %v (skipped)", line, err)
			result.Skipped++
			continue
		}

		title := field(row, "title")
		start := field(row, "start_time")
		if title == "" || start == "" {
			log.Printf("ingest: line %d: missing title or start_time (skipped)", line)
			result.Skipped++
			continue
		}

		id := field(row, "id")
		if id == "" {
			id = uuid.NewString()
		}

		events = append(events, models.Event{
			ID:        id,
			Title:     title,
			StartTime: start,
			EndTime:   field(row, "end_time"),
			Date:      field(row, "date"),
			Network:   opts.Resolver.Resolve(field(row, "network")),
			Source:    opts.Source,
		})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", opts.Source).Delete(&models.Event{}).Error; err != nil {
			return fmt.Errorf("ingest: clear source %q: %w", opts.Source, err)
		}
		if len(events) == 0 {
			return nil
		}
		if err := tx.Create(&events).Error; err != nil {
			return fmt.Errorf("ingest: insert %d events: %w", len(events), err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	result.Imported = len(events)
	if reg != nil {
		reg.Publish(realtime.Change{Table: "events", Action: realtime.ActionUpdate, ID: opts.Source})
	}
	return result, nil
}
