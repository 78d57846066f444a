package models

import "time"

// Event is a source production event from the OBS schedule feed. Start and
// end times are kept exactly as the feed delivers them (ISO-8601 UTC
// strings, end optional) — parsing and validation happen when events are
// projected onto the timeline, so a malformed row degrades to a missing
// interval instead of a failed import.
type Event struct {
	ID        string `gorm:"primaryKey;size:64"`
	Title     string `gorm:"not null"`
	StartTime string `gorm:"size:40"`
	EndTime   string `gorm:"size:40"`
	Date      string `gorm:"size:16"` // optional feed date, DD/MM/YYYY
	Network   string `gorm:"size:64;index"`
	Source    string `gorm:"size:32;index;default:obs"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
