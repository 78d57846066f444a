package models

import "time"

// Block is a derived broadcast assignment: it binds a source event (or a
// hand-drawn time range) to the resources that put it on air.
type Block struct {
	ID                 string `gorm:"primaryKey;size:64"`
	Name               string `gorm:"not null"`
	StartTime          time.Time
	EndTime            time.Time
	BroadcastStartTime *time.Time
	BroadcastEndTime   *time.Time
	EventID            *string `gorm:"size:64;index"`
	Encoder            string  `gorm:"size:64;index"`
	Network            string  `gorm:"size:64"`
	Producer           string  `gorm:"size:64"`
	Commentators       string  `gorm:"type:text"`
	Suite              string  `gorm:"size:64"`
	Booths             []Booth `gorm:"many2many:block_booths"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EffectiveRange returns the times a block occupies on the timeline: the
// broadcast override pair when both halves are present, else the nominal
// start and end.
func (b Block) EffectiveRange() (time.Time, time.Time) {
	if b.BroadcastStartTime != nil && b.BroadcastEndTime != nil {
		return *b.BroadcastStartTime, *b.BroadcastEndTime
	}
	return b.StartTime, b.EndTime
}
