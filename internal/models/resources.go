package models

import "time"

// The resource registries are deliberately thin {id, name} tables: the
// timeline treats their names as opaque lane labels and display metadata.

// Encoder is a broadcast encoder channel (DX01, TX 1, ...). Encoder names
// seed the known lane keys, so an encoder with no blocks still gets a row.
type Encoder struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
}

// Booth is a commentary booth.
type Booth struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
}

// Producer is a production staff member.
type Producer struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
}

// Commentator is an on-air commentator.
type Commentator struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
}

// Network is a destination broadcast network. Aliases holds the JSON list
// of historical feed spellings that resolve to this canonical name.
type Network struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	Aliases   string `gorm:"type:text"`
	CreatedAt time.Time
}

// Suite is a production suite.
type Suite struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
}
