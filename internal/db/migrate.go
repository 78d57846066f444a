package db

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mfalcone/airgrid/internal/config"
	"github.com/mfalcone/airgrid/internal/models"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Event{},
		&models.Block{},
		&models.Encoder{},
		&models.Booth{},
		&models.Producer{},
		&models.Commentator{},
		&models.Network{},
		&models.Suite{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// DropAll removes every AirGrid table, including the block/booth join
// table. Used by `ag db reset`.
func DropAll(db *gorm.DB) error {
	tables := append(AllModels(), "block_booths")
	if err := db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("db: drop tables: %w", err)
	}
	return nil
}

// SeedResources upserts the configured resource registries so every
// declared encoder, booth, network and suite exists before the first
// ingest. Rows created over the API are left untouched.
func SeedResources(db *gorm.DB, cfg *config.Config) error {
	upsert := func(name string, row interface{}) error {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(row)
		if result.Error != nil {
			return fmt.Errorf("db: seed resource %q: %w", name, result.Error)
		}
		return nil
	}

	for _, name := range cfg.Resources.Encoders {
		if err := upsert(name, &models.Encoder{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range cfg.Resources.Booths {
		if err := upsert(name, &models.Booth{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range cfg.Resources.Producers {
		if err := upsert(name, &models.Producer{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range cfg.Resources.Commentators {
		if err := upsert(name, &models.Commentator{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range cfg.Resources.Suites {
		if err := upsert(name, &models.Suite{Name: name}); err != nil {
			return err
		}
	}

	for _, nc := range cfg.Networks {
		aliases, err := json.Marshal(nc.Aliases)
		if err != nil {
			return fmt.Errorf("db: marshal aliases for network %q: %w", nc.Name, err)
		}
		network := models.Network{Name: nc.Name, Aliases: string(aliases)}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"aliases"}),
		}).Create(&network)
		if result.Error != nil {
			return fmt.Errorf("db: seed network %q: %w", nc.Name, result.Error)
		}
	}
	return nil
}

// EncoderNames returns all encoder names, used to seed the known lane
// keys so encoders with zero blocks still get a timeline row.
func EncoderNames(db *gorm.DB) ([]string, error) {
	var names []string
	if err := db.Model(&models.Encoder{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("db: list encoder names: %w", err)
	}
	return names, nil
}
