package db

import (
	"strings"
	"testing"

	"github.com/mfalcone/airgrid/internal/config"
	"github.com/mfalcone/airgrid/internal/models"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DBConfig
		want string
	}{
		{
			name: "no password",
			cfg:  config.DBConfig{User: "root", Host: "127.0.0.1", Port: 3306, Database: "airgrid"},
			want: "root@tcp(127.0.0.1:3306)/airgrid?parseTime=true",
		},
		{
			name: "with password",
			cfg:  config.DBConfig{User: "airgrid", Password: "secret", Host: "10.0.0.5", Port: 3307, Database: "airgrid_prod"},
			want: "airgrid:secret@tcp(10.0.0.5:3307)/airgrid_prod?parseTime=true",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSN(tt.cfg); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DBConfig{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "unsupported driver") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestAutoMigrate_AllModels(t *testing.T) {
	db, err := ConnectMemory()
	if err != nil {
		t.Fatalf("ConnectMemory: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	for _, m := range AllModels() {
		if !db.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}
}

func TestDropAll(t *testing.T) {
	db, err := ConnectMemory()
	if err != nil {
		t.Fatalf("ConnectMemory: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if err := DropAll(db); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	for _, m := range AllModels() {
		if db.Migrator().HasTable(m) {
			t.Errorf("table for %T survived DropAll", m)
		}
	}
	if db.Migrator().HasTable("block_booths") {
		t.Error("join table survived DropAll")
	}
}

func TestSeedResources(t *testing.T) {
	db, err := ConnectMemory()
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Resources: config.ResourcesConfig{
			Encoders: []string{"DX01", "DX02"},
			Booths:   []string{"Booth A"},
			Suites:   []string{"Suite 1"},
		},
		Networks: []config.NetworkConfig{
			{Name: "RAI", Aliases: []string{"Rai Sport", "raisport"}},
		},
	}
	if err := SeedResources(db, cfg); err != nil {
		t.Fatalf("SeedResources: %v", err)
	}

	var encoders int64
	db.Model(&models.Encoder{}).Count(&encoders)
	if encoders != 2 {
		t.Errorf("encoders = %d, want 2", encoders)
	}

	var network models.Network
	if err := db.Where("name = ?", "RAI").First(&network).Error; err != nil {
		t.Fatalf("network RAI not seeded: %v", err)
	}
	if !strings.Contains(network.Aliases, "raisport") {
		t.Errorf("Aliases = %q, want to contain raisport", network.Aliases)
	}
}

func TestSeedResources_Rerun(t *testing.T) {
	db, err := ConnectMemory()
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Resources: config.ResourcesConfig{Encoders: []string{"DX01"}},
	}
	for i := 0; i < 2; i++ {
		if err := SeedResources(db, cfg); err != nil {
			t.Fatalf("SeedResources run %d: %v", i+1, err)
		}
	}

	var count int64
	db.Model(&models.Encoder{}).Count(&count)
	if count != 1 {
		t.Errorf("encoders after re-seed = %d, want 1", count)
	}
}

func TestEncoderNames(t *testing.T) {
	db, err := ConnectMemory()
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Resources: config.ResourcesConfig{Encoders: []string{"TX 1", "DX01"}},
	}
	if err := SeedResources(db, cfg); err != nil {
		t.Fatal(err)
	}

	names, err := EncoderNames(db)
	if err != nil {
		t.Fatalf("EncoderNames: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names = %v, want 2 entries", names)
	}
}
