package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
timezone:
  primary: Europe/Rome
  secondary: America/New_York

db:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  user: airgrid
  password: secret
  database: airgrid_prod

server:
  port: 9090

ingest:
  path: /data/obs_schedule.csv
  schedule: "*/5 * * * *"
  source: obs

lanes:
  pinned: On Air

resources:
  encoders: ["DX01", "DX02", "TX 1", "TX 2"]
  booths: ["Booth A", "Booth B"]
  suites: ["Suite 1"]

networks:
  - name: RAI
    aliases: ["Rai Sport", "RAI SPORT HD", "raisport"]
  - name: NBC
    aliases: ["NBC Sports", "NBCSN"]
`

const minimalYAML = `
ingest:
  path: schedule.csv
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Timezone.Primary != "Europe/Rome" {
		t.Errorf("Timezone.Primary = %q, want Europe/Rome", cfg.Timezone.Primary)
	}
	if cfg.DB.Driver != "mysql" {
		t.Errorf("DB.Driver = %q, want mysql", cfg.DB.Driver)
	}
	if cfg.DB.Port != 3307 {
		t.Errorf("DB.Port = %d, want 3307", cfg.DB.Port)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Ingest.Schedule != "*/5 * * * *" {
		t.Errorf("Ingest.Schedule = %q", cfg.Ingest.Schedule)
	}
	if len(cfg.Resources.Encoders) != 4 {
		t.Errorf("len(Encoders) = %d, want 4", len(cfg.Resources.Encoders))
	}
	if len(cfg.Networks) != 2 {
		t.Fatalf("len(Networks) = %d, want 2", len(cfg.Networks))
	}
	if cfg.Networks[0].Name != "RAI" || len(cfg.Networks[0].Aliases) != 3 {
		t.Errorf("Networks[0] = %+v", cfg.Networks[0])
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"primary zone", cfg.Timezone.Primary, "Europe/Rome"},
		{"secondary zone", cfg.Timezone.Secondary, "America/New_York"},
		{"db driver", cfg.DB.Driver, "sqlite"},
		{"db path", cfg.DB.Path, "airgrid.db"},
		{"ingest source", cfg.Ingest.Source, "obs"},
		{"pinned lane", cfg.Lanes.Pinned, "On Air"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestParse_InvalidDriver(t *testing.T) {
	_, err := Parse([]byte("db:\n  driver: postgres\n"))
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "db.driver") {
		t.Errorf("error = %q, want mention of db.driver", err.Error())
	}
}

func TestParse_InvalidTimezone(t *testing.T) {
	_, err := Parse([]byte("timezone:\n  primary: Mars/Olympus\n"))
	if err == nil {
		t.Fatal("expected error for bogus zone")
	}
	if !strings.Contains(err.Error(), "IANA") {
		t.Errorf("error = %q, want mention of IANA zone", err.Error())
	}
}

func TestParse_NetworkWithoutName(t *testing.T) {
	_, err := Parse([]byte("networks:\n  - aliases: [\"x\"]\n"))
	if err == nil {
		t.Fatal("expected error for unnamed network")
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("{{not yaml")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airgrid.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Database != "airgrid_prod" {
		t.Errorf("DB.Database = %q", cfg.DB.Database)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/airgrid.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPrimaryLocation(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatal(err)
	}
	loc, err := cfg.PrimaryLocation()
	if err != nil {
		t.Fatalf("PrimaryLocation: %v", err)
	}
	if loc.String() != "Europe/Rome" {
		t.Errorf("location = %q, want Europe/Rome", loc)
	}
}
