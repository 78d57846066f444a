package main

import (
	"strings"
	"testing"
)

func TestDBCmd_Help(t *testing.T) {
	out, err := runCmd(t, "db", "--help")
	if err != nil {
		t.Fatalf("db --help failed: %v", err)
	}
	if !strings.Contains(out, "Database management") {
		t.Errorf("expected help to mention 'Database management', got: %s", out)
	}
	for _, sub := range []string{"init", "reset"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestDBInitCmd_MissingConfig(t *testing.T) {
	_, err := runCmd(t, "db", "init", "--config", "/nonexistent/airgrid.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %v, want load config failure", err)
	}
}

func TestDBInitCmd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, `resources:
  encoders: [DX01, DX02]
networks:
  - name: Eurosport 1
    aliases: [ES1]
`)

	out, err := runCmd(t, "db", "init", "--config", cfgPath)
	if err != nil {
		t.Fatalf("db init failed: %v", err)
	}
	if !strings.Contains(out, "Migrated") {
		t.Errorf("expected migration summary, got: %s", out)
	}
	if !strings.Contains(out, "Seeded 2 encoders, 1 networks") {
		t.Errorf("expected seed summary, got: %s", out)
	}
	if !strings.Contains(out, "initialized successfully") {
		t.Errorf("expected success message, got: %s", out)
	}

	// Init is idempotent.
	if _, err := runCmd(t, "db", "init", "--config", cfgPath); err != nil {
		t.Fatalf("second db init failed: %v", err)
	}
}

func TestDBResetCmd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, `resources:
  encoders: [DX01]
`)

	if _, err := runCmd(t, "db", "init", "--config", cfgPath); err != nil {
		t.Fatalf("db init failed: %v", err)
	}

	out, err := runCmd(t, "db", "reset", "--config", cfgPath, "--yes")
	if err != nil {
		t.Fatalf("db reset failed: %v", err)
	}
	if !strings.Contains(out, "Dropped all tables") {
		t.Errorf("expected drop summary, got: %s", out)
	}
	if !strings.Contains(out, "reset successfully") {
		t.Errorf("expected success message, got: %s", out)
	}
}

func TestDBResetCmd_Aborts(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "")

	if _, err := runCmd(t, "db", "init", "--config", cfgPath); err != nil {
		t.Fatalf("db init failed: %v", err)
	}

	cmd := newRootCmd()
	out := new(strings.Builder)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader("no\n"))
	cmd.SetArgs([]string{"db", "reset", "--config", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("db reset failed: %v", err)
	}
	if !strings.Contains(out.String(), "Aborted.") {
		t.Errorf("expected abort message, got: %s", out.String())
	}
}
