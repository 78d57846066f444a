package models

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestEvent_Fields(t *testing.T) {
	typ := reflect.TypeOf(Event{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "Title", "not null")
	assertGormTag(t, typ, "Network", "index")
	assertGormTag(t, typ, "Source", "default:obs")

	// Feed timestamps stay strings so a malformed one degrades at
	// projection time instead of failing the import.
	assertFieldType(t, typ, "StartTime", "string")
	assertFieldType(t, typ, "EndTime", "string")
	assertFieldType(t, typ, "Date", "string")
}

func TestBlock_Fields(t *testing.T) {
	typ := reflect.TypeOf(Block{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "EventID", "index")
	assertGormTag(t, typ, "Encoder", "index")
	assertGormTag(t, typ, "Booths", "many2many:block_booths")

	assertFieldType(t, typ, "StartTime", "time.Time")
	assertFieldType(t, typ, "BroadcastStartTime", "*time.Time")
	assertFieldType(t, typ, "EventID", "*string")
}

func TestRegistry_Fields(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeOf(Encoder{}),
		reflect.TypeOf(Booth{}),
		reflect.TypeOf(Producer{}),
		reflect.TypeOf(Commentator{}),
		reflect.TypeOf(Network{}),
		reflect.TypeOf(Suite{}),
	} {
		assertGormTag(t, typ, "ID", "primaryKey")
		assertGormTag(t, typ, "Name", "uniqueIndex")
	}
	assertFieldType(t, reflect.TypeOf(Network{}), "Aliases", "string")
}

func TestBlock_EffectiveRange(t *testing.T) {
	nominal := Block{
		StartTime: time.Date(2026, 2, 6, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 2, 6, 12, 0, 0, 0, time.UTC),
	}
	start, end := nominal.EffectiveRange()
	if !start.Equal(nominal.StartTime) || !end.Equal(nominal.EndTime) {
		t.Errorf("nominal range = (%v, %v)", start, end)
	}

	bStart := time.Date(2026, 2, 6, 10, 15, 0, 0, time.UTC)
	bEnd := time.Date(2026, 2, 6, 12, 30, 0, 0, time.UTC)

	// One override half alone is ignored.
	half := nominal
	half.BroadcastStartTime = &bStart
	start, end = half.EffectiveRange()
	if !start.Equal(nominal.StartTime) || !end.Equal(nominal.EndTime) {
		t.Errorf("half override range = (%v, %v), want nominal", start, end)
	}

	full := half
	full.BroadcastEndTime = &bEnd
	start, end = full.EffectiveRange()
	if !start.Equal(bStart) || !end.Equal(bEnd) {
		t.Errorf("full override range = (%v, %v), want broadcast pair", start, end)
	}
}

func TestEvent_Instantiation(t *testing.T) {
	ev := Event{
		ID:        "ev1",
		Title:     "Alpine Skiing",
		StartTime: "2026-02-06T10:00:00Z",
		Network:   "Eurosport 1",
		Source:    "obs",
	}
	if ev.EndTime != "" {
		t.Error("end time should default to empty")
	}
	if ev.ID != "ev1" || ev.Source != "obs" {
		t.Errorf("event = %+v", ev)
	}
}
