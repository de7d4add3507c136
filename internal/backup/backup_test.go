package backup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/claude/massebuilder/internal/store"
)

// TestExportImportRoundTrip verifies an export restores the exact same
// entries into a fresh store.
func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := store.NewMemory()
	src.Set(ctx, "currentWeek", "3")
	src.Set(ctx, "workout-lundi-w3", `{"date":"2025-03-03","week":3,"day":"lundi","exercises":{"lun-1-s0":"50|10"},"notes":"","mcGillDone":false}`)
	src.Set(ctx, "mb_progress", `{"poids":"82.5","taille":"180","waist":"","photos":{}}`)

	data, err := New(src).ExportAll(ctx)
	if err != nil {
		t.Fatalf("export error: %v", err)
	}

	dst := store.NewMemory()
	restored, err := New(dst).ImportAll(ctx, data)
	if err != nil {
		t.Fatalf("import error: %v", err)
	}
	if restored != 3 {
		t.Errorf("restored = %d, want 3", restored)
	}

	want, _ := src.All(ctx)
	got, _ := dst.All(ctx)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("key %q = %q, want %q", k, got[k], v)
		}
	}
}

// TestExportIsJSONObject verifies the export wire format is one flat
// string-to-string JSON object.
func TestExportIsJSONObject(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.Set(ctx, "currentWeek", "1")

	data, err := New(kv).ExportAll(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("export is not a flat object: %v", err)
	}
	if entries["currentWeek"] != "1" {
		t.Errorf("currentWeek = %q, want %q", entries["currentWeek"], "1")
	}
}

// TestImportMalformedLeavesStoreUntouched verifies a payload that fails
// to parse writes nothing.
func TestImportMalformedLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.Set(ctx, "currentWeek", "5")

	restored, err := New(kv).ImportAll(ctx, []byte("this is not json"))
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("error = %v, want ErrInvalidPayload", err)
	}
	if restored != 0 {
		t.Errorf("restored = %d, want 0", restored)
	}
	if v, _, _ := kv.Get(ctx, "currentWeek"); v != "5" {
		t.Errorf("currentWeek = %q, want untouched %q", v, "5")
	}
}

// TestImportOverwritesExisting verifies restored keys replace existing
// values.
func TestImportOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.Set(ctx, "currentWeek", "5")

	if _, err := New(kv).ImportAll(ctx, []byte(`{"currentWeek":"2"}`)); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := kv.Get(ctx, "currentWeek"); v != "2" {
		t.Errorf("currentWeek = %q, want %q", v, "2")
	}
}

// TestFilename verifies the dated download name.
func TestFilename(t *testing.T) {
	now := time.Date(2025, time.March, 3, 18, 30, 0, 0, time.UTC)
	if got := Filename(now); got != "MasseBuilder_2025-03-03.json" {
		t.Errorf("Filename = %q, want %q", got, "MasseBuilder_2025-03-03.json")
	}
}
