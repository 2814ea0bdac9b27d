package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if db.Len() != 0 {
		t.Errorf("new database not empty: %d keys", db.Len())
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := db.Set("stat_channel", "-1001234567890"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok := db.Get("stat_channel")
	if !ok || v != "-1001234567890" {
		t.Errorf("Get = (%q, %v), want (-1001234567890, true)", v, ok)
	}

	// Reopen to verify persistence
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok = db2.Get("stat_channel")
	if !ok || v != "-1001234567890" {
		t.Errorf("after reopen Get = (%q, %v)", v, ok)
	}
}

func TestDelete(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	db.Set("k", "v")
	if err := db.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := db.Get("k"); ok {
		t.Error("key survived Delete")
	}
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	db.Set("stat_channel", "-100")
	db.Set("prediction_interval", "5")

	if err := db.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if db.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", db.Len())
	}

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if db2.Len() != 0 {
		t.Errorf("persisted Len after Reset = %d, want 0", db2.Len())
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for corrupt file")
	}
}
