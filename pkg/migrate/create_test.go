package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateSQLMigrationBumpsPastNewestVersion(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "20300101000000_future.sql")
	if err := os.WriteFile(existing, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("seed migration: %v", err)
	}

	path, err := createSQLMigration(dir, "Add voucher notes!", time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if base := filepath.Base(path); base != "20300101000001_add_voucher_notes.sql" {
		t.Fatalf("unexpected filename %s", base)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "-- rollback add_voucher_notes") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := createSQLMigration(t.TempDir(), " !! ", time.Now()); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}
