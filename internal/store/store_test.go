package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"llmbench/internal/bench"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	res := bench.Result{
		Completed:        true,
		StreamedTokens:   99,
		TimeToFirstToken: 120 * time.Millisecond,
		Summary:          bench.Summary{EvalCount: 100, EvalDuration: 2 * time.Second, TotalDuration: 3 * time.Second},
	}
	first := NewRun("a", "p", "http://x", res, nil)
	if first.TokensPerSecond != 50 || first.Outcome != "ok" {
		t.Fatalf("unexpected run: %+v", first)
	}
	if err := s.Record(ctx, &first); err != nil {
		t.Fatalf("record: %v", err)
	}
	failed := NewRun("b", "p", "http://x", bench.Result{}, &bench.StatusError{Code: 500})
	if err := s.Record(ctx, &failed); err != nil {
		t.Fatalf("record: %v", err)
	}
	third := NewRun("a", "p", "http://x", bench.Result{}, errors.New("boom"))
	if err := s.Record(ctx, &third); err != nil {
		t.Fatalf("record: %v", err)
	}

	all, err := s.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 3 || all[0].ID != third.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
	onlyA, err := s.Recent(ctx, "a", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(onlyA) != 2 {
		t.Fatalf("expected 2 runs for model a, got %d", len(onlyA))
	}
	if onlyA[1].EvalDurationNS != int64(2*time.Second) || onlyA[1].TimeToFirstTokNS != int64(120*time.Millisecond) {
		t.Fatalf("durations not persisted: %+v", onlyA[1])
	}
	limited, _ := s.Recent(ctx, "", 1)
	if len(limited) != 1 {
		t.Fatalf("limit ignored: %d", len(limited))
	}
	if all[1].Outcome != "http_error" {
		t.Fatalf("outcome=%q", all[1].Outcome)
	}
}

func TestOpenFailsWhenSchemaCannotMigrate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "history.db")
	db, err := gorm.Open(sqlite.Open(p), &gorm.Config{})
	if err != nil {
		t.Fatalf("seed open: %v", err)
	}
	// A view with the table's name makes CREATE TABLE fail.
	if err := db.Exec("CREATE VIEW bench_runs AS SELECT 1 AS x").Error; err != nil {
		t.Fatalf("seed view: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	s, err := Open(p)
	if err == nil {
		_ = s.Close()
		t.Fatalf("expected migrate error")
	}
	if !strings.Contains(err.Error(), "migrate history") {
		t.Fatalf("unexpected error: %v", err)
	}
}
