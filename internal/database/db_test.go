package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/robalobadob/codebreaker/assets"
)

func tempDB(t *testing.T) *SolveLog {
	t.Helper()
	db, err := Open(DriverPure, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Second run must be a no-op.
	if err := Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("Migrate (again): %v", err)
	}
	return NewSolveLog(db)
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestSolveLog(t *testing.T) {
	l := tempDB(t)
	ctx := context.Background()
	rows := []SolveRow{
		{SessionID: "s1", Moves: 1, Remaining: 256, Suggestion: "0145", Source: "table"},
		{SessionID: "s1", Moves: 3, Remaining: 12, Suggestion: "2415", Source: "minimax"},
		{SessionID: "s2", Moves: 2, Remaining: 0, Source: "none"},
		{SessionID: "s2", Moves: 3, Remaining: 9, Suggestion: "1150", Source: "minimax"},
	}
	for _, r := range rows {
		if err := l.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := l.CountBySource(ctx)
	if err != nil {
		t.Fatalf("CountBySource: %v", err)
	}
	if got["table"] != 1 || got["minimax"] != 2 || got["none"] != 1 {
		t.Fatalf("unexpected counts: %v", got)
	}
}
