package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/model"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(sl.Discard(), ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func readingAt(id string, value float64, at time.Time) *model.Reading {
	return &model.Reading{ID: id, Value: value, Source: "test", FetchedAt: at}
}

func TestLatest_emptyStore(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != nil {
		t.Errorf("Latest = %+v; want nil", got)
	}
}

func TestSaveAndLatest(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	for _, r := range []*model.Reading{
		readingAt("a", 1.10, base),
		readingAt("b", 1.25, base.Add(500*time.Millisecond)),
		readingAt("c", 1.20, base.Add(time.Second)),
	} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s): %v", r.ID, err)
		}
	}

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got == nil || got.ID != "c" {
		t.Fatalf("Latest = %+v; want id c", got)
	}
	if got.Value != 1.20 {
		t.Errorf("Value = %v; want 1.20", got.Value)
	}
	if !got.FetchedAt.Equal(base.Add(time.Second)) {
		t.Errorf("FetchedAt = %v; want %v", got.FetchedAt, base.Add(time.Second))
	}
	if got.Source != "test" {
		t.Errorf("Source = %q; want test", got.Source)
	}
}

func TestSave_duplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	r := readingAt("dup", 1, time.Now())

	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(ctx, r); err == nil {
		t.Error("second Save returned nil error; want primary key violation")
	}
}

func TestHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"r0", "r1", "r2", "r3"} {
		if err := s.Save(ctx, readingAt(id, float64(i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.History(ctx, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(History) = %d; want 2", len(got))
	}
	if got[0].ID != "r3" || got[1].ID != "r2" {
		t.Errorf("History ids = %s,%s; want r3,r2", got[0].ID, got[1].ID)
	}
}

func TestCleanup_keepsNewest(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	old := time.Now().UTC().Add(-48 * time.Hour)

	if err := s.Save(ctx, readingAt("old1", 1, old)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, readingAt("old2", 2, old.Add(time.Hour))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Cleanup(ctx, time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d; want 1", count)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.ID != "old2" {
		t.Errorf("Latest = %+v; want old2", latest)
	}
}

func TestNewSQLiteStore_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "readings.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(sl.Discard(), path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.Save(ctx, readingAt("persisted", 0.95, time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteStore(sl.Discard(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got == nil || got.Value != 0.95 {
		t.Errorf("Latest = %+v; want value 0.95", got)
	}
}
