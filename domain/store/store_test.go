package store

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/soocke/roi-annotator/domain/roi"
)

var discardLogger = slog.New(slog.DiscardHandler)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "annotations.db"), discardLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBackground(ref string) *roi.Background {
	return &roi.Background{Ref: ref, NativeWidth: 640, NativeHeight: 480}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rois := []roi.ROI{{{0, 0}, {10, 0}, {10, 10}}}
	saved, err := s.Save(ctx, testBackground("scan.png"), rois)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ImageRef != "scan.png" || got.NativeWidth != 640 || got.NativeHeight != 480 {
		t.Fatalf("got %+v", got)
	}
	if !reflect.DeepEqual(got.ROIs, rois) {
		t.Fatalf("rois = %v, want %v", got.ROIs, rois)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("created_at %v != %v", got.CreatedAt, saved.CreatedAt)
	}
}

func TestStore_SaveRejectsInvalidPayload(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Save(context.Background(), testBackground("x"), []roi.ROI{{{0, 0}, {1, 1}}})
	if err == nil {
		t.Fatalf("two-vertex roi accepted")
	}
	if _, err := s.Save(context.Background(), nil, nil); !errors.Is(err, roi.ErrNoBackground) {
		t.Fatalf("nil background: %v", err)
	}
}

func TestStore_SaveEmptyExport(t *testing.T) {
	s := openTestStore(t)
	a, err := s.Save(context.Background(), testBackground("blank.png"), nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(context.Background(), a.ID)
	if err != nil || got.ROIs == nil || len(got.ROIs) != 0 {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 100, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}
	ctx := context.Background()
	tri := []roi.ROI{{{0, 0}, {1, 0}, {1, 1}}}
	first, _ := s.Save(ctx, testBackground("a.png"), tri)
	_, _ = s.Save(ctx, testBackground("b.png"), tri)
	third, _ := s.Save(ctx, testBackground("a.png"), tri)

	all, err := s.List(ctx, "", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("list all = %d, %v", len(all), err)
	}
	forA, err := s.List(ctx, "a.png", 0)
	if err != nil || len(forA) != 2 {
		t.Fatalf("list a.png = %d, %v", len(forA), err)
	}
	if forA[0].ID != third.ID || forA[1].ID != first.ID {
		t.Fatalf("order = %s, %s", forA[0].ID, forA[1].ID)
	}
	limited, _ := s.List(ctx, "", 1)
	if len(limited) != 1 || limited[0].ID != third.ID {
		t.Fatalf("limit 1 = %+v", limited)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: %v", err)
	}
	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	a, _ := s.Save(context.Background(), testBackground("a.png"), []roi.ROI{{{0, 0}, {1, 0}, {1, 1}}})
	if err := s.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted annotation still present: %v", err)
	}
}
