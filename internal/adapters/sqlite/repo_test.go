package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/samirrijal/mapboard/internal/core/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func strPtr(s string) *string { return &s }

func TestMarkerRepo_CreateGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewMarkerRepo(openTestDB(t))

	a := &domain.Marker{Latitude: 39.9042, Longitude: 116.4074, Title: "Beijing"}
	b := &domain.Marker{Latitude: -33.8688, Longitude: 151.2093, Title: "Sydney", Description: strPtr("harbour")}
	for _, m := range []*domain.Marker{a, b} {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if a.ID == 0 || b.ID <= a.ID {
		t.Fatalf("ids not assigned in order: %d, %d", a.ID, b.ID)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Latitude != -33.8688 || got.Description == nil || *got.Description != "harbour" || got.ImageURL != nil {
		t.Errorf("unexpected marker %+v", got)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("unexpected list %+v", list)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("count = %d, %v", n, err)
	}
}

func TestMarkerRepo_GetUnknown(t *testing.T) {
	repo := NewMarkerRepo(openTestDB(t))
	if _, err := repo.GetByID(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkerRepo_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	repo := NewMarkerRepo(openTestDB(t))

	m := &domain.Marker{Latitude: 1, Longitude: 2, Title: "old", Description: strPtr("keep")}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Update(ctx, m.ID, domain.MarkerUpdate{Title: strPtr("new")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "new" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Description == nil || *got.Description != "keep" {
		t.Errorf("description should be unchanged, got %v", got.Description)
	}
	if got.Latitude != 1 || got.Longitude != 2 {
		t.Errorf("coordinates changed: %+v", got)
	}

	if _, err := repo.Update(ctx, 999, domain.MarkerUpdate{Title: strPtr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkerRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMarkerRepo(openTestDB(t))

	m := &domain.Marker{Latitude: 1, Longitude: 2, Title: "gone"}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, m.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("marker still present: %v", err)
	}
	if err := repo.Delete(ctx, m.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestPolygonRepo_ReplaceKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	repo := NewPolygonRepo(openTestDB(t))

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	first := &domain.Polygon{Coordinates: []float64{1, 2, 3, 4, 5, 6}, Name: "A"}
	if err := repo.ReplaceCurrent(ctx, first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	coords := []float64{39.9, 116.4, 39.91, 116.41, 39.92, 116.39, 0.1234567890123}
	coords = append(coords, -0.5)
	second := &domain.Polygon{Coordinates: coords, Name: "B", Description: strPtr("d")}
	if err := repo.ReplaceCurrent(ctx, second); err != nil {
		t.Fatalf("replace: %v", err)
	}

	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one polygon, got %d", len(list))
	}
	got := list[0]
	if got.ID != second.ID || got.Name != "B" || got.Description == nil || *got.Description != "d" {
		t.Errorf("unexpected polygon %+v", got)
	}
	if !reflect.DeepEqual(got.Coordinates, coords) {
		t.Errorf("coordinates = %v, want %v", got.Coordinates, coords)
	}
}

func TestPolygonRepo_ConcurrentReplaceKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "mapboard.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(db.Close)
	repo := NewPolygonRepo(db)

	const workers = 50
	names := make(map[string]bool, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		name := fmt.Sprintf("area-%d", i)
		names[name] = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.ReplaceCurrent(ctx, &domain.Polygon{Coordinates: []float64{1, 2, 3, 4}, Name: name})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("replace: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one polygon, got %d", len(list))
	}
	if !names[list[0].Name] {
		t.Errorf("unexpected polygon %q", list[0].Name)
	}
}

func TestDB_PingAndStats(t *testing.T) {
	db := openTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	open, _, _ := db.Stats()
	if open != 1 {
		t.Errorf("open = %d, want 1", open)
	}
}
