//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/mapboard/internal/adapters/postgres"
	"github.com/samirrijal/mapboard/internal/core/domain"
	"github.com/samirrijal/mapboard/internal/pkg/config"
)

// setupTestDB connects to the database described by the MAPBOARD_DATABASE_*
// environment, applies migrations and empties both tables.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	cfg, err := config.Load("mapboard-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `TRUNCATE markers, polygons RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestMarkerRepo_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewMarkerRepo(db)
	ctx := context.Background()

	desc := "harbour"
	m := &domain.Marker{Latitude: -33.8688, Longitude: 151.2093, Title: "Sydney", Description: &desc}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("id not assigned")
	}

	title := "Sydney CBD"
	got, err := repo.Update(ctx, m.ID, domain.MarkerUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != title || got.Description == nil || *got.Description != desc {
		t.Errorf("unexpected marker after update %+v", got)
	}

	if err := repo.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, m.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, m.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPolygonRepo_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewPolygonRepo(db)
	ctx := context.Background()

	if err := repo.ReplaceCurrent(ctx, &domain.Polygon{Coordinates: []float64{1, 2, 3, 4}, Name: "A"}); err != nil {
		t.Fatalf("replace A: %v", err)
	}
	coords := []float64{39.908823, 116.39747, 39.9087654321, 116.4012345678}
	if err := repo.ReplaceCurrent(ctx, &domain.Polygon{Coordinates: coords, Name: "B"}); err != nil {
		t.Fatalf("replace B: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "B" {
		t.Fatalf("unexpected polygons %+v", list)
	}
	if !reflect.DeepEqual(list[0].Coordinates, coords) {
		t.Errorf("coordinates = %v", list[0].Coordinates)
	}
}

func TestPolygonRepo_ConcurrentReplace_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewPolygonRepo(db)
	ctx := context.Background()

	const workers = 20
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		name := fmt.Sprintf("area-%d", i)
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

	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM polygons`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one polygon row, got %d", n)
	}
}
