package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/samirrijal/mapboard/internal/adapters/postgres"
	"github.com/samirrijal/mapboard/internal/adapters/sqlite"
	"github.com/samirrijal/mapboard/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up>")
	}

	cfg, err := config.Load("mapboard-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "up":
		if err := up(ctx, cfg.Database); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	case "down":
		log.Fatal("down migrations are not supported; drop the markers and polygons tables by hand")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func up(ctx context.Context, cfg config.DatabaseConfig) error {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.New(ctx, cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		files, err := db.Migrate(ctx)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("OK  %s\n", f)
		}

	case "sqlite":
		// Opening creates the schema.
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return err
		}
		db.Close()
		fmt.Printf("OK  %s\n", cfg.Path)

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	log.Println("all migrations applied")
	return nil
}
