package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgoikoetxea/mileatlas/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("mileatlas-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		migrateUp(ctx, pool)
	case "down":
		migrateDown(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// migrateUp applies every migrations/*.sql file in lexical order. The
// files are written to be idempotent (CREATE ... IF NOT EXISTS), so
// re-running up is safe.
func migrateUp(ctx context.Context, pool *pgxpool.Pool) {
	files, err := filepath.Glob("migrations/*.sql")
	if err != nil || len(files) == 0 {
		log.Fatalf("no migration files found: %v", err)
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}
		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS routes"); err != nil {
		log.Fatalf("drop: %v", err)
	}
	log.Println("schema dropped")
}
