// Command server runs the shop-floor scheduling engine behind an HTTP
// API, wired together the way the teacher's cmd/server main.go
// assembles its control plane: env-var configuration, optional
// Postgres/Redis backends that degrade to in-memory when unset, and a
// plain log.Printf/log.Fatalf startup sequence.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lineforge/shopfloor/internal/api"
	"github.com/lineforge/shopfloor/internal/demo"
	"github.com/lineforge/shopfloor/internal/engine"
	"github.com/lineforge/shopfloor/internal/observability"
	"github.com/lineforge/shopfloor/internal/realtime"
	"github.com/lineforge/shopfloor/internal/store"
)

func main() {
	addr := getenv("SHOPFLOOR_ADDR", ":8080")
	pgDSN := os.Getenv("SHOPFLOOR_POSTGRES_DSN")
	redisAddr := os.Getenv("SHOPFLOOR_REDIS_ADDR")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var journal store.JournalArchive
	if pgDSN != "" {
		pg, err := store.NewPostgresJournal(ctx, pgDSN)
		if err != nil {
			log.Printf("server: postgres journal unavailable, falling back to in-memory: %v", err)
			journal = store.NewMemoryJournal()
		} else {
			journal = pg
		}
	} else {
		log.Printf("server: SHOPFLOOR_POSTGRES_DSN unset, running journal in STANDALONE mode")
		journal = store.NewMemoryJournal()
	}

	var cache store.SnapshotCache
	if redisAddr != "" {
		rc, err := store.NewRedisSnapshotCache(ctx, redisAddr)
		if err != nil {
			log.Printf("server: redis cache unavailable, falling back to in-memory: %v", err)
			cache = store.NewMemorySnapshotCache()
		} else {
			cache = rc
		}
	} else {
		log.Printf("server: SHOPFLOOR_REDIS_ADDR unset, running snapshot cache in STANDALONE mode")
		cache = store.NewMemorySnapshotCache()
	}

	now := time.Now().UTC().Truncate(time.Minute)
	gen := demo.Generate(demo.DefaultConfig(now))

	eng := engine.New(now, gen.Pool, gen.Setup, engine.DefaultPolicies())
	log.Printf("server: engine seeded with %d pool orders starting at %s", len(gen.Pool), now.Format(time.RFC3339))

	hub := realtime.NewHub()
	driver := realtime.NewDriver(eng, hub, realtime.DefaultConfig())

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	srv := api.NewServer(eng, hub, driver, metrics, journal, cache)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Printf("server: listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: listen failed: %v", err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
