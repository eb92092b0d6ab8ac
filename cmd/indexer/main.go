package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/carebridge/portal/backend/internal/adapters/database"
	"github.com/carebridge/portal/backend/internal/adapters/search"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/postgres"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/typesense"
	"github.com/carebridge/portal/backend/pkg/config"
)

// Reindexes the doctor directory into Typesense. Run once after seeding, or
// on an interval to heal drift between the database and the search index.
func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	doctorRepo := database.NewDoctorAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting doctors collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.DoctorsCollection).Delete(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	doctors, err := doctorRepo.List(ctx)
	if err != nil {
		return err
	}

	log.Printf("Indexing %d doctors...", len(doctors))

	indexed := 0
	for _, doctor := range doctors {
		if doctor == nil {
			continue
		}
		if err := adapter.Index(ctx, doctor); err != nil {
			log.Printf("Warning: failed to index doctor %s: %v", doctor.ID, err)
			continue
		}
		indexed++
	}

	log.Printf("Indexed %d/%d doctors", indexed, len(doctors))
	return nil
}
