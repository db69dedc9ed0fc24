package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
	"github.com/davidm/sidework/internal/ingest"
	"github.com/davidm/sidework/internal/travel"
)

func main() {
	userFlag := flag.String("user", "", "User ID to import for")
	sourceID := flag.String("source", "csv", "Source label for the imported gigs")
	file := flag.String("file", "", "Path to the CSV export")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatal("Please provide a valid user ID using -user flag")
	}
	if *file == "" {
		log.Fatal("Please provide a CSV path using -file flag")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	pipeline := ingest.NewPipeline(db.NewStore(pool), travel.NewHaversineEstimator(), engine.DefaultWeights(), nil, logger)

	stats, err := pipeline.ImportCSV(ctx, userID, *sourceID, f)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Found %d, saved %d, skipped %d, errors %d", stats.Found, stats.Saved, stats.Skipped, stats.Errors)
}
