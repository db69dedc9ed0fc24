package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/davidm/sidework/internal/db"
)

func main() {
	userFlag := flag.String("user", "", "User ID to inspect")
	limit := flag.Int("limit", 10, "Number of runs to show")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatal("Please provide a valid user ID using -user flag")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	runs, err := db.NewStore(pool).ListImportRuns(ctx, userID, *limit)
	if err != nil {
		log.Fatalf("Failed to list import runs: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source", "Status", "Found", "Saved", "Skipped", "Errors", "Duration", "Started At"})

	for _, r := range runs {
		duration := "Running..."
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		t.AppendRow(table.Row{r.SourceID, r.Status, r.ItemsFound, r.ItemsSaved, r.ItemsSkipped, r.Errors, duration, r.StartedAt.Format("15:04:05")})
	}
	t.Render()
}
