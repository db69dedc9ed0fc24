package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
)

func main() {
	userFlag := flag.String("user", "", "User ID to plan for")
	hours := flag.Float64("hours", 8, "Hours available to work")
	apply := flag.Bool("apply", false, "Mark the planned gigs as selected")
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

	store := db.NewStore(pool)
	available, err := store.ListAvailable(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to list available gigs: %v", err)
	}

	planned, err := engine.SelectSchedule(available, *hours, time.Now().UTC(), engine.DefaultWeights())
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Score", "Title", "Platform", "Pay", "Minutes", "Due"})

	totalPay := 0.0
	totalMinutes := 0
	ids := make([]uuid.UUID, 0, len(planned))
	for _, g := range planned {
		t.AppendRow(table.Row{
			g.Score,
			g.Title,
			g.SourceID,
			fmt.Sprintf("$%.2f", g.TotalPay()),
			g.TotalMinutes(),
			g.DueDate.Format("Jan 2 15:04"),
		})
		totalPay += g.TotalPay()
		totalMinutes += g.TotalMinutes()
		ids = append(ids, g.ID)
	}
	t.AppendFooter(table.Row{"", "", "Total", fmt.Sprintf("$%.2f", totalPay), totalMinutes, ""})
	t.Render()

	if !*apply || len(ids) == 0 {
		return
	}
	selected, err := store.ApplySchedule(ctx, userID, ids)
	if err != nil {
		log.Fatalf("Apply failed: %v", err)
	}
	log.Printf("Selected %d of %d planned gigs", selected, len(ids))
}
