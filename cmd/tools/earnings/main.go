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
	userFlag := flag.String("user", "", "User ID to summarize")
	days := flag.Int("days", 7, "Window length in days, ending now")
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
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -*days)

	completed, err := store.ListCompletedBetween(ctx, userID, start, end)
	if err != nil {
		log.Fatalf("Failed to list completed gigs: %v", err)
	}
	entries, err := store.ListEntriesBetween(ctx, userID, start, end)
	if err != nil {
		log.Fatalf("Failed to list ledger entries: %v", err)
	}

	summary, err := engine.AggregateEarnings(completed, entries, start, end)
	if err != nil {
		log.Fatalf("Aggregation failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Window", fmt.Sprintf("%s to %s", start.Format("Jan 2"), end.Format("Jan 2"))},
		{"Completed Gigs", summary.CompletedCount},
		{"Total Earnings", fmt.Sprintf("$%.2f", summary.TotalEarnings)},
		{"Total Expenses", fmt.Sprintf("$%.2f", summary.TotalExpenses)},
		{"Net Income", fmt.Sprintf("$%.2f", summary.NetIncome)},
		{"Hours Worked", fmt.Sprintf("%.1f", summary.TotalHoursWorked)},
		{"Avg Hourly Rate", fmt.Sprintf("$%.2f", summary.AverageHourlyRate)},
		{"Earnings Per Mile", fmt.Sprintf("$%.2f", summary.EarningsPerMile)},
		{"Daily Average", fmt.Sprintf("$%.2f", summary.DailyAverage)},
		{"Weekly Projection", fmt.Sprintf("$%.2f", summary.WeeklyProjection)},
		{"Monthly Projection", fmt.Sprintf("$%.2f", summary.MonthlyProjection)},
	})
	t.Render()

	if len(summary.TopPlatforms) == 0 {
		return
	}
	p := table.NewWriter()
	p.SetOutputMirror(os.Stdout)
	p.AppendHeader(table.Row{"Platform", "Earnings", "Gigs"})
	for _, plat := range summary.TopPlatforms {
		p.AppendRow(table.Row{plat.SourceID, fmt.Sprintf("$%.2f", plat.Earnings), plat.Count})
	}
	p.Render()
}
