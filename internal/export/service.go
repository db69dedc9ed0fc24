package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
)

// Service produces XLSX bytes for earnings exports.
type Service struct {
	store *db.Store
	log   zerolog.Logger
}

func NewService(store *db.Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log.With().Str("component", "export").Logger()}
}

// EarningsXLSX builds a workbook with one row per completed gig in the
// window plus a summary sheet of window totals.
func (s *Service) EarningsXLSX(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]byte, error) {
	began := time.Now()

	completed, err := s.store.ListCompletedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query completed gigs: %w", err)
	}
	entries, err := s.store.ListEntriesBetween(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}

	summary, err := engine.AggregateEarnings(completed, entries, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const gigSheet = "Completed Gigs"
	if err := f.SetSheetName("Sheet1", gigSheet); err != nil {
		return nil, err
	}

	headers := []string{
		"Completed",
		"Platform",
		"Title",
		"Pay",
		"Tip",
		"Bonus",
		"Total",
		"Minutes Worked",
		"Travel Miles",
		"Score",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(gigSheet, cell, h)
	}

	row := 2
	for _, g := range completed {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(gigSheet, cell, v)
		}

		if g.CompletedAt != nil {
			write(1, g.CompletedAt.Format("2006-01-02 15:04"))
		} else {
			write(1, "")
		}
		write(2, g.SourceID)
		write(3, g.Title)
		write(4, g.PayBase)
		write(5, g.TipExpected)
		write(6, g.PayBonus)
		write(7, g.TotalPay())
		write(8, g.TotalMinutes())
		write(9, g.TravelMiles())
		write(10, g.Score)
		row++
	}

	if err := s.writeSummarySheet(f, summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Int("gigs", len(completed)).
		Dur("took", time.Since(began)).
		Msg("earnings export built")

	return buf.Bytes(), nil
}

func (s *Service) writeSummarySheet(f *excelize.File, summary engine.Summary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][2]any{
		{"Window Start", summary.Start.Format("2006-01-02")},
		{"Window End", summary.End.Format("2006-01-02")},
		{"Total Earnings", summary.TotalEarnings},
		{"Total Expenses", summary.TotalExpenses},
		{"Net Income", summary.NetIncome},
		{"Hours Worked", summary.TotalHoursWorked},
		{"Miles Driven", summary.TotalMiles},
		{"Average Hourly Rate", summary.AverageHourlyRate},
		{"Earnings Per Mile", summary.EarningsPerMile},
		{"Daily Average", summary.DailyAverage},
		{"Completed Gigs", summary.CompletedCount},
	}
	for i, r := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(sheet, keyCell, r[0])
		_ = f.SetCellValue(sheet, valCell, r[1])
	}

	base := len(rows) + 2
	head, _ := excelize.CoordinatesToCellName(1, base)
	_ = f.SetCellValue(sheet, head, "Top Platforms")
	for i, p := range summary.TopPlatforms {
		nameCell, _ := excelize.CoordinatesToCellName(1, base+1+i)
		earnedCell, _ := excelize.CoordinatesToCellName(2, base+1+i)
		_ = f.SetCellValue(sheet, nameCell, p.SourceID)
		_ = f.SetCellValue(sheet, earnedCell, p.Earnings)
	}
	return nil
}
