package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/davidm/sidework/internal/auth"
	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
	"github.com/davidm/sidework/internal/models"
)

// earningsWindow reads start/end query params, defaulting to the last 7
// days ending now.
func earningsWindow(c echo.Context) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)

	if v := c.QueryParam("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return start, end, fmt.Errorf("invalid start: %w", err)
		}
		start = t.UTC()
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return start, end, fmt.Errorf("invalid end: %w", err)
		}
		end = t.UTC()
	}
	return start, end, nil
}

func (s *Server) summarize(c echo.Context, userID uuid.UUID, start, end time.Time) (engine.Summary, error) {
	ctx := c.Request().Context()

	completed, err := s.Store.ListCompletedBetween(ctx, userID, start, end)
	if err != nil {
		return engine.Summary{}, err
	}
	entries, err := s.Store.ListEntriesBetween(ctx, userID, start, end)
	if err != nil {
		return engine.Summary{}, err
	}
	return engine.AggregateEarnings(completed, entries, start, end)
}

func (s *Server) handleGetEarnings(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	start, end, err := earningsWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	summary, err := s.summarize(c, userID, start, end)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRange) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		s.log.Error().Err(err).Msg("earnings summary failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, summary)
}

// handleGetProjection compares the trailing week and month against lifetime
// history and extrapolates forward.
func (s *Server) handleGetProjection(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	now := time.Now().UTC()
	weekly, err := s.summarize(c, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		s.log.Error().Err(err).Msg("weekly summary failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	monthly, err := s.summarize(c, userID, now.AddDate(0, -1, 0), now)
	if err != nil {
		s.log.Error().Err(err).Msg("monthly summary failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	lifetime, err := s.Store.CountCompleted(c.Request().Context(), userID)
	if err != nil {
		s.log.Error().Err(err).Msg("lifetime count failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, engine.Project(weekly, monthly, lifetime))
}

func (s *Server) handleExportEarnings(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	start, end, err := earningsWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	data, err := s.Export.EarningsXLSX(c.Request().Context(), userID, start, end)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRange) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		s.log.Error().Err(err).Msg("earnings export failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	filename := fmt.Sprintf("earnings_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleListEntries(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	start, end, err := earningsWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	entries, err := s.Store.ListEntriesBetween(c.Request().Context(), userID, start, end)
	if err != nil {
		s.log.Error().Err(err).Msg("list entries failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var e models.LedgerEntry
	if err := c.Bind(&e); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	e.UserID = userID
	if err := e.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := s.Store.CreateEntry(c.Request().Context(), &e); err != nil {
		s.log.Error().Err(err).Msg("create entry failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, e)
}

func (s *Server) handleUpdateEntryStatus(c echo.Context) error {
	userID, id, err := gigID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status models.EntryStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if !models.ValidEntryStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status"})
	}

	entry, err := s.Store.UpdateEntryStatus(c.Request().Context(), userID, id, req.Status)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		s.log.Error().Err(err).Msg("update entry status failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, entry)
}
