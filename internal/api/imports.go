package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/davidm/sidework/internal/auth"
)

// handleImportEmail ingests a forwarded platform notification email. The
// request body is the raw HTML.
func (s *Server) handleImportEmail(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	cfg, err := s.Registry.Find(c.Param("source"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	if cfg.Kind != "email" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "source is not an email source"})
	}

	stats, err := s.Pipeline.ImportEmail(c.Request().Context(), userID, cfg, c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

// handleImportCSV ingests a gig export file. The request body is the CSV;
// the source query param labels where it came from.
func (s *Server) handleImportCSV(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	sourceID := c.QueryParam("source")
	if sourceID == "" {
		sourceID = "csv"
	}

	stats, err := s.Pipeline.ImportCSV(c.Request().Context(), userID, sourceID, c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleImportBoard(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	cfg, err := s.Registry.Find(c.Param("source"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	if cfg.Kind != "board" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "source is not a board source"})
	}

	stats, err := s.Pipeline.ImportBoard(c.Request().Context(), userID, cfg)
	if err != nil {
		s.log.Error().Err(err).Str("source", cfg.ID).Msg("board import failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

// handleCancelNotification expires the gig carrying a source notification
// id, for platforms that send cancellation notices.
func (s *Server) handleCancelNotification(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req struct {
		DedupID string `json:"dedup_id"`
	}
	if err := c.Bind(&req); err != nil || req.DedupID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "dedup_id is required"})
	}

	expired, err := s.Pipeline.Cancel(c.Request().Context(), userID, req.DedupID)
	if err != nil {
		s.log.Error().Err(err).Msg("cancel failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if !expired {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no active gig with that id"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListImportRuns(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	runs, err := s.Store.ListImportRuns(c.Request().Context(), userID, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list import runs failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, runs)
}
