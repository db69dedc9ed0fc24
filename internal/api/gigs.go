package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/davidm/sidework/internal/auth"
	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
	"github.com/davidm/sidework/internal/models"
)

func (s *Server) handleListGigs(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	params := db.ListParams{
		Status:   c.QueryParam("status"),
		SourceID: c.QueryParam("source"),
		Query:    c.QueryParam("q"),
		SortBy:   c.QueryParam("sort"),
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 {
		params.Limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		params.Offset = o
	}
	if v := c.QueryParam("due_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid due_before"})
		}
		params.DueBefore = &t
	}
	if v := c.QueryParam("due_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid due_after"})
		}
		params.DueAfter = &t
	}

	result, err := s.Store.ListGigs(c.Request().Context(), userID, params)
	if err != nil {
		s.log.Error().Err(err).Msg("list gigs failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCreateGig(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var g models.Gig
	if err := c.Bind(&g); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	g.UserID = userID
	if g.SourceID == "" {
		g.SourceID = "manual"
	}
	if err := g.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := engine.Score(g, time.Now().UTC(), s.weights)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	g.Score = result.Score
	g.Priority = result.Priority

	if err := s.Store.CreateGig(c.Request().Context(), &g); err != nil {
		s.log.Error().Err(err).Msg("create gig failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, g)
}

func (s *Server) handleGetGig(c echo.Context) error {
	userID, id, err := gigID(c)
	if err != nil {
		return err
	}

	g, err := s.Store.GetGig(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleUpdateGig(c echo.Context) error {
	userID, id, err := gigID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	g, err := s.Store.GetGig(ctx, userID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	if err := c.Bind(g); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	g.ID = id
	g.UserID = userID
	if err := g.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// Economics may have changed, so the stored score follows.
	result, err := engine.Score(*g, time.Now().UTC(), s.weights)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	g.Score = result.Score
	g.Priority = result.Priority

	if err := s.Store.UpdateGig(ctx, g); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		s.log.Error().Err(err).Msg("update gig failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleDeleteGig(c echo.Context) error {
	userID, id, err := gigID(c)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteGig(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCompleteGig(c echo.Context) error {
	return s.transitionGig(c, models.StatusCompleted)
}

func (s *Server) handleExpireGig(c echo.Context) error {
	return s.transitionGig(c, models.StatusExpired)
}

func (s *Server) transitionGig(c echo.Context, to models.Status) error {
	userID, id, err := gigID(c)
	if err != nil {
		return err
	}

	g, err := s.Store.UpdateStatus(c.Request().Context(), userID, id, to)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		case errors.Is(err, db.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			s.log.Error().Err(err).Str("to", string(to)).Msg("status transition failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
	}
	return c.JSON(http.StatusOK, g)
}

// gigID resolves the authenticated user and the :id path parameter,
// answering with an HTTP error when either is missing.
func gigID(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return userID, id, nil
}
