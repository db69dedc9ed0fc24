package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/davidm/sidework/internal/auth"
	"github.com/davidm/sidework/internal/engine"
	"github.com/davidm/sidework/internal/models"
)

type scheduleResponse struct {
	Gigs         []models.Gig `json:"gigs"`
	HoursBudget  float64      `json:"hours_budget"`
	PlannedHours float64      `json:"planned_hours"`
	PlannedPay   float64      `json:"planned_pay"`
}

// handleGetSchedule proposes a set of available gigs that fits the hours
// budget. Nothing is persisted; the client applies the plan separately.
func (s *Server) handleGetSchedule(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	hours := s.defaultBudget
	if v := c.QueryParam("hours"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid hours"})
		}
		hours = h
	}

	available, err := s.Store.ListAvailable(c.Request().Context(), userID)
	if err != nil {
		s.log.Error().Err(err).Msg("list available failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	planned, err := engine.SelectSchedule(available, hours, time.Now().UTC(), s.weights)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidBudget) || errors.Is(err, engine.ErrInvalidRecord) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	resp := scheduleResponse{Gigs: planned, HoursBudget: hours}
	if resp.Gigs == nil {
		resp.Gigs = []models.Gig{}
	}
	for _, g := range planned {
		resp.PlannedHours += float64(g.TotalMinutes()) / 60
		resp.PlannedPay += g.TotalPay()
	}

	return c.JSON(http.StatusOK, resp)
}

type applyScheduleRequest struct {
	GigIDs []uuid.UUID `json:"gig_ids"`
}

// handleApplySchedule marks the given available gigs as selected in one
// batch. Gigs that changed state since planning are skipped, not failed.
func (s *Server) handleApplySchedule(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req applyScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if len(req.GigIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "gig_ids is required"})
	}

	selected, err := s.Store.ApplySchedule(c.Request().Context(), userID, req.GigIDs)
	if err != nil {
		s.log.Error().Err(err).Msg("apply schedule failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]int{
		"requested": len(req.GigIDs),
		"selected":  selected,
	})
}
