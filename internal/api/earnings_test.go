package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowContext(t *testing.T, query string) echo.Context {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/earnings?"+query, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

func TestEarningsWindowDefaultsToTrailingWeek(t *testing.T) {
	start, end, err := earningsWindow(windowContext(t, ""))
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().UTC(), end, time.Minute)
	assert.WithinDuration(t, end.AddDate(0, 0, -7), start, time.Second)
}

func TestEarningsWindowExplicitBounds(t *testing.T) {
	start, end, err := earningsWindow(windowContext(t,
		"start=2026-07-01T00:00:00Z&end=2026-07-14T23:59:59Z"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 7, 14, 23, 59, 59, 0, time.UTC), end)
}

func TestEarningsWindowRejectsBadTimestamps(t *testing.T) {
	_, _, err := earningsWindow(windowContext(t, "start=last-tuesday"))
	assert.Error(t, err)

	_, _, err = earningsWindow(windowContext(t, "end=2026-07-14"))
	assert.Error(t, err)
}
