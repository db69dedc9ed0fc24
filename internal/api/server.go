package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/davidm/sidework/internal/auth"
	"github.com/davidm/sidework/internal/config"
	"github.com/davidm/sidework/internal/db"
	"github.com/davidm/sidework/internal/engine"
	"github.com/davidm/sidework/internal/export"
	"github.com/davidm/sidework/internal/ingest"
	"github.com/davidm/sidework/internal/travel"
)

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	Pipeline    *ingest.Pipeline
	Export      *export.Service
	Registry    *ingest.Registry

	weights       engine.Weights
	defaultBudget float64
	log           zerolog.Logger
}

func NewServer(pool *pgxpool.Pool, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	store := db.NewStore(pool)
	authService := auth.NewService(pool)

	registry, err := ingest.LoadRegistry("internal/ingest/config/sources.yaml")
	if err != nil {
		return nil, err
	}

	weights := engine.DefaultWeights()
	weights.MileageRate = cfg.MileageRate
	weights.SaturationHourly = cfg.SaturationRate

	var provider travel.Provider = travel.NewHaversineEstimator()
	if cfg.OSRMURL != "" {
		provider = travel.NewOSRMProvider(cfg.OSRMURL)
	}
	var home *travel.Point
	if cfg.HomeLat != nil && cfg.HomeLon != nil {
		home = &travel.Point{Latitude: *cfg.HomeLat, Longitude: *cfg.HomeLon}
	}

	s := &Server{
		DB:            pool,
		Store:         store,
		AuthService:   authService,
		Echo:          e,
		Pipeline:      ingest.NewPipeline(store, provider, weights, home, log),
		Export:        export.NewService(store, log),
		Registry:      registry,
		weights:       weights,
		defaultBudget: cfg.DefaultHoursBudget,
		log:           log.With().Str("component", "api").Logger(),
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")

	// Auth Routes
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Everything else belongs to one user.
	user := api.Group("")
	user.Use(auth.Middleware)

	user.GET("/sources", s.handleListSources)

	user.GET("/gigs", s.handleListGigs)
	user.POST("/gigs", s.handleCreateGig)
	user.GET("/gigs/:id", s.handleGetGig)
	user.PATCH("/gigs/:id", s.handleUpdateGig)
	user.DELETE("/gigs/:id", s.handleDeleteGig)
	user.POST("/gigs/:id/complete", s.handleCompleteGig)
	user.POST("/gigs/:id/expire", s.handleExpireGig)

	user.GET("/schedule", s.handleGetSchedule)
	user.POST("/schedule/apply", s.handleApplySchedule)

	user.GET("/earnings", s.handleGetEarnings)
	user.GET("/earnings/projection", s.handleGetProjection)
	user.GET("/earnings/export", s.handleExportEarnings)

	user.GET("/ledger", s.handleListEntries)
	user.POST("/ledger", s.handleCreateEntry)
	user.PATCH("/ledger/:id/status", s.handleUpdateEntryStatus)

	user.POST("/import/email/:source", s.handleImportEmail)
	user.POST("/import/csv", s.handleImportCSV)
	user.POST("/import/board/:source", s.handleImportBoard)
	user.POST("/import/cancel", s.handleCancelNotification)
	user.GET("/import/runs", s.handleListImportRuns)
}

// Weights exposes the scoring weights the server was configured with, for
// background jobs that score outside a request.
func (s *Server) Weights() engine.Weights {
	return s.weights
}

// Start blocks serving HTTP on the given port.
func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListSources(c echo.Context) error {
	type sourceInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	out := make([]sourceInfo, 0, len(s.Registry.Sources))
	for _, src := range s.Registry.Sources {
		out = append(out, sourceInfo{ID: src.ID, Name: src.Name, Kind: src.Kind})
	}
	return c.JSON(http.StatusOK, out)
}
