// Package server wires the HTTP router, middleware and handlers.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bricesuazo/eboto-api/internal/auth"
	"github.com/bricesuazo/eboto-api/internal/config"
	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/handlers"
	"github.com/bricesuazo/eboto-api/internal/logger"
	"github.com/bricesuazo/eboto-api/internal/middleware"
	"github.com/bricesuazo/eboto-api/internal/services"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	repos      postgres.RepositoryContainer
}

// New creates a new server instance
func New(cfg *config.Config, repos postgres.RepositoryContainer) *Server {
	return &Server{
		config: cfg,
		repos:  repos,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	router.Use(middleware.RequestLog())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	tokens := auth.NewTokenManager(s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)

	accountService := services.NewAccountService(s.repos.Accounts(), tokens)
	electionService := services.NewElectionService(s.repos)
	rosterService := services.NewRosterService(s.repos)
	ballotService := ballot.NewService(
		s.repos.Elections(),
		s.repos.Positions(),
		s.repos.Candidates(),
		s.repos.Voters(),
		s.repos.Votes(),
	)

	accountHandler := handlers.NewAccountHandler(accountService)
	electionHandler := handlers.NewElectionHandler(electionService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	ballotHandler := handlers.NewBallotHandler(ballotService)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		if err := s.repos.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "eBoto API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, tokens, accountHandler, electionHandler, rosterHandler, ballotHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	tokens *auth.TokenManager,
	accountHandler *handlers.AccountHandler,
	electionHandler *handlers.ElectionHandler,
	rosterHandler *handlers.RosterHandler,
	ballotHandler *handlers.BallotHandler,
) {
	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", accountHandler.Register)
			authRoutes.POST("/login", accountHandler.Login)
			authRoutes.GET("/me", middleware.RequireAuth(tokens), accountHandler.Me)
		}

		// Publicity-dependent reads allow anonymous viewers; the policy
		// decides per election
		public := api.Group("/e", middleware.OptionalAuth(tokens))
		{
			public.GET("/:slug", electionHandler.GetBySlug)
			public.GET("/:slug/ballot", electionHandler.GetBallot)
			public.GET("/:slug/candidates/:candidate_slug", electionHandler.GetCandidate)
		}

		elections := api.Group("/elections", middleware.RequireAuth(tokens))
		{
			elections.GET("", electionHandler.GetMine)
			elections.POST("", electionHandler.Create)
			elections.PATCH("/:election_id", electionHandler.Update)
			elections.DELETE("/:election_id", electionHandler.Delete)

			elections.POST("/:election_id/positions", electionHandler.CreatePosition)
			elections.POST("/:election_id/partylists", electionHandler.CreatePartylist)
			elections.POST("/:election_id/candidates", electionHandler.CreateCandidate)

			elections.GET("/:election_id/voters", rosterHandler.GetRoster)
			elections.POST("/:election_id/voters", rosterHandler.AddVoter)
			elections.DELETE("/:election_id/voters/:voter_id", rosterHandler.RemoveVoter)
			elections.POST("/:election_id/invites", rosterHandler.Invite)
			elections.POST("/:election_id/invites/:invite_id/send", rosterHandler.MarkInviteSent)
			elections.POST("/:election_id/invites/:invite_id/respond", rosterHandler.RespondToInvite)

			elections.POST("/:election_id/votes", ballotHandler.CastVote)
			elections.GET("/:election_id/votes/status", ballotHandler.VotingStatus)
			elections.GET("/:election_id/tally", ballotHandler.GetTally)
		}
	}
}
