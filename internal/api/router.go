package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Hrick-08/BeatCode/internal/api/handlers"
	"github.com/Hrick-08/BeatCode/internal/api/middleware"
	"github.com/Hrick-08/BeatCode/internal/config"
	"github.com/Hrick-08/BeatCode/internal/repository"
	"github.com/Hrick-08/BeatCode/internal/service"
	"github.com/Hrick-08/BeatCode/internal/websocket"
	"github.com/Hrick-08/BeatCode/pkg/database"
	"github.com/Hrick-08/BeatCode/pkg/judge"
	"github.com/Hrick-08/BeatCode/pkg/logger"
	"github.com/Hrick-08/BeatCode/pkg/ratelimit"
)

// SetupRouter wires repositories, services and handlers into the HTTP API.
// The returned cleanup stops the background workers the router started.
func SetupRouter(cfg *config.Config, db *database.DB) (*gin.Engine, func()) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	// WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Judge client
	judgeClient := judge.NewClient(cfg.JudgeURL, cfg.JudgeTimeout)

	// Services
	userService := service.NewUserService(userRepo)
	problemService := service.NewProblemService(problemRepo)
	matchService := service.NewMatchService(matchRepo)
	ratingService := service.NewRatingService(userRepo)
	submissionService := service.NewSubmissionService(submissionRepo, matchService, ratingService, judgeClient, wsHub)

	matchmakingService := service.NewMatchmakingService(matchService, problemService, wsHub, cfg.QueueMaxWait)
	matchmakingService.Start()
	logger.Info("Matchmaking service started", "maxWait", cfg.QueueMaxWait)

	// Rate limiting is distributed when Redis is configured, in-process
	// otherwise.
	authLimit := middleware.AuthRateLimit()
	submitLimit := middleware.SubmissionRateLimit()
	queueLimit := middleware.QueueRateLimit()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid Redis URL", "error", err)
		}
		redisClient = redis.NewClient(opts)

		limiter := ratelimit.NewRedisLimiter(redisClient, "beatcode:ratelimit")
		authLimit = middleware.RedisAuthRateLimit(limiter)
		submitLimit = middleware.RedisSubmissionRateLimit(limiter)
		queueLimit = middleware.RedisQueueRateLimit(limiter)
		logger.Info("Using Redis rate limiter")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	matchmakingHandler := handlers.NewMatchmakingHandler(matchmakingService)
	matchHandler := handlers.NewMatchHandler(matchService, problemService, userService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	leaderboardHandler := handlers.NewLeaderboardHandler(userService)
	problemHandler := handlers.NewProblemHandler(problemService)
	wsHandler := handlers.NewWebSocketHandler(wsHub)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/ws", middleware.Auth(cfg), wsHandler.HandleWebSocket)

		auth := v1.Group("/auth")
		auth.Use(authLimit)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		users := v1.Group("/users")
		users.Use(middleware.Auth(cfg))
		{
			users.GET("/me", userHandler.GetCurrentUser)
			users.PUT("/me", userHandler.UpdateCurrentUser)
			users.GET("/:id", userHandler.GetUser)
		}

		matchmaking := v1.Group("/matchmaking")
		matchmaking.Use(middleware.Auth(cfg))
		{
			matchmaking.POST("/join", queueLimit, matchmakingHandler.Join)
			matchmaking.DELETE("/leave", matchmakingHandler.Leave)
			matchmaking.GET("/status", matchmakingHandler.Status)
		}

		matches := v1.Group("/matches")
		matches.Use(middleware.Auth(cfg))
		{
			matches.GET("", matchHandler.History)
			matches.GET("/active", matchHandler.GetActive)
			matches.GET("/:id", matchHandler.GetMatch)
			matches.POST("/:id/result", submissionHandler.ReportResult)
		}

		submissions := v1.Group("/submissions")
		submissions.Use(middleware.Auth(cfg))
		{
			submissions.POST("", submitLimit, submissionHandler.Submit)
			submissions.GET("/match/:id", submissionHandler.ListByMatch)
		}

		problems := v1.Group("/problems")
		problems.Use(middleware.Auth(cfg))
		{
			problems.GET("/:id", problemHandler.GetProblem)
		}

		v1.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	}

	cleanup := func() {
		matchmakingService.Stop()
		if redisClient != nil {
			redisClient.Close()
		}
	}

	return router, cleanup
}
