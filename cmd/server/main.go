package main

import (
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"

	"github.com/davidmorenoc/taskboard-api/internal/config"
	"github.com/davidmorenoc/taskboard-api/internal/database"
	"github.com/davidmorenoc/taskboard-api/internal/handlers"
	"github.com/davidmorenoc/taskboard-api/internal/logging"
	"github.com/davidmorenoc/taskboard-api/internal/middleware"
	"github.com/davidmorenoc/taskboard-api/internal/realtime"
	"github.com/davidmorenoc/taskboard-api/internal/repository"
	"github.com/davidmorenoc/taskboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Init(cfg.LogFile)
	log := logging.Logger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to NATS for the realtime change feed. Without a configured
	// endpoint the server still works, viewers just don't get live updates.
	var publisher realtime.Publisher = realtime.NopPublisher{}
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(5),
			nats.ReconnectWait(1*time.Second),
		)
		if err != nil {
			log.Fatalf("Failed to connect to NATS at %s: %v", cfg.NATSURL, err)
		}
		defer nc.Close()
		publisher = realtime.NewNATSPublisher(nc, log)
		log.WithField("url", cfg.NATSURL).Info("Connected to NATS")
	} else {
		log.Warn("NATS_URL not set, realtime change feed disabled")
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions("taskboard_session", store))

	// Initialize repositories and services
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := services.NewAuthService(profileRepo)
	taskService := services.NewTaskService(taskRepo, teamRepo, publisher)
	teamService := services.NewTeamService(teamRepo, profileRepo)
	commentService := services.NewCommentService(commentRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	teamHandler := handlers.NewTeamHandler(teamService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes
		task := api.Group("/task")
		{
			task.GET("", middleware.RequireAuth(), taskHandler.ListTasks)
			task.POST("", middleware.RequireAuth(), taskHandler.CreateTask)
			task.PATCH("/:id", middleware.RequireAuth(), middleware.RequireTaskAccess(), taskHandler.UpdateTaskState)
			task.POST("/:id/assign", middleware.RequireAuth(), taskHandler.AssignUser)
			task.DELETE("/:id/assign", middleware.RequireAuth(), taskHandler.UnassignUser)
			// Comment listing is public, posting requires a session
			task.GET("/:id/comments", commentHandler.ListComments)
			task.POST("/:id/comments", middleware.RequireAuth(), commentHandler.CreateComment)
		}

		// Team routes (protected)
		team := api.Group("/team")
		team.Use(middleware.RequireAuth())
		{
			team.POST("", teamHandler.CreateTeam)
			team.GET("/:teamId/members", middleware.RequireTeamAccess(), teamHandler.ListMembers)
			team.POST("/:teamId/members", middleware.RequireTeamAccess(), teamHandler.AddMember)
		}
	}

	// Start server
	log.Infof("Server starting on :%s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
