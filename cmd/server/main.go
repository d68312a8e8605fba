package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/analysis"
	"video-forge-backend/internal/chat"
	"video-forge-backend/internal/config"
	"video-forge-backend/internal/database"
	"video-forge-backend/internal/generation"
	"video-forge-backend/internal/handlers"
	"video-forge-backend/internal/llm"
	"video-forge-backend/internal/middleware"
	"video-forge-backend/internal/probe"
	"video-forge-backend/internal/realtime"
	"video-forge-backend/internal/storage"
	"video-forge-backend/internal/store"
)

// storageProber resolves stored sample paths to their public URLs before
// probing; ffprobe reads HTTP inputs directly.
type storageProber struct {
	prober  *probe.Prober
	storage *storage.Client
}

func (p storageProber) Probe(path string) probe.Metadata {
	return p.prober.Probe(p.storage.GetPublicURL(path))
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Failed to initialize migrator: %v", err)
	} else {
		if err := migrator.Run(); err != nil {
			log.Printf("Warning: Migration failed: %v", err)
		} else {
			log.Println("Migrations completed successfully")
		}
		migrator.Close()
	}

	// Project and user store
	projectStore, err := store.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer projectStore.Close()

	// Supabase storage and realtime
	if cfg.SupabaseURL == "" {
		log.Println("Warning: SUPABASE_URL not set. Uploads and realtime events will fail.")
	}
	storageClient, err := storage.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}
	publisher, err := realtime.NewPublisher(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.Fatalf("Failed to initialize realtime publisher: %v", err)
	}

	// Text generation client (Groq)
	llmClient := llm.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)

	// Video generation backends
	if cfg.RunwayAPIKey == "" {
		log.Println("Warning: RUNWAYML_API_KEY not set. Video generation will fail.")
	}
	registry := generation.NewRegistry()
	registry.Register(generation.NewRunwayBackend(generation.ModelRunwayGen4, cfg.RunwayBaseURL, cfg.RunwayAPIKey))
	registry.Register(generation.NewRunwayBackend(generation.ModelRunwayGen3, cfg.RunwayBaseURL, cfg.RunwayAPIKey))
	registry.RegisterWithFallback(generation.NewVeoBackend(generation.ModelVeo2, cfg.VeoBaseURL, cfg.VeoAPIKey), generation.ModelRunwayGen4)
	registry.RegisterWithFallback(generation.NewVeoBackend(generation.ModelVeo3, cfg.VeoBaseURL, cfg.VeoAPIKey), generation.ModelRunwayGen4)

	// Services
	prober := storageProber{prober: probe.New(), storage: storageClient}
	analyzer := analysis.NewService(projectStore, llmClient, prober, publisher)
	chatService := chat.NewService(projectStore, llmClient)
	orchestrator := generation.NewOrchestrator(projectStore, registry, publisher, cfg.PollInterval, cfg.PollMaxAttempts)

	// Handlers
	authHandler := handlers.NewAuthHandler(projectStore, cfg.JWTSecret)
	projectsHandler := handlers.NewProjectsHandler(projectStore, storageClient)
	uploadHandler := handlers.NewUploadHandler(projectStore, storageClient)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzer)
	chatHandler := handlers.NewChatHandler(chatService)
	generateHandler := handlers.NewGenerateHandler(orchestrator)
	statusHandler := handlers.NewStatusHandler(projectStore)
	downloadHandler := handlers.NewDownloadHandler(projectStore)

	// Setup router
	router := gin.Default()

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no auth)
	router.POST("/api/v1/auth/register", authHandler.Register)
	router.POST("/api/v1/auth/login", authHandler.Login)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Project routes
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)

	// Uploads
	api.POST("/projects/:project_id/upload-sample", uploadHandler.UploadSampleVideo)
	api.POST("/projects/:project_id/upload-character", uploadHandler.UploadCharacterImage)
	api.POST("/projects/:project_id/upload-audio", uploadHandler.UploadAudio)

	// Pipeline
	api.POST("/projects/:project_id/analyze", analyzeHandler.Analyze)
	api.POST("/projects/:project_id/chat", chatHandler.Chat)
	api.POST("/projects/:project_id/generate", generateHandler.Generate)

	// Status and download
	api.GET("/projects/:project_id/status", statusHandler.GetStatus)
	api.GET("/projects/:project_id/download", downloadHandler.Download)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
