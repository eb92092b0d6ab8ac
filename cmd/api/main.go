package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carebridge/portal/backend/internal/adapters/blob"
	"github.com/carebridge/portal/backend/internal/adapters/cache"
	"github.com/carebridge/portal/backend/internal/adapters/database"
	"github.com/carebridge/portal/backend/internal/adapters/events"
	"github.com/carebridge/portal/backend/internal/adapters/search"
	"github.com/carebridge/portal/backend/internal/api/handlers"
	"github.com/carebridge/portal/backend/internal/api/middleware"
	"github.com/carebridge/portal/backend/internal/api/routes"
	"github.com/carebridge/portal/backend/internal/application/services"
	"github.com/carebridge/portal/backend/internal/application/triage"
	"github.com/carebridge/portal/backend/internal/domain/providers"
	"github.com/carebridge/portal/backend/internal/domain/repositories"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/postgres"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/redis"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/typesense"
	"github.com/carebridge/portal/backend/internal/infrastructure/notifications"
	"github.com/carebridge/portal/backend/internal/infrastructure/observability"
	"github.com/carebridge/portal/backend/migrations"
	"github.com/carebridge/portal/backend/pkg/config"
	"github.com/carebridge/portal/backend/pkg/secrets"
)

func main() {
	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pull secrets from Vault into the environment before reading config
	vaultResult, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv(""))
	if err != nil {
		log.Printf("Warning: Failed to load Vault secrets: %v", err)
	} else if vaultResult.Enabled {
		log.Printf("Loaded %d secrets from Vault (%d skipped)", vaultResult.Loaded, vaultResult.Skipped)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}
	observability.InitLogger(cfg.OTEL.ServiceName, env)

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client and run migrations
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	if err := pgClient.Migrate(ctx, migrations.Files); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("Database migrations applied")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application works without caching
		// and live updates
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters
	userAdapter := database.NewUserAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)
	documentAdapter := database.NewDocumentAdapter(pgClient)
	medicalRecordAdapter := database.NewMedicalRecordAdapter(pgClient)

	baseDoctorAdapter := database.NewDoctorAdapter(pgClient)
	var doctorAdapter repositories.DoctorRepository
	if cacheProvider != nil {
		doctorAdapter = database.NewCachedDoctorAdapter(baseDoctorAdapter, cacheProvider)
		log.Println("Doctor adapter wrapped with caching layer")
	} else {
		doctorAdapter = baseDoctorAdapter
		log.Println("Doctor adapter running without cache (Redis unavailable)")
	}

	var searchRepo repositories.DoctorSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	blobStore, err := blob.NewFilesystemStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	// Initialize cache invalidation service
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Printf("Warning: Failed to start cache invalidation service: %v", err)
		} else {
			log.Println("Cache invalidation service started successfully")
		}
	}

	// Initialize appointment notifications
	var notificationService *services.NotificationService
	if cfg.WhatsApp.Enabled() && eventBus != nil {
		sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
		if err != nil {
			log.Printf("Warning: Failed to initialize WhatsApp sender: %v", err)
		} else {
			notificationService = services.NewNotificationService(userAdapter, sender, eventBus)
			if err := notificationService.Start(); err != nil {
				log.Printf("Warning: Failed to start notification service: %v", err)
				notificationService = nil
			} else {
				log.Println("Appointment notification service started")
			}
		}
	}

	// Initialize services
	authService := services.NewAuthService(userAdapter, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := services.NewUserService(userAdapter)
	doctorService := services.NewDoctorService(doctorAdapter, searchRepo)
	appointmentService := services.NewAppointmentService(appointmentAdapter, doctorAdapter, eventBus)
	documentService := services.NewDocumentService(documentAdapter, blobStore)
	medicalRecordService := services.NewMedicalRecordService(medicalRecordAdapter)

	triageEngine, err := triage.NewEngine()
	if err != nil {
		log.Fatalf("Failed to load triage knowledge base: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(medicalRecordService)
	triageHandler := handlers.NewTriageHandler(triageEngine)
	sseHandler := handlers.NewSSEHandler(eventBus)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		authHandler,
		userHandler,
		doctorHandler,
		appointmentHandler,
		documentHandler,
		medicalRecordHandler,
		triageHandler,
		sseHandler,
		authService,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server. WriteTimeout stays unset; SSE connections are
	// long-lived and a write deadline would sever them.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	// Stop cache invalidation service
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	// Stop appointment notifications
	if notificationService != nil {
		notificationService.Stop()
	}

	log.Println("Server stopped")
}
