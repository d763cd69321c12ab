package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/textbin/textbin/config"
	"github.com/textbin/textbin/handlers"
	"github.com/textbin/textbin/services"
	"github.com/textbin/textbin/storage"
	"github.com/textbin/textbin/utils"

	// Lambda imports (only used when in Lambda mode)
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

// Version/build info (set via -ldflags at build time)
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "none"
)

// Lambda-specific variables
var (
	ginLambdaV1   *ginadapter.GinLambda
	ginLambdaV2   *ginadapter.GinLambdaV2
	ginLambdaOnce sync.Once
)

// isLambdaEnvironment detects if running in AWS Lambda
func isLambdaEnvironment() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func main() {
	log.Printf("TEXTBIN Version: %s", Version)
	log.Printf("Build Time:     %s", BuildTime)
	log.Printf("Commit Hash:    %s", CommitHash)

	cfg := config.LoadConfig()
	cfg.Version = Version
	cfg.BuildTime = BuildTime
	cfg.CommitHash = CommitHash

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if utils.IsDebugEnabled() {
		log.Printf("[DEBUG] Loaded config: %+v", cfg)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	router := setupRouter(store, cfg)

	if isLambdaEnvironment() {
		log.Println("Starting in AWS Lambda mode")
		ginLambdaOnce.Do(func() {
			ginLambdaV1 = ginadapter.New(router)
			ginLambdaV2 = ginadapter.NewV2(router)
		})
		lambda.Start(lambdaHandler)
		return
	}

	log.Println("Starting in HTTP server mode")
	runHTTPServer(router, cfg, store)
}

// openStore selects the storage backend. Lambda deployments always use
// DynamoDB; server mode follows the configured backend.
func openStore(cfg *config.Config) (storage.PasteStore, error) {
	if isLambdaEnvironment() {
		log.Printf("Lambda mode: Using DynamoDB storage (table %s)", cfg.DynamoTable)
		return storage.NewDynamoStore(cfg.DynamoTable, cfg.AWSRegion)
	}

	switch cfg.StorageType {
	case "mongo":
		log.Printf("Using MongoDB storage at %s", cfg.MongoURL)
		return storage.NewMongoStore(cfg.MongoURL, cfg.MongoDatabase)
	case "dynamo":
		log.Printf("Using DynamoDB storage (table %s)", cfg.DynamoTable)
		return storage.NewDynamoStore(cfg.DynamoTable, cfg.AWSRegion)
	case "memory":
		log.Println("Using in-memory storage (data is not persisted)")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageType)
	}
}

// setupRouter creates and configures the Gin router
func setupRouter(store storage.PasteStore, cfg *config.Config) *gin.Engine {
	pasteService := services.NewPasteService(store, cfg)

	pasteHandler := handlers.NewPasteHandler(pasteService)
	systemHandler := handlers.NewSystemHandler()

	apiLimiter := handlers.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	createLimiter := handlers.NewRateLimiter(cfg.CreateLimitMax, cfg.CreateLimitWindow)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(handlers.JSONRecovery())
	router.Use(gin.Recovery())

	api := router.Group("/api/v1/pastes")
	api.Use(handlers.RateLimit(apiLimiter, cfg.TrustProxy))
	{
		api.POST("", handlers.RateLimit(createLimiter, cfg.TrustProxy), pasteHandler.Create)
		api.GET("/stats", pasteHandler.Stats)
		api.POST("/cleanup", pasteHandler.Cleanup)
		api.GET("/:id", pasteHandler.Get)
		api.GET("/:id/meta", pasteHandler.GetMeta)
		api.DELETE("/:id", pasteHandler.Delete)
	}

	router.GET("/health", systemHandler.Health)
	router.GET("/metrics", handlers.Metrics())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})

	return router
}

// lambdaHandler handles Lambda requests for both v1 and v2 API Gateway
// event formats
func lambdaHandler(ctx context.Context, event interface{}) (interface{}, error) {
	ginLambdaOnce.Do(func() {
		if ginLambdaV1 == nil || ginLambdaV2 == nil {
			log.Fatal("Lambda adapters are not initialized")
		}
	})

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       "Failed to process event",
			Headers:    map[string]string{"Content-Type": "text/plain"},
		}, err
	}

	// Lambda Function URLs and HTTP APIs deliver v2 events
	var reqV2 events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(eventBytes, &reqV2); err == nil && reqV2.RequestContext.HTTP.Method != "" {
		return ginLambdaV2.ProxyWithContext(ctx, reqV2)
	}

	// REST APIs and ALBs deliver v1 events
	var reqV1 events.APIGatewayProxyRequest
	if err := json.Unmarshal(eventBytes, &reqV1); err == nil && reqV1.HTTPMethod != "" {
		return ginLambdaV1.ProxyWithContext(ctx, reqV1)
	}

	log.Printf("Unable to parse event as APIGateway v1 or v2 format: %s", string(eventBytes))
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 500,
		Body:       "Unsupported event type - this function expects API Gateway or Lambda Function URL events",
		Headers:    map[string]string{"Content-Type": "text/plain"},
	}, fmt.Errorf("unsupported event type: %T", event)
}

// runHTTPServer starts the HTTP server for container mode
func runHTTPServer(router *gin.Engine, cfg *config.Config, store storage.PasteStore) {
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting textbin server on port %d", cfg.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server shutdown complete")
	}
}
