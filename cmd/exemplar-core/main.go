package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/exemplar-core/internal/adapters/driven/ai"
	"github.com/custodia-labs/exemplar-core/internal/adapters/driven/jsonfile"
	redisadapter "github.com/custodia-labs/exemplar-core/internal/adapters/driven/redis"
	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
	"github.com/custodia-labs/exemplar-core/internal/core/services"
	"github.com/custodia-labs/exemplar-core/internal/runtime"
	"github.com/custodia-labs/exemplar-core/internal/worker"
)

var version = "dev"

func main() {
	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("exemplar-core %s starting in %s mode", version, mode)

	// Configuration from environment
	rawPath := getEnv("RAW_DATA_PATH", "data/raw_posts.json")
	processedPath := getEnv("PROCESSED_DATA_PATH", "data/processed_posts.json")
	redisURL := getEnv("REDIS_URL", "")
	cacheTTL := time.Duration(getEnvInt("CACHE_TTL_SEC", 3600)) * time.Second
	resolveTimeout := time.Duration(getEnvInt("RESOLVE_TIMEOUT_SEC", 30)) * time.Second
	rebuildInterval := time.Duration(getEnvInt("REBUILD_INTERVAL_SEC", 0)) * time.Second

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Corpus stores =====
	rawStore := jsonfile.NewStore(rawPath)
	processedStore := jsonfile.NewStore(processedPath)

	// ===== Mapping cache (Redis if available) =====
	var mappingCache driven.MappingCache
	cacheBackend := "none"
	if redisClient != nil {
		mappingCache = redisadapter.NewMappingCache(redisClient)
		cacheBackend = "redis"
		log.Println("Using Redis mapping cache")
	}

	// Runtime configuration
	runtimeConfig := domain.NewRuntimeConfig(cacheBackend)
	runtimeServices := runtime.NewServices(runtimeConfig)
	defer runtimeServices.Close()

	// ===== LLM collaborator (optional) =====
	aiFactory := ai.NewFactory()
	llmSettings := &domain.LLMSettings{
		Provider:             domain.AIProvider(getEnv("AI_PROVIDER", "groq")),
		Model:                getEnv("AI_MODEL", ""),
		APIKey:               getEnv("AI_API_KEY", ""),
		BaseURL:              getEnv("AI_BASE_URL", ""),
		MaxRequestsPerMinute: getEnvInt("AI_MAX_REQUESTS_PER_MINUTE", 0),
	}
	llmService, err := aiFactory.CreateLLMService(llmSettings)
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}
	if llmService != nil {
		if err := runtimeServices.ValidateAndSetLLM(ctx, llmService); err != nil {
			log.Printf("Warning: LLM collaborator unreachable: %v (tags resolve to themselves)", err)
		} else {
			log.Printf("LLM collaborator ready (provider=%s model=%s)", llmSettings.Provider, llmService.Model())
		}
	} else {
		log.Println("No LLM collaborator configured, tags resolve to themselves")
	}

	// Services (core business logic)
	resolver := services.NewTagResolver(services.TagResolverConfig{
		Services: runtimeServices,
		Cache:    mappingCache,
		CacheTTL: cacheTTL,
		Timeout:  resolveTimeout,
	})
	enricher := services.NewCorpusEnricher(nil)
	builder := services.NewCorpusBuilder(services.CorpusBuilderConfig{
		Resolver: resolver,
		Enricher: enricher,
	})

	// ===== Rebuild worker =====
	rebuildWorker := worker.NewWorker(worker.WorkerConfig{
		RawStore:       rawStore,
		ProcessedStore: processedStore,
		Builder:        builder,
		Services:       runtimeServices,
		WatchPath:      rawPath,
		Interval:       rebuildInterval,
	})

	switch mode {
	case "build":
		if err := rebuildWorker.Rebuild(ctx); err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		log.Printf("Corpus built and saved to %s", processedPath)

	case "watch", "all":
		// Initial build; a missing raw file is tolerated in watch mode
		// so the worker can pick it up once it appears.
		if err := rebuildWorker.Rebuild(ctx); err != nil {
			log.Printf("Warning: initial build failed: %v", err)
		}

		if err := rebuildWorker.Start(ctx); err != nil {
			log.Fatalf("Failed to start rebuild worker: %v", err)
		}
		log.Printf("Watching %s for changes", rawPath)

		<-ctx.Done()
		rebuildWorker.Stop()

	default:
		log.Fatalf("Unknown mode: %s (expected build, watch or all)", mode)
	}

	log.Println("exemplar-core stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
