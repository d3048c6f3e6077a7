package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	chathubapi "github.com/chathub-dev/chathub/api/echo"
	"github.com/chathub-dev/chathub/config"
	"github.com/chathub-dev/chathub/domain"
	"github.com/chathub-dev/chathub/internal/auth"
	"github.com/chathub-dev/chathub/internal/auth/policy"
	"github.com/chathub-dev/chathub/internal/auth/session"
	"github.com/chathub-dev/chathub/internal/metrics"
	"github.com/chathub-dev/chathub/internal/server"
	chathublog "github.com/chathub-dev/chathub/log"
	"github.com/chathub-dev/chathub/mongodb"
	"github.com/chathub-dev/chathub/redisstore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	chathublog.Setup(cfg.LogLevel, cfg.LogPretty)
	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("mongo_db_name", cfg.MongoDBName).
		Str("session_store", cfg.SessionStore).
		Str("log_level", cfg.LogLevel).
		Msg("Starting chathub server")

	ctx := context.Background()
	if initErr := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); initErr != nil {
		log.Fatal().Err(initErr).Msg("Failed to initialize MongoDB connection")
	}
	db := mongodb.GetDB()

	// Repositories
	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize UserRepository")
	}

	var sessionRepo domain.SessionRepository
	if cfg.SessionStore == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			log.Fatal().Err(pingErr).Msg("Failed to ping Redis")
		}
		sessionRepo = redisstore.NewSessionRepository(redisClient, "chathub")
	} else {
		sessionRepo, err = mongodb.NewSessionRepositoryMongo(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize SessionRepository")
		}
	}

	chatbotRepo, err := mongodb.NewChatbotRepositoryMongo(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ChatbotRepository")
	}
	websiteRepo, err := mongodb.NewWebsiteRepositoryMongo(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize WebsiteRepository")
	}
	agentRepo, err := mongodb.NewAgentRepositoryMongo(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize AgentRepository")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.InitCustomMetrics(registry)

	// Services
	verifier := auth.NewCachedVerifier(
		auth.NewJWTVerifier(cfg.TokenSecret, cfg.TokenIssuer),
		time.Duration(cfg.TokenCacheTTL)*time.Second,
	)
	defer verifier.Close()

	policyValidator := policy.NewValidator(policy.Config{
		AllowedIPs:               cfg.AllowedIPs,
		RequireEmailVerification: cfg.RequireEmailVerification,
	}, userRepo)

	sessionManager := session.NewManager(
		sessionRepo,
		time.Duration(cfg.SessionTTLMin)*time.Minute,
		cfg.MaxConcurrentSessions,
	)

	api := chathubapi.NewAPI(verifier, userRepo, policyValidator, sessionManager,
		chatbotRepo, websiteRepo, agentRepo)

	httpServer := server.NewHTTPServer(cfg, api, registry)
	go func() {
		log.Info().Msgf("HTTP server listening on port %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	log.Info().Msgf("Received signal: %v. Shutting down server...", receivedSignal)

	server.Shutdown(context.Background(), httpServer, 30*time.Second)
	mongodb.CloseMongoDB(context.Background())

	log.Info().Msg("Server gracefully stopped.")
}
