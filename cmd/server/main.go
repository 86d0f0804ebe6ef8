package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/GauravB09/Diligence-Squared-Assignment/config"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/cache"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/repository"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/segment"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/service"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/transport/rest"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/transport/ws"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.InitLogger(); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	log := zap.L()

	surveyCfg, err := config.LoadSurveyConfig(cfg.SurveyConfigPath)
	if err != nil {
		log.Fatal("failed to load survey config",
			zap.String("path", cfg.SurveyConfigPath), zap.Error(err))
	}
	log.Info("survey config loaded",
		zap.String("path", cfg.SurveyConfigPath),
		zap.Int("questions", len(surveyCfg.Questions)),
		zap.Int("rules", len(surveyCfg.Segmentation.Rules)))

	elCfg := config.DefaultElevenLabsConfig()
	if !elCfg.IsEnabled() {
		log.Warn("ELEVENLABS_API_KEY not set, transcript fetching disabled")
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	db := mongoClient.Database(cfg.MongoDatabase)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: strings.TrimPrefix(cfg.RedisAddr, "redis://"),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	// Wire dependencies
	sessionRepo := repository.NewSessionRepo(db)
	sessionCache := cache.NewSessionCache(redisClient)
	resolver := segment.NewResolver(surveyCfg)
	elClient := service.NewElevenLabsClient(elCfg)

	authSvc := service.NewAuthService(cfg)
	webhookSvc := service.NewWebhookService(resolver, sessionRepo, sessionCache)
	interviewSvc := service.NewInterviewService(sessionRepo, sessionCache, elClient)

	wsHub := ws.NewHub()
	webhookSvc.SetBroadcaster(wsHub)
	interviewSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		WebhookService:   webhookSvc,
		InterviewService: interviewSvc,
		Sessions:         sessionRepo,
		WSHub:            wsHub,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("mongo disconnect error", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		log.Error("redis close error", zap.Error(err))
	}

	log.Info("server stopped")
}
