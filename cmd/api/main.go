package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vida-social/internal/api/handler"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/router"
	"vida-social/internal/config"
	"vida-social/internal/infra/database"
	infraKafka "vida-social/internal/infra/kafka"
	infraRedis "vida-social/internal/infra/redis"
	"vida-social/internal/repository"
	"vida-social/internal/service"
	"vida-social/pkg/logger"

	_ "vida-social/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Vida-Social API
// @version 1.0
// @description 关注、拉黑与私信服务 API

// @contact.name API Support
// @contact.email support@vida.com

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	configPath := os.Getenv("VIDA_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	db := database.Get()
	// 生产环境的 users 表属于用户目录服务，debug 模式下才由本服务建表
	if err := database.AutoMigrate(db, cfg.App.Mode == "debug"); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// Redis 只保存管理员设置，连不上时使用配置文件默认值
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, messaging settings fall back to defaults", zap.Error(err))
	}
	defer infraRedis.Close()

	settings := infraRedis.NewSettingsStore(infraRedis.Get(), service.StaticSettings{
		Enabled:   cfg.Messaging.Enabled,
		MaxLength: cfg.Messaging.MaxMessageLength,
	})

	// 事件发布失败不影响业务，Kafka 未配置时丢弃事件
	var events service.EventPublisher = service.NopPublisher{}
	producer, err := infraKafka.NewEventProducer(&cfg.Kafka)
	if err != nil {
		logger.Warn("Kafka producer disabled, events will be dropped", zap.Error(err))
	} else {
		events = producer
		defer producer.Close()
	}

	gin.SetMode(cfg.App.Mode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	relationService := service.NewRelationService(followRepo, userRepo, events)
	blockService := service.NewBlockService(blockRepo, userRepo, events)
	messagingService := service.NewMessagingService(service.MessagingStores{
		Users:         userRepo,
		Follows:       followRepo,
		Blocks:        blockRepo,
		Conversations: conversationRepo,
		Messages:      messageRepo,
	}, settings, events)

	relationHandler := handler.NewRelationHandler(relationService)
	blockHandler := handler.NewBlockHandler(blockService)
	messageHandler := handler.NewMessageHandler(messagingService, cfg.Messaging.InboxPageSize, cfg.Messaging.MessagePageSize)
	settingsHandler := handler.NewSettingsHandler(settings)

	adminMiddleware := middleware.AdminRequired(userRepo.GetRole)

	r.GET("/healthz", healthCheckHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Setup(r, &cfg.JWT, relationHandler, blockHandler, messageHandler, settingsHandler, adminMiddleware)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.Strings("kafka", cfg.Kafka.Brokers),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}
	if sqlDB, err := database.Get().DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	}
	// Redis 不可用时设置回退到默认值，只报告不判失败
	if err := infraRedis.Get().Ping(c.Request.Context()).Err(); err != nil {
		checks["redis"] = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
	})
}
