package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"vida-social/internal/config"
	"vida-social/internal/infra/database"
	infraKafka "vida-social/internal/infra/kafka"
	"vida-social/internal/repository"
	"vida-social/internal/service"
	"vida-social/pkg/logger"

	"go.uber.org/zap"
)

const reaperGroupID = "vida-social-reaper"

// 清理双方都已删除的消息：监听删除事件即时清理，并定期全量扫描兜底
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

	reaper := service.NewReaperService(
		repository.NewMessageRepository(database.Get()),
		cfg.Reaper.BatchSize,
		cfg.Reaper.GraceDuration(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	var wg sync.WaitGroup

	topic := cfg.Kafka.Topic(infraKafka.TopicSocialEvents)
	if topic != "" && len(cfg.Kafka.Brokers) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			infraKafka.StartEventConsumer(ctx, cfg.Kafka.Brokers, topic, reaperGroupID, reaper.HandleEvent)
		}()
	} else {
		logger.Warn("Kafka not configured, reaper runs on schedule only")
	}

	logger.Info("Reaper worker started",
		zap.Duration("interval", cfg.Reaper.IntervalDuration()),
		zap.Duration("grace", cfg.Reaper.GraceDuration()),
		zap.Int("batch_size", cfg.Reaper.BatchSize),
	)

	if _, err := reaper.Sweep(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Initial reaper sweep failed", zap.Error(err))
	}
	reaper.Run(ctx, cfg.Reaper.IntervalDuration())

	wg.Wait()
	logger.Info("Reaper worker stopped")
}
