package kafka

import (
	"context"
	"time"

	"vida-social/internal/service"
	"vida-social/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理领域事件的回调函数
type EventHandler func(ctx context.Context, event *service.Event) error

// StartEventConsumer 启动领域事件消费者（阻塞，需在 goroutine 中运行）
// ctx 取消后会自动停止
func StartEventConsumer(ctx context.Context, brokers []string, topic, groupID string, handler EventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka event consumer stopped")
	}()

	logger.Info("Kafka event consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		handleMessage(ctx, msg, handler)
	}
}

// handleMessage 解码失败或处理失败只记录日志，不阻塞后续消息
func handleMessage(ctx context.Context, msg kafka.Message, handler EventHandler) {
	event, err := decodeEvent(msg.Value)
	if err != nil {
		logger.Error("Failed to decode event",
			zap.Error(err),
			zap.ByteString("value", msg.Value),
		)
		return
	}

	if err := handler(ctx, event); err != nil {
		logger.Error("Failed to handle event",
			zap.String("type", string(event.Type)),
			zap.Int64("conversation_id", event.ConversationID),
			zap.Error(err),
		)
	}
}
