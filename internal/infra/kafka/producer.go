package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vida-social/internal/config"
	"vida-social/internal/service"
	"vida-social/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TopicSocialEvents 社交领域事件 topic 在配置中的名称
const TopicSocialEvents = "social_events"

// messageWriter kafka.Writer 的最小子集，便于测试替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventProducer 把领域事件写入 Kafka
type EventProducer struct {
	writer messageWriter
	topic  string
}

var _ service.EventPublisher = (*EventProducer)(nil)

// NewEventProducer 初始化 Kafka 生产者
// 按 key 哈希分区，同一会话的事件保持顺序
func NewEventProducer(cfg *config.KafkaConfig) (*EventProducer, error) {
	topic := cfg.Topic(TopicSocialEvents)
	if topic == "" {
		return nil, errors.New("kafka topic social_events is not configured")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", topic),
	)

	return &EventProducer{writer: writer, topic: topic}, nil
}

// Publish 发送领域事件
func (p *EventProducer) Publish(ctx context.Context, event service.Event) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s event: %w", event.Type, err)
	}

	logger.Debug("Event sent",
		zap.String("type", string(event.Type)),
		zap.String("topic", p.topic),
		zap.ByteString("key", msg.Key),
	)
	return nil
}

// Close 关闭生产者
func (p *EventProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}

// eventKey 有会话时按会话分区，否则按触发者分区
func eventKey(event service.Event) []byte {
	if event.ConversationID != 0 {
		return []byte("conversation-" + strconv.FormatInt(event.ConversationID, 10))
	}
	return []byte("user-" + strconv.FormatInt(event.ActorID, 10))
}

func encodeEvent(event service.Event) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{
		Key:   eventKey(event),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}

func decodeEvent(value []byte) (*service.Event, error) {
	var event service.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" {
		return nil, errors.New("event type is empty")
	}
	return &event, nil
}
