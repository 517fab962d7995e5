package service

import (
	"context"
	"time"

	"vida-social/pkg/logger"

	"go.uber.org/zap"
)

// EventType 领域事件类型
type EventType string

const (
	EventUserFollowed        EventType = "user.followed"
	EventUserUnfollowed      EventType = "user.unfollowed"
	EventUserBlocked         EventType = "user.blocked"
	EventUserUnblocked       EventType = "user.unblocked"
	EventMessageSent         EventType = "message.sent"
	EventMessageDeleted      EventType = "message.deleted"
	EventConversationDeleted EventType = "conversation.deleted"
)

// Event 领域事件，ActorID 为触发者
type Event struct {
	Type           EventType `json:"type"`
	ActorID        int64     `json:"actor_id"`
	TargetID       int64     `json:"target_id,omitempty"`
	ConversationID int64     `json:"conversation_id,omitempty"`
	MessageID      int64     `json:"message_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher 领域事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// publish 发布失败只记录日志，不影响请求结果
func publish(ctx context.Context, p EventPublisher, event Event) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("Publish event failed",
			zap.String("type", string(event.Type)),
			zap.Int64("actor_id", event.ActorID),
			zap.Error(err),
		)
	}
}
