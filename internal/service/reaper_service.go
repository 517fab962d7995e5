package service

import (
	"context"
	"fmt"
	"time"

	"vida-social/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultReaperBatch = 500
	// 单次扫描的批次上限，剩余的留给下一轮
	maxReaperBatches = 100
)

// ReaperService 物理清理双方都已删除的消息，会话记录保留
type ReaperService struct {
	messages  MessageStore
	batchSize int
	grace     time.Duration
	now       func() time.Time
}

func NewReaperService(messages MessageStore, batchSize int, grace time.Duration) *ReaperService {
	if batchSize <= 0 {
		batchSize = defaultReaperBatch
	}
	if grace < 0 {
		grace = 0
	}
	return &ReaperService{messages: messages, batchSize: batchSize, grace: grace, now: time.Now}
}

// PurgeConversation 清理单个会话
func (s *ReaperService) PurgeConversation(ctx context.Context, conversationID int64) (int64, error) {
	if conversationID <= 0 {
		return 0, ErrInvalidID
	}
	return s.purge(ctx, conversationID)
}

// Sweep 扫描所有会话
func (s *ReaperService) Sweep(ctx context.Context) (int64, error) {
	return s.purge(ctx, 0)
}

// HandleEvent 删除类事件触发对应会话的清理，其它事件忽略
func (s *ReaperService) HandleEvent(ctx context.Context, event *Event) error {
	switch event.Type {
	case EventMessageDeleted, EventConversationDeleted:
		if event.ConversationID == 0 {
			return nil
		}
		_, err := s.PurgeConversation(ctx, event.ConversationID)
		return err
	default:
		return nil
	}
}

// Run 按固定间隔扫描，直到 ctx 取消
func (s *ReaperService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Reaper sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *ReaperService) purge(ctx context.Context, conversationID int64) (int64, error) {
	before := s.now().Add(-s.grace)

	var total int64
	for i := 0; i < maxReaperBatches; i++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.messages.PurgeFullyDeleted(ctx, conversationID, before, s.batchSize)
		if err != nil {
			return total, fmt.Errorf("purge messages: %w", err)
		}
		total += n
		if n < int64(s.batchSize) {
			break
		}
	}

	if total > 0 {
		logger.Info("Purged fully deleted messages",
			zap.Int64("conversation_id", conversationID),
			zap.Int64("count", total),
		)
	}
	return total, nil
}
