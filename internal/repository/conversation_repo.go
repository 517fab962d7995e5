package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vida-social/internal/model"

	"gorm.io/gorm"
)

// ErrSamePair 会话双方不能是同一个用户
var ErrSamePair = errors.New("conversation requires two distinct users")

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate 获取或创建两人会话
// 并发首次联系时依赖 idx_conversation_pair 唯一约束：插入冲突说明对方刚刚创建，重新读取即可
func (r *ConversationRepository) GetOrCreate(ctx context.Context, userA, userB int64) (*model.Conversation, error) {
	if userA == userB {
		return nil, ErrSamePair
	}
	low, high := model.CanonicalPair(userA, userB)

	conv, err := r.findPair(ctx, low, high)
	if err == nil {
		return conv, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	conv = &model.Conversation{
		UserLow:       low,
		UserHigh:      high,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		if !IsUniqueViolation(err) {
			return nil, err
		}
		existing, findErr := r.findPair(ctx, low, high)
		if findErr != nil {
			return nil, fmt.Errorf("re-read conversation after conflict: %w", findErr)
		}
		return existing, nil
	}
	return conv, nil
}

// FindByUsers 按用户对查找会话，不创建；不存在时返回 gorm.ErrRecordNotFound
func (r *ConversationRepository) FindByUsers(ctx context.Context, userA, userB int64) (*model.Conversation, error) {
	low, high := model.CanonicalPair(userA, userB)
	return r.findPair(ctx, low, high)
}

func (r *ConversationRepository) findPair(ctx context.Context, low, high int64) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetByID 根据 ID 查询会话
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByUserID 获取用户参与的会话（按最后消息时间倒序）
func (r *ConversationRepository) FindByUserID(ctx context.Context, userID int64, skip, limit int) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_low = ? OR user_high = ?", userID, userID).
		Order("last_message_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&convs).Error
	return convs, err
}

// FindActiveByUserID 同 FindByUserID，但只返回至少有一条消息对该用户可见的会话
func (r *ConversationRepository) FindActiveByUserID(ctx context.Context, userID int64, skip, limit int) ([]model.Conversation, error) {
	visible := r.db.Model(&model.Message{}).
		Select("1").
		Where("messages.conversation_id = conversations.id").
		Where(visibleToClause, userID, false, userID, false)

	var convs []model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_low = ? OR user_high = ?", userID, userID).
		Where("EXISTS (?)", visible).
		Order("last_message_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&convs).Error
	return convs, err
}

// UpdateLastMessageAt 更新最后消息时间，不会把时间往回拨
func (r *ConversationRepository) UpdateLastMessageAt(ctx context.Context, id int64, at time.Time) error {
	return bumpLastMessageAt(r.db.WithContext(ctx), id, at)
}

func bumpLastMessageAt(db *gorm.DB, id int64, at time.Time) error {
	return db.Model(&model.Conversation{}).
		Where("id = ? AND last_message_at < ?", id, at).
		UpdateColumn("last_message_at", at).Error
}
