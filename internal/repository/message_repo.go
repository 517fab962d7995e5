package repository

import (
	"context"
	"time"

	"vida-social/internal/model"

	"gorm.io/gorm"
)

// visibleToClause 消息对 viewer 可见：viewer 发出且未被发送方删除，或 viewer 接收且未被接收方删除
const visibleToClause = "((messages.sender_id = ? AND messages.deleted_by_sender = ?) OR (messages.sender_id <> ? AND messages.deleted_by_recipient = ?))"

// SortOrder 消息排序方向
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func visibleTo(db *gorm.DB, viewerID int64) *gorm.DB {
	return db.Where(visibleToClause, viewerID, false, viewerID, false)
}

// Append 追加一条消息，删除标记和已读标记均为 false
// 同一事务内推进会话的 last_message_at，任一步失败则消息不落库
func (r *MessageRepository) Append(ctx context.Context, conversationID, senderID int64, body string, at time.Time) (*model.Message, error) {
	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      at,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return bumpLastMessageAt(tx, conversationID, at)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetByID 根据 ID 查询消息（不考虑可见性）
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// FindVisibleTo 分页获取对 viewer 可见的消息，按 (created_at, id) 排序
func (r *MessageRepository) FindVisibleTo(ctx context.Context, conversationID, viewerID int64, skip, limit int, order SortOrder) ([]model.Message, error) {
	orderBy := "created_at ASC, id ASC"
	if order == SortDesc {
		orderBy = "created_at DESC, id DESC"
	}

	var msgs []model.Message
	err := visibleTo(r.db.WithContext(ctx), viewerID).
		Where("conversation_id = ?", conversationID).
		Order(orderBy).
		Offset(skip).Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// GetLastVisible 获取对 viewer 可见的最新一条消息，没有时返回 nil
func (r *MessageRepository) GetLastVisible(ctx context.Context, conversationID, viewerID int64) (*model.Message, error) {
	msgs, err := r.FindVisibleTo(ctx, conversationID, viewerID, 0, 1, SortDesc)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}

// MarkReadFor 将会话中发给 recipient 的未读消息标记为已读
func (r *MessageRepository) MarkReadFor(ctx context.Context, conversationID, recipientID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, recipientID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}

// CountUnreadFor 统计会话中 recipient 的未读数（不含其自己删除的消息）
func (r *MessageRepository) CountUnreadFor(ctx context.Context, conversationID, recipientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ? AND deleted_by_recipient = ?",
			conversationID, recipientID, false, false).
		Count(&count).Error
	return count, err
}

// CountUnreadForUser 统计用户在所有会话中的未读总数
func (r *MessageRepository) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	participating := r.db.Model(&model.Conversation{}).
		Select("id").
		Where("user_low = ? OR user_high = ?", userID, userID)

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id IN (?)", participating).
		Where("sender_id <> ? AND is_read = ? AND deleted_by_recipient = ?", userID, false, false).
		Count(&count).Error
	return count, err
}

// SoftDeleteForSender 发送方删除，可重复调用
func (r *MessageRepository) SoftDeleteForSender(ctx context.Context, messageID int64) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", messageID).
		UpdateColumn("deleted_by_sender", true).Error
}

// SoftDeleteForRecipient 接收方删除，可重复调用
func (r *MessageRepository) SoftDeleteForRecipient(ctx context.Context, messageID int64) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", messageID).
		UpdateColumn("deleted_by_recipient", true).Error
}

// SoftDeleteConversationFor 从 userID 视角删除整个会话的消息，对方视角不受影响
func (r *MessageRepository) SoftDeleteConversationFor(ctx context.Context, conversationID, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).
			Where("conversation_id = ? AND sender_id = ?", conversationID, userID).
			UpdateColumn("deleted_by_sender", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.Message{}).
			Where("conversation_id = ? AND sender_id <> ?", conversationID, userID).
			UpdateColumn("deleted_by_recipient", true).Error
	})
}

// PurgeFullyDeleted 物理删除双方均已删除的消息
// conversationID 为 0 时扫描所有会话；before 之后创建的消息保留；limit 限制单批数量
func (r *MessageRepository) PurgeFullyDeleted(ctx context.Context, conversationID int64, before time.Time, limit int) (int64, error) {
	ids := r.db.Model(&model.Message{}).
		Select("id").
		Where("deleted_by_sender = ? AND deleted_by_recipient = ? AND created_at < ?", true, true, before)
	if conversationID != 0 {
		ids = ids.Where("conversation_id = ?", conversationID)
	}
	if limit > 0 {
		ids = ids.Order("id ASC").Limit(limit)
	}

	result := r.db.WithContext(ctx).
		Where("id IN (?)", ids).
		Delete(&model.Message{})
	return result.RowsAffected, result.Error
}
