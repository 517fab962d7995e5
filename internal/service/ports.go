package service

import (
	"context"
	"time"

	"vida-social/internal/model"
	"vida-social/internal/repository"
)

// UserDirectory 外部用户目录，不存在时返回 gorm.ErrRecordNotFound
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.User, error)
}

// FollowStore 关注关系存储，Create 依赖唯一约束去重
type FollowStore interface {
	Create(ctx context.Context, followerID, followedID int64) (bool, error)
	Delete(ctx context.Context, followerID, followedID int64) (bool, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	AreMutual(ctx context.Context, a, b int64) (bool, error)
	GetFollowingIDs(ctx context.Context, userID int64, skip, limit int) ([]int64, error)
	GetFollowerIDs(ctx context.Context, userID int64, skip, limit int) ([]int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
}

// BlockStore 拉黑关系存储
type BlockStore interface {
	Create(ctx context.Context, blockerID, blockedID int64) (bool, error)
	Delete(ctx context.Context, blockerID, blockedID int64) (bool, error)
	IsBlocked(ctx context.Context, blockerID, blockedID int64) (bool, error)
	HasBlockBetween(ctx context.Context, a, b int64) (bool, error)
	GetBlockedIDs(ctx context.Context, blockerID int64, skip, limit int) ([]int64, error)
}

// ConversationStore 会话目录，GetOrCreate 必须在并发下收敛到同一条记录
type ConversationStore interface {
	GetOrCreate(ctx context.Context, userA, userB int64) (*model.Conversation, error)
	FindByUsers(ctx context.Context, userA, userB int64) (*model.Conversation, error)
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	FindByUserID(ctx context.Context, userID int64, skip, limit int) ([]model.Conversation, error)
	FindActiveByUserID(ctx context.Context, userID int64, skip, limit int) ([]model.Conversation, error)
}

// MessageStore 消息日志
type MessageStore interface {
	Append(ctx context.Context, conversationID, senderID int64, body string, at time.Time) (*model.Message, error)
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	FindVisibleTo(ctx context.Context, conversationID, viewerID int64, skip, limit int, order repository.SortOrder) ([]model.Message, error)
	GetLastVisible(ctx context.Context, conversationID, viewerID int64) (*model.Message, error)
	MarkReadFor(ctx context.Context, conversationID, recipientID int64) (int64, error)
	CountUnreadFor(ctx context.Context, conversationID, recipientID int64) (int64, error)
	CountUnreadForUser(ctx context.Context, userID int64) (int64, error)
	SoftDeleteForSender(ctx context.Context, messageID int64) error
	SoftDeleteForRecipient(ctx context.Context, messageID int64) error
	SoftDeleteConversationFor(ctx context.Context, conversationID, userID int64) error
	PurgeFullyDeleted(ctx context.Context, conversationID int64, before time.Time, limit int) (int64, error)
}

var (
	_ UserDirectory     = (*repository.UserRepository)(nil)
	_ FollowStore       = (*repository.FollowRepository)(nil)
	_ BlockStore        = (*repository.BlockRepository)(nil)
	_ ConversationStore = (*repository.ConversationRepository)(nil)
	_ MessageStore      = (*repository.MessageRepository)(nil)
)

// Settings 管理员控制的全局私信设置，对本子系统只读
type Settings interface {
	MessagingEnabled(ctx context.Context) bool
	MaxMessageLength(ctx context.Context) int
}

// DefaultMaxMessageLength 未配置时的消息长度上限
const DefaultMaxMessageLength = 500

// StaticSettings 固定值设置，来自配置文件或测试
type StaticSettings struct {
	Enabled   bool
	MaxLength int
}

func (s StaticSettings) MessagingEnabled(context.Context) bool {
	return s.Enabled
}

func (s StaticSettings) MaxMessageLength(context.Context) int {
	if s.MaxLength <= 0 {
		return DefaultMaxMessageLength
	}
	return s.MaxLength
}
