package model

import "time"

// Conversation 两人会话，参与者按 (UserLow, UserHigh) 规范排序存储
type Conversation struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;comment:会话id" json:"id"`
	UserLow       int64     `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1;index:idx_conversation_low;check:chk_conversation_pair,user_low < user_high;comment:较小的用户id" json:"user_low"`
	UserHigh      int64     `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2;index:idx_conversation_high;comment:较大的用户id" json:"user_high"`
	LastMessageAt time.Time `gorm:"not null;index:idx_conversation_last_message;comment:最后一条消息时间" json:"last_message_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant 判断用户是否为会话参与者
func (c *Conversation) HasParticipant(userID int64) bool {
	return c.UserLow == userID || c.UserHigh == userID
}

// OtherParticipant 返回另一方的用户ID；userID 不是参与者时返回 false
func (c *Conversation) OtherParticipant(userID int64) (int64, bool) {
	switch userID {
	case c.UserLow:
		return c.UserHigh, true
	case c.UserHigh:
		return c.UserLow, true
	default:
		return 0, false
	}
}

// CanonicalPair 返回规范排序后的用户对
func CanonicalPair(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}
