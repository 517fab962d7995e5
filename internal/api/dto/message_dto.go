package dto

import "time"

// SendMessageRequest 发送私信请求，长度上限由管理员设置决定
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// MessageInfo 单条消息（从查看者视角）
type MessageInfo struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"is_read"`
	IsMine         bool      `json:"is_mine"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationInfo 会话信息
type ConversationInfo struct {
	ID            int64     `json:"id"`
	UserLow       int64     `json:"user_low"`
	UserHigh      int64     `json:"user_high"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// SendMessageResult 发送成功后返回消息和所在会话
type SendMessageResult struct {
	Message      MessageInfo      `json:"message"`
	Conversation ConversationInfo `json:"conversation"`
}

// InboxEntry 收件箱条目
type InboxEntry struct {
	Conversation ConversationInfo `json:"conversation"`
	OtherUser    UserBrief        `json:"other_user"`
	LastMessage  *MessageInfo     `json:"last_message"`
	UnreadCount  int64            `json:"unread_count"`
}

// InboxData 收件箱分页数据
type InboxData struct {
	Entries  []InboxEntry `json:"entries"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// MessageListData 会话消息分页数据
type MessageListData struct {
	ConversationID int64         `json:"conversation_id"`
	Messages       []MessageInfo `json:"messages"`
	Page           int           `json:"page"`
	PageSize       int           `json:"page_size"`
}

// CanMessageResult 私信权限检查结果
type CanMessageResult struct {
	RecipientID int64  `json:"recipient_id"`
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message,omitempty"`
}

// MessagingSettings 管理员私信设置
type MessagingSettings struct {
	Enabled          bool `json:"enabled"`
	MaxMessageLength int  `json:"max_message_length"`
}

// UpdateMessagingSettingsRequest 更新私信设置请求，未传字段保持不变
type UpdateMessagingSettingsRequest struct {
	Enabled          *bool `json:"enabled"`
	MaxMessageLength *int  `json:"max_message_length" binding:"omitempty,min=1,max=10000"`
}
