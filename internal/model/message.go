package model

import "time"

// Message 私信消息，发送方与接收方的删除标记相互独立
type Message struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement;comment:消息id" json:"id"`
	ConversationID     int64     `gorm:"not null;index:idx_message_conversation_created,priority:1;comment:会话id" json:"conversation_id"`
	SenderID           int64     `gorm:"not null;index:idx_message_sender;comment:发送者id" json:"sender_id"`
	Body               string    `gorm:"type:text;not null;comment:消息内容" json:"body"`
	IsRead             bool      `gorm:"not null;default:false;comment:接收方是否已读" json:"is_read"`
	DeletedBySender    bool      `gorm:"not null;default:false;comment:发送方已删除" json:"-"`
	DeletedByRecipient bool      `gorm:"not null;default:false;comment:接收方已删除" json:"-"`
	CreatedAt          time.Time `gorm:"not null;index:idx_message_conversation_created,priority:2;comment:发送时间" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// VisibleTo 判断消息对某个参与者是否可见
func (m *Message) VisibleTo(viewerID int64) bool {
	if viewerID == m.SenderID {
		return !m.DeletedBySender
	}
	return !m.DeletedByRecipient
}

// ReadBy 从 viewer 视角判断是否已读，自己发出的消息视为已读
func (m *Message) ReadBy(viewerID int64) bool {
	return viewerID == m.SenderID || m.IsRead
}
