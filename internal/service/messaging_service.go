package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"vida-social/internal/api/dto"
	"vida-social/internal/model"
	"vida-social/internal/repository"
	"vida-social/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// MessagingStores 私信网关依赖的存储
type MessagingStores struct {
	Users         UserDirectory
	Follows       FollowStore
	Blocks        BlockStore
	Conversations ConversationStore
	Messages      MessageStore
}

// MessagingService 私信网关，所有会话和消息操作都先经过权限检查
type MessagingService struct {
	users         UserDirectory
	follows       FollowStore
	blocks        BlockStore
	conversations ConversationStore
	messages      MessageStore
	settings      Settings
	events        EventPublisher
	now           func() time.Time
}

func NewMessagingService(stores MessagingStores, settings Settings, events EventPublisher) *MessagingService {
	if events == nil {
		events = NopPublisher{}
	}
	return &MessagingService{
		users:         stores.Users,
		follows:       stores.Follows,
		blocks:        stores.Blocks,
		conversations: stores.Conversations,
		messages:      stores.Messages,
		settings:      settings,
		events:        events,
		now:           time.Now,
	}
}

// CanMessage 按固定顺序检查私信权限，返回第一个失败的原因
// 允许时返回 nil；拒绝时返回 *Error；存储故障返回其它错误
func (s *MessagingService) CanMessage(ctx context.Context, senderID, recipientID int64) error {
	if !s.settings.MessagingEnabled(ctx) {
		return ErrMessagingDisabled
	}
	if senderID == recipientID {
		return ErrCannotMessageSelf
	}

	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return mapUserError(err)
	}
	if recipient.IsDisabled {
		return ErrUserDisabled
	}
	if recipient.IsPending {
		return ErrUserPending
	}

	// 不透露拉黑关系是否存在
	blocked, err := s.blocks.HasBlockBetween(ctx, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("check block: %w", err)
	}
	if blocked {
		return ErrUnableToSend
	}

	mutual, err := s.follows.AreMutual(ctx, senderID, recipientID)
	if err != nil {
		return fmt.Errorf("check mutual follow: %w", err)
	}
	if !mutual {
		return ErrNotMutualFollow
	}
	return nil
}

// SendMessage 发送私信，首次联系时创建会话
func (s *MessagingService) SendMessage(ctx context.Context, senderID, recipientID int64, body string) (*dto.SendMessageResult, error) {
	if err := s.CanMessage(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	body, err := s.validateBody(ctx, body)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.GetOrCreate(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("get or create conversation: %w", err)
	}

	msg, err := s.messages.Append(ctx, conv.ID, senderID, body, s.now())
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	if msg.CreatedAt.After(conv.LastMessageAt) {
		conv.LastMessageAt = msg.CreatedAt
	}

	publish(ctx, s.events, Event{
		Type:           EventMessageSent,
		ActorID:        senderID,
		TargetID:       recipientID,
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		OccurredAt:     msg.CreatedAt,
	})

	logger.Debug("Message sent",
		zap.Int64("conversation_id", conv.ID),
		zap.Int64("message_id", msg.ID),
		zap.Int64("sender_id", senderID),
	)

	return &dto.SendMessageResult{
		Message:      toMessageInfo(msg, senderID),
		Conversation: toConversationInfo(conv),
	}, nil
}

// OpenConversation 打开与某人的会话；已有会话直接返回，否则检查权限后创建
func (s *MessagingService) OpenConversation(ctx context.Context, viewerID, otherID int64) (*dto.ConversationInfo, error) {
	if viewerID == otherID {
		return nil, ErrCannotMessageSelf
	}

	conv, err := s.conversations.FindByUsers(ctx, viewerID, otherID)
	if err == nil {
		info := toConversationInfo(conv)
		return &info, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find conversation: %w", err)
	}

	if err := s.CanMessage(ctx, viewerID, otherID); err != nil {
		return nil, err
	}

	conv, err = s.conversations.GetOrCreate(ctx, viewerID, otherID)
	if err != nil {
		return nil, fmt.Errorf("get or create conversation: %w", err)
	}
	info := toConversationInfo(conv)
	return &info, nil
}

// GetInbox 收件箱：有可见消息的会话，最近活跃在前
func (s *MessagingService) GetInbox(ctx context.Context, userID int64, limit, offset int) ([]dto.InboxEntry, error) {
	limit, offset = normalizePage(limit, offset)

	convs, err := s.conversations.FindActiveByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	otherIDs := make([]int64, 0, len(convs))
	for i := range convs {
		other, _ := convs[i].OtherParticipant(userID)
		otherIDs = append(otherIDs, other)
	}
	users, err := s.users.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	names := make(map[int64]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].UserName
	}

	entries := make([]dto.InboxEntry, 0, len(convs))
	for i := range convs {
		conv := &convs[i]
		otherID := otherIDs[i]

		last, err := s.messages.GetLastVisible(ctx, conv.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("load last message: %w", err)
		}
		unread, err := s.messages.CountUnreadFor(ctx, conv.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("count unread: %w", err)
		}

		entry := dto.InboxEntry{
			Conversation: toConversationInfo(conv),
			OtherUser:    dto.UserBrief{ID: otherID, Username: names[otherID]},
			UnreadCount:  unread,
		}
		if last != nil {
			info := toMessageInfo(last, userID)
			entry.LastMessage = &info
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetMessages 查看会话消息，返回前先把发给 viewer 的消息标记为已读
func (s *MessagingService) GetMessages(ctx context.Context, conversationID, viewerID int64, limit, offset int) ([]dto.MessageInfo, error) {
	limit, offset = normalizePage(limit, offset)

	conv, err := s.loadParticipantConversation(ctx, conversationID, viewerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.messages.MarkReadFor(ctx, conv.ID, viewerID); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}

	msgs, err := s.messages.FindVisibleTo(ctx, conv.ID, viewerID, offset, limit, repository.SortAsc)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	infos := make([]dto.MessageInfo, 0, len(msgs))
	for i := range msgs {
		infos = append(infos, toMessageInfo(&msgs[i], viewerID))
	}
	return infos, nil
}

// DeleteMessage 从 userID 视角删除一条消息，只有会话双方可以操作
func (s *MessagingService) DeleteMessage(ctx context.Context, messageID, userID int64) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("load message: %w", err)
	}

	if _, err := s.loadParticipantConversation(ctx, msg.ConversationID, userID); err != nil {
		return err
	}

	if userID == msg.SenderID {
		err = s.messages.SoftDeleteForSender(ctx, msg.ID)
	} else {
		err = s.messages.SoftDeleteForRecipient(ctx, msg.ID)
	}
	if err != nil {
		return fmt.Errorf("soft delete message: %w", err)
	}

	publish(ctx, s.events, Event{
		Type:           EventMessageDeleted,
		ActorID:        userID,
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
	})
	return nil
}

// DeleteConversation 从 userID 视角删除整个会话，对方视角不变
func (s *MessagingService) DeleteConversation(ctx context.Context, conversationID, userID int64) error {
	conv, err := s.loadParticipantConversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	if err := s.messages.SoftDeleteConversationFor(ctx, conv.ID, userID); err != nil {
		return fmt.Errorf("soft delete conversation: %w", err)
	}

	other, _ := conv.OtherParticipant(userID)
	publish(ctx, s.events, Event{
		Type:           EventConversationDeleted,
		ActorID:        userID,
		TargetID:       other,
		ConversationID: conv.ID,
	})
	return nil
}

// GetUnreadCount 用户所有会话的未读总数
func (s *MessagingService) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.messages.CountUnreadForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// GetOtherParticipant 返回会话中的另一方
func (s *MessagingService) GetOtherParticipant(ctx context.Context, conversationID, userID int64) (*dto.UserBrief, error) {
	conv, err := s.loadParticipantConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	otherID, _ := conv.OtherParticipant(userID)
	brief := &dto.UserBrief{ID: otherID}
	user, err := s.users.GetByID(ctx, otherID)
	switch {
	case err == nil:
		brief.Username = user.UserName
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("load user: %w", err)
	}
	return brief, nil
}

func (s *MessagingService) loadParticipantConversation(ctx context.Context, conversationID, userID int64) (*model.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// validateBody 去掉首尾空白后校验，长度按字符计
func (s *MessagingService) validateBody(ctx context.Context, body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	maxLen := s.settings.MaxMessageLength(ctx)
	if maxLen <= 0 {
		maxLen = DefaultMaxMessageLength
	}
	if utf8.RuneCountInString(body) > maxLen {
		return "", newError(KindValidation, ReasonBodyTooLong, fmt.Sprintf("消息内容不能超过 %d 个字符", maxLen))
	}
	return body, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toMessageInfo(m *model.Message, viewerID int64) dto.MessageInfo {
	return dto.MessageInfo{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		IsRead:         m.ReadBy(viewerID),
		IsMine:         m.SenderID == viewerID,
		CreatedAt:      m.CreatedAt,
	}
}

func toConversationInfo(c *model.Conversation) dto.ConversationInfo {
	return dto.ConversationInfo{
		ID:            c.ID,
		UserLow:       c.UserLow,
		UserHigh:      c.UserHigh,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}
