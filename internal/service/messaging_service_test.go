package service_test

import (
	"context"
	"strings"
	"testing"

	"vida-social/internal/service"

	"github.com/stretchr/testify/require"
)

func TestMessagingService_CanMessageCheckOrder(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob", "carol", "dave", "erin", "frank")
	alice, bob, carol, dave, erin, frank := ids[0], ids[1], ids[2], ids[3], ids[4], ids[5]
	ctx := context.Background()

	f.befriend(t, alice, bob)
	f.befriend(t, alice, dave)
	f.befriend(t, alice, erin)
	_, err := f.relations.Follow(ctx, alice, frank)
	require.NoError(t, err)

	_, err = f.blocks.Block(ctx, dave, alice)
	require.NoError(t, err)
	f.setUserFlag(t, erin, "is_pending")
	f.setUserFlag(t, carol, "is_disabled")

	tests := []struct {
		name      string
		recipient int64
		want      error
	}{
		{name: "allowed", recipient: bob},
		{name: "self", recipient: alice, want: service.ErrCannotMessageSelf},
		{name: "unknown recipient", recipient: 999, want: service.ErrUserNotFound},
		{name: "disabled recipient", recipient: carol, want: service.ErrUserDisabled},
		{name: "pending recipient beats mutual follow", recipient: erin, want: service.ErrUserPending},
		{name: "blocked by recipient", recipient: dave, want: service.ErrUnableToSend},
		{name: "one-way follow", recipient: frank, want: service.ErrNotMutualFollow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.messaging.CanMessage(ctx, alice, tt.recipient)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMessagingService_DisabledSettingComesFirst(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice")
	f.settings.Enabled = false

	err := f.messaging.CanMessage(context.Background(), ids[0], ids[0])
	require.ErrorIs(t, err, service.ErrMessagingDisabled)

	kind, ok := service.KindOf(err)
	require.True(t, ok)
	require.Equal(t, service.KindPermission, kind)
}

func TestMessagingService_BlockInEitherDirection(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	ctx := context.Background()

	f.befriend(t, alice, bob)
	_, err := f.blocks.Block(ctx, alice, bob)
	require.NoError(t, err)

	require.ErrorIs(t, f.messaging.CanMessage(ctx, alice, bob), service.ErrUnableToSend)
	require.ErrorIs(t, f.messaging.CanMessage(ctx, bob, alice), service.ErrUnableToSend)

	_, err = f.blocks.Unblock(ctx, alice, bob)
	require.NoError(t, err)
	require.NoError(t, f.messaging.CanMessage(ctx, bob, alice))
}

func TestMessagingService_SendValidatesBody(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	f.befriend(t, ids[0], ids[1])
	f.settings.MaxLength = 5
	ctx := context.Background()

	_, err := f.messaging.SendMessage(ctx, ids[0], ids[1], "   ")
	require.ErrorIs(t, err, service.ErrEmptyBody)

	_, err = f.messaging.SendMessage(ctx, ids[0], ids[1], "123456")
	require.ErrorIs(t, err, service.ErrBodyTooLong)

	res, err := f.messaging.SendMessage(ctx, ids[0], ids[1], "  你好世界呀  ")
	require.NoError(t, err)
	require.Equal(t, "你好世界呀", res.Message.Body)
}

func TestMessagingService_SendRequiresPermission(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")

	_, err := f.messaging.SendMessage(context.Background(), ids[0], ids[1], "hi")
	require.ErrorIs(t, err, service.ErrNotMutualFollow)

	// 权限失败时不创建会话
	inbox, err := f.messaging.GetInbox(context.Background(), ids[0], 10, 0)
	require.NoError(t, err)
	require.Empty(t, inbox)
}

func TestMessagingService_SendReusesConversation(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	first, err := f.messaging.SendMessage(ctx, alice, bob, "hi bob")
	require.NoError(t, err)
	second, err := f.messaging.SendMessage(ctx, bob, alice, "hi alice")
	require.NoError(t, err)

	require.Equal(t, first.Conversation.ID, second.Conversation.ID)
	require.Equal(t, alice, second.Conversation.UserLow)
	require.True(t, second.Message.IsMine)
	require.False(t, second.Conversation.LastMessageAt.Before(second.Message.CreatedAt))

	require.Contains(t, f.events.types(), service.EventMessageSent)
}

func TestMessagingService_BlockAfterConversationStopsSending(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	f.send(t, alice, bob, "hello")
	_, err := f.blocks.Block(ctx, bob, alice)
	require.NoError(t, err)

	_, err = f.messaging.SendMessage(ctx, alice, bob, "still there?")
	require.ErrorIs(t, err, service.ErrUnableToSend)

	// 历史会话仍可打开和阅读
	conv, err := f.messaging.OpenConversation(ctx, alice, bob)
	require.NoError(t, err)
	msgs, err := f.messaging.GetMessages(ctx, conv.ID, alice, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestMessagingService_OpenConversation(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob", "carol")
	alice, bob, carol := ids[0], ids[1], ids[2]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	_, err := f.messaging.OpenConversation(ctx, alice, alice)
	require.ErrorIs(t, err, service.ErrCannotMessageSelf)

	_, err = f.messaging.OpenConversation(ctx, alice, carol)
	require.ErrorIs(t, err, service.ErrNotMutualFollow)

	opened, err := f.messaging.OpenConversation(ctx, bob, alice)
	require.NoError(t, err)
	again, err := f.messaging.OpenConversation(ctx, alice, bob)
	require.NoError(t, err)
	require.Equal(t, opened.ID, again.ID)
}

func TestMessagingService_InboxAndUnread(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob", "carol")
	alice, bob, carol := ids[0], ids[1], ids[2]
	f.befriend(t, alice, bob)
	f.befriend(t, alice, carol)
	ctx := context.Background()

	f.send(t, bob, alice, "b1")
	f.send(t, bob, alice, "b2")
	f.send(t, carol, alice, "c1")

	inbox, err := f.messaging.GetInbox(ctx, alice, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	require.Equal(t, "carol", inbox[0].OtherUser.Username, "most recent conversation first")
	require.EqualValues(t, 1, inbox[0].UnreadCount)
	require.Equal(t, "bob", inbox[1].OtherUser.Username)
	require.EqualValues(t, 2, inbox[1].UnreadCount)
	require.NotNil(t, inbox[1].LastMessage)
	require.Equal(t, "b2", inbox[1].LastMessage.Body)
	require.False(t, inbox[1].LastMessage.IsRead)

	total, err := f.messaging.GetUnreadCount(ctx, alice)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	senderTotal, err := f.messaging.GetUnreadCount(ctx, bob)
	require.NoError(t, err)
	require.Zero(t, senderTotal, "own messages are never unread")

	msgs, err := f.messaging.GetMessages(ctx, inbox[1].Conversation.ID, alice, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "b1", msgs[0].Body)
	for _, m := range msgs {
		require.True(t, m.IsRead)
		require.False(t, m.IsMine)
	}

	total, err = f.messaging.GetUnreadCount(ctx, alice)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestMessagingService_UnreadGrowsUntilRead(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	var last int64
	for i := 0; i < 4; i++ {
		f.send(t, alice, bob, strings.Repeat("x", i+1))
		n, err := f.messaging.GetUnreadCount(ctx, bob)
		require.NoError(t, err)
		require.Greater(t, n, last)
		last = n
	}
}

func TestMessagingService_GetMessagesAccess(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob", "mallory")
	alice, bob, mallory := ids[0], ids[1], ids[2]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	res, err := f.messaging.SendMessage(ctx, alice, bob, "secret")
	require.NoError(t, err)

	_, err = f.messaging.GetMessages(ctx, res.Conversation.ID, mallory, 10, 0)
	require.ErrorIs(t, err, service.ErrNotParticipant)

	_, err = f.messaging.GetMessages(ctx, 999, alice, 10, 0)
	require.ErrorIs(t, err, service.ErrConversationNotFound)

	other, err := f.messaging.GetOtherParticipant(ctx, res.Conversation.ID, bob)
	require.NoError(t, err)
	require.Equal(t, alice, other.ID)
	require.Equal(t, "alice", other.Username)

	_, err = f.messaging.GetOtherParticipant(ctx, res.Conversation.ID, mallory)
	require.ErrorIs(t, err, service.ErrNotParticipant)

	// mallory 未读数不包含他人会话
	n, err := f.messaging.GetUnreadCount(ctx, mallory)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMessagingService_DeleteMessageVisibility(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob", "mallory")
	alice, bob, mallory := ids[0], ids[1], ids[2]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	res, err := f.messaging.SendMessage(ctx, alice, bob, "oops")
	require.NoError(t, err)
	convID, msgID := res.Conversation.ID, res.Message.ID

	require.ErrorIs(t, f.messaging.DeleteMessage(ctx, msgID, mallory), service.ErrNotParticipant)
	require.ErrorIs(t, f.messaging.DeleteMessage(ctx, 999, alice), service.ErrMessageNotFound)

	require.NoError(t, f.messaging.DeleteMessage(ctx, msgID, alice))

	aliceView, err := f.messaging.GetMessages(ctx, convID, alice, 10, 0)
	require.NoError(t, err)
	require.Empty(t, aliceView)

	bobView, err := f.messaging.GetMessages(ctx, convID, bob, 10, 0)
	require.NoError(t, err)
	require.Len(t, bobView, 1)

	require.NoError(t, f.messaging.DeleteMessage(ctx, msgID, bob))
	bobView, err = f.messaging.GetMessages(ctx, convID, bob, 10, 0)
	require.NoError(t, err)
	require.Empty(t, bobView)

	require.Contains(t, f.events.types(), service.EventMessageDeleted)
}

func TestMessagingService_DeleteConversation(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob", "mallory")
	alice, bob, mallory := ids[0], ids[1], ids[2]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	f.send(t, alice, bob, "a1")
	res, err := f.messaging.SendMessage(ctx, bob, alice, "b1")
	require.NoError(t, err)
	convID := res.Conversation.ID

	require.ErrorIs(t, f.messaging.DeleteConversation(ctx, convID, mallory), service.ErrNotParticipant)
	require.NoError(t, f.messaging.DeleteConversation(ctx, convID, alice))

	inbox, err := f.messaging.GetInbox(ctx, alice, 10, 0)
	require.NoError(t, err)
	require.Empty(t, inbox)

	n, err := f.messaging.GetUnreadCount(ctx, alice)
	require.NoError(t, err)
	require.Zero(t, n)

	bobInbox, err := f.messaging.GetInbox(ctx, bob, 10, 0)
	require.NoError(t, err)
	require.Len(t, bobInbox, 1)

	// 对方再发消息，会话回到收件箱
	f.send(t, bob, alice, "b2")
	inbox, err = f.messaging.GetInbox(ctx, alice, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, "b2", inbox[0].LastMessage.Body)

	require.Contains(t, f.events.types(), service.EventConversationDeleted)
}

func TestMessagingService_PublishFailureDoesNotFailSend(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	f.befriend(t, ids[0], ids[1])
	f.events.err = errBrokerDown

	_, err := f.messaging.SendMessage(context.Background(), ids[0], ids[1], "hi")
	require.NoError(t, err)
}
