package service_test

import (
	"context"
	"testing"

	"vida-social/internal/repository"
	"vida-social/internal/service"

	"github.com/stretchr/testify/require"
)

func TestReaperService_PurgeConversation(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	f.befriend(t, alice, bob)
	ctx := context.Background()

	var msgIDs []int64
	for _, body := range []string{"1", "2", "3", "4", "5"} {
		msgIDs = append(msgIDs, f.send(t, alice, bob, body))
	}
	kept := f.send(t, bob, alice, "keep")

	res, err := f.messaging.OpenConversation(ctx, alice, bob)
	require.NoError(t, err)
	require.NoError(t, f.messaging.DeleteConversation(ctx, res.ID, alice))
	for _, id := range msgIDs {
		require.NoError(t, f.messaging.DeleteMessage(ctx, id, bob))
	}

	// 批大小为 2，需要多批才能清完
	purged, err := f.reaper.PurgeConversation(ctx, res.ID)
	require.NoError(t, err)
	require.EqualValues(t, 5, purged)

	_, err = f.messages.GetByID(ctx, kept)
	require.NoError(t, err)
	_, err = f.messages.GetByID(ctx, msgIDs[0])
	require.True(t, repository.IsNotFound(err))

	// 会话记录保留
	again, err := f.messaging.OpenConversation(ctx, bob, alice)
	require.NoError(t, err)
	require.Equal(t, res.ID, again.ID)
}

func TestReaperService_SweepAndInvalidID(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	f.befriend(t, ids[0], ids[1])
	ctx := context.Background()

	msgID := f.send(t, ids[0], ids[1], "bye")
	require.NoError(t, f.messaging.DeleteMessage(ctx, msgID, ids[0]))

	purged, err := f.reaper.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, purged, "only one side deleted")

	require.NoError(t, f.messaging.DeleteMessage(ctx, msgID, ids[1]))
	purged, err = f.reaper.Sweep(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, err = f.reaper.PurgeConversation(ctx, 0)
	require.ErrorIs(t, err, service.ErrInvalidID)
}

func TestReaperService_HandleEvent(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	f.befriend(t, ids[0], ids[1])
	ctx := context.Background()

	res, err := f.messaging.SendMessage(ctx, ids[0], ids[1], "gone")
	require.NoError(t, err)
	require.NoError(t, f.messaging.DeleteConversation(ctx, res.Conversation.ID, ids[0]))
	require.NoError(t, f.messaging.DeleteConversation(ctx, res.Conversation.ID, ids[1]))

	require.NoError(t, f.reaper.HandleEvent(ctx, &service.Event{Type: service.EventMessageSent, ConversationID: res.Conversation.ID}))
	_, err = f.messages.GetByID(ctx, res.Message.ID)
	require.NoError(t, err, "unrelated events do not purge")

	require.NoError(t, f.reaper.HandleEvent(ctx, &service.Event{Type: service.EventConversationDeleted, ConversationID: res.Conversation.ID}))
	_, err = f.messages.GetByID(ctx, res.Message.ID)
	require.True(t, repository.IsNotFound(err))
}
