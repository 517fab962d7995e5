package service_test

import (
	"context"
	"testing"

	"vida-social/internal/service"

	"github.com/stretchr/testify/require"
)

func TestBlockService_BlockSelf(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice")

	_, err := f.blocks.Block(context.Background(), ids[0], ids[0])
	require.ErrorIs(t, err, service.ErrCannotBlockSelf)
}

func TestBlockService_BlockUnknownUser(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice")

	_, err := f.blocks.Block(context.Background(), ids[0], 999)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestBlockService_BlockAndUnblock(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	alice, bob := ids[0], ids[1]
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := f.blocks.Block(ctx, alice, bob)
		require.NoError(t, err)
		require.True(t, res.IsBlocked)
	}

	blocked, err := f.blocks.IsBlocked(ctx, alice, bob)
	require.NoError(t, err)
	require.True(t, blocked)

	between, err := f.blocks.HasBlockBetween(ctx, bob, alice)
	require.NoError(t, err)
	require.True(t, between)

	list, err := f.blocks.GetBlockedList(ctx, alice, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "bob", list[0].Username)

	for i := 0; i < 2; i++ {
		res, err := f.blocks.Unblock(ctx, alice, bob)
		require.NoError(t, err)
		require.False(t, res.IsBlocked)
	}

	require.Equal(t, []service.EventType{service.EventUserBlocked, service.EventUserUnblocked}, f.events.types())
}

func TestBlockService_BlockKeepsFollowEdges(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "alice", "bob")
	ctx := context.Background()

	f.befriend(t, ids[0], ids[1])
	_, err := f.blocks.Block(ctx, ids[0], ids[1])
	require.NoError(t, err)

	mutual, err := f.relations.AreMutualFollows(ctx, ids[0], ids[1])
	require.NoError(t, err)
	require.True(t, mutual)
}
