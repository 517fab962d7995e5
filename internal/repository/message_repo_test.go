package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vida-social/internal/model"
	"vida-social/internal/repository"
	"vida-social/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type messageFixture struct {
	db    *gorm.DB
	repo  *repository.MessageRepository
	conv  *model.Conversation
	alice int64
	bob   int64
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	db := testutil.NewDB(t)
	ids := testutil.SeedUsers(t, db, "alice", "bob")
	conv, err := repository.NewConversationRepository(db).GetOrCreate(context.Background(), ids[0], ids[1])
	require.NoError(t, err)
	return &messageFixture{
		db:    db,
		repo:  repository.NewMessageRepository(db),
		conv:  conv,
		alice: ids[0],
		bob:   ids[1],
	}
}

func (f *messageFixture) append(t *testing.T, sender int64, body string, at time.Time) *model.Message {
	t.Helper()
	msg, err := f.repo.Append(context.Background(), f.conv.ID, sender, body, at)
	require.NoError(t, err)
	return msg
}

func bodies(msgs []model.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Body)
	}
	return out
}

func TestMessageRepository_FindVisibleToOrdering(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	f.append(t, f.alice, "one", base)
	f.append(t, f.bob, "two", base.Add(time.Second))
	f.append(t, f.alice, "three", base.Add(2*time.Second))

	asc, err := f.repo.FindVisibleTo(ctx, f.conv.ID, f.bob, 0, 10, repository.SortAsc)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "three"}, bodies(asc))

	desc, err := f.repo.FindVisibleTo(ctx, f.conv.ID, f.bob, 0, 2, repository.SortDesc)
	require.NoError(t, err)
	require.Equal(t, []string{"three", "two"}, bodies(desc))

	last, err := f.repo.GetLastVisible(ctx, f.conv.ID, f.alice)
	require.NoError(t, err)
	require.Equal(t, "three", last.Body)
}

func TestMessageRepository_VisibilityIsPerParticipant(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	fromAlice := f.append(t, f.alice, "from alice", base)
	fromBob := f.append(t, f.bob, "from bob", base.Add(time.Second))

	require.NoError(t, f.repo.SoftDeleteForSender(ctx, fromAlice.ID))
	require.NoError(t, f.repo.SoftDeleteForRecipient(ctx, fromBob.ID))

	aliceView, err := f.repo.FindVisibleTo(ctx, f.conv.ID, f.alice, 0, 10, repository.SortAsc)
	require.NoError(t, err)
	require.Empty(t, aliceView)

	// 两条删除都只影响 alice 一侧
	bobView, err := f.repo.FindVisibleTo(ctx, f.conv.ID, f.bob, 0, 10, repository.SortAsc)
	require.NoError(t, err)
	require.Equal(t, []string{"from alice", "from bob"}, bodies(bobView))

	// 重复删除无副作用
	require.NoError(t, f.repo.SoftDeleteForSender(ctx, fromAlice.ID))
}

func TestMessageRepository_GetLastVisibleEmpty(t *testing.T) {
	f := newMessageFixture(t)

	last, err := f.repo.GetLastVisible(context.Background(), f.conv.ID, f.alice)
	require.NoError(t, err)
	require.Nil(t, last)
}

func TestMessageRepository_UnreadAndMarkRead(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	f.append(t, f.alice, "a1", base)
	f.append(t, f.alice, "a2", base.Add(time.Second))
	hidden := f.append(t, f.alice, "a3", base.Add(2*time.Second))
	f.append(t, f.bob, "b1", base.Add(3*time.Second))

	require.NoError(t, f.repo.SoftDeleteForRecipient(ctx, hidden.ID))

	unread, err := f.repo.CountUnreadFor(ctx, f.conv.ID, f.bob)
	require.NoError(t, err)
	require.EqualValues(t, 2, unread, "messages the recipient deleted are not counted")

	total, err := f.repo.CountUnreadForUser(ctx, f.bob)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	unread, err = f.repo.CountUnreadFor(ctx, f.conv.ID, f.alice)
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	marked, err := f.repo.MarkReadFor(ctx, f.conv.ID, f.bob)
	require.NoError(t, err)
	require.EqualValues(t, 3, marked)

	unread, err = f.repo.CountUnreadFor(ctx, f.conv.ID, f.bob)
	require.NoError(t, err)
	require.Zero(t, unread)

	// alice 的未读不受 bob 已读影响
	unread, err = f.repo.CountUnreadFor(ctx, f.conv.ID, f.alice)
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	marked, err = f.repo.MarkReadFor(ctx, f.conv.ID, f.bob)
	require.NoError(t, err)
	require.Zero(t, marked)
}

func TestMessageRepository_SoftDeleteConversationFor(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	f.append(t, f.alice, "a1", base)
	f.append(t, f.bob, "b1", base.Add(time.Second))

	require.NoError(t, f.repo.SoftDeleteConversationFor(ctx, f.conv.ID, f.alice))

	aliceView, err := f.repo.FindVisibleTo(ctx, f.conv.ID, f.alice, 0, 10, repository.SortAsc)
	require.NoError(t, err)
	require.Empty(t, aliceView)

	bobView, err := f.repo.FindVisibleTo(ctx, f.conv.ID, f.bob, 0, 10, repository.SortAsc)
	require.NoError(t, err)
	require.Equal(t, []string{"a1", "b1"}, bodies(bobView))

	// 删除后新消息重新可见
	f.append(t, f.bob, "b2", base.Add(2*time.Second))
	aliceView, err = f.repo.FindVisibleTo(ctx, f.conv.ID, f.alice, 0, 10, repository.SortAsc)
	require.NoError(t, err)
	require.Equal(t, []string{"b2"}, bodies(aliceView))
}

func TestMessageRepository_PurgeFullyDeleted(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-2 * time.Hour)

	both := f.append(t, f.alice, "both", base)
	senderOnly := f.append(t, f.alice, "sender only", base.Add(time.Second))
	recent := f.append(t, f.bob, "recent", time.Now())

	require.NoError(t, f.repo.SoftDeleteForSender(ctx, both.ID))
	require.NoError(t, f.repo.SoftDeleteForRecipient(ctx, both.ID))
	require.NoError(t, f.repo.SoftDeleteForSender(ctx, senderOnly.ID))
	require.NoError(t, f.repo.SoftDeleteForSender(ctx, recent.ID))
	require.NoError(t, f.repo.SoftDeleteForRecipient(ctx, recent.ID))

	purged, err := f.repo.PurgeFullyDeleted(ctx, f.conv.ID, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged, "messages inside the grace period are kept")

	_, err = f.repo.GetByID(ctx, both.ID)
	require.True(t, repository.IsNotFound(err))

	_, err = f.repo.GetByID(ctx, senderOnly.ID)
	require.NoError(t, err)

	purged, err = f.repo.PurgeFullyDeleted(ctx, 0, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)
}

func TestMessageRepository_AppendAdvancesLastMessageAt(t *testing.T) {
	f := newMessageFixture(t)
	at := f.conv.LastMessageAt.Add(time.Hour)

	f.append(t, f.alice, "hi", at)

	var conv model.Conversation
	require.NoError(t, f.db.First(&conv, f.conv.ID).Error)
	require.WithinDuration(t, at, conv.LastMessageAt, time.Second)
}

func TestMessageRepository_AppendRollsBackOnConversationUpdateFailure(t *testing.T) {
	f := newMessageFixture(t)
	errLocked := errors.New("conversation locked")
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_conversation_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "conversations" {
			_ = tx.AddError(errLocked)
		}
	}))

	_, err := f.repo.Append(context.Background(), f.conv.ID, f.alice, "hi", f.conv.LastMessageAt.Add(time.Hour))
	require.ErrorIs(t, err, errLocked)

	var count int64
	require.NoError(t, f.db.Model(&model.Message{}).Count(&count).Error)
	require.Zero(t, count)
}
