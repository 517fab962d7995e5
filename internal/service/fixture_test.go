package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"vida-social/internal/model"
	"vida-social/internal/repository"
	"vida-social/internal/service"
	"vida-social/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingPublisher 记录发布的事件，可注入失败
type recordingPublisher struct {
	mu     sync.Mutex
	events []service.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event service.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []service.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]service.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	settings  *service.StaticSettings
	events    *recordingPublisher
	relations *service.RelationService
	blocks    *service.BlockService
	messaging *service.MessagingService
	reaper    *service.ReaperService
	messages  *repository.MessageRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	blocks := repository.NewBlockRepository(db)
	convs := repository.NewConversationRepository(db)
	msgs := repository.NewMessageRepository(db)

	settings := &service.StaticSettings{Enabled: true, MaxLength: 500}
	events := &recordingPublisher{}

	return &fixture{
		db:        db,
		settings:  settings,
		events:    events,
		relations: service.NewRelationService(follows, users, events),
		blocks:    service.NewBlockService(blocks, users, events),
		messaging: service.NewMessagingService(service.MessagingStores{
			Users:         users,
			Follows:       follows,
			Blocks:        blocks,
			Conversations: convs,
			Messages:      msgs,
		}, settings, events),
		reaper:   service.NewReaperService(msgs, 2, 0),
		messages: msgs,
	}
}

func (f *fixture) seed(t *testing.T, names ...string) []int64 {
	t.Helper()
	return testutil.SeedUsers(t, f.db, names...)
}

// befriend 建立互相关注
func (f *fixture) befriend(t *testing.T, a, b int64) {
	t.Helper()
	ctx := context.Background()
	_, err := f.relations.Follow(ctx, a, b)
	require.NoError(t, err)
	_, err = f.relations.Follow(ctx, b, a)
	require.NoError(t, err)
}

func (f *fixture) setUserFlag(t *testing.T, id int64, column string) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", id).Update(column, true).Error)
}

func (f *fixture) send(t *testing.T, from, to int64, body string) int64 {
	t.Helper()
	res, err := f.messaging.SendMessage(context.Background(), from, to, body)
	require.NoError(t, err)
	return res.Message.ID
}

var errBrokerDown = errors.New("broker down")
