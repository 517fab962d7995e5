package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"vida-social/internal/config"
	"vida-social/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestEventProducer_PublishEncodesEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &EventProducer{writer: w, topic: "events"}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), service.Event{
		Type:           service.EventMessageSent,
		ActorID:        3,
		TargetID:       7,
		ConversationID: 42,
		MessageID:      9,
		OccurredAt:     at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, "conversation-42", string(msg.Key))
	require.Equal(t, "event_type", msg.Headers[0].Key)
	require.Equal(t, "message.sent", string(msg.Headers[0].Value))

	event, err := decodeEvent(msg.Value)
	require.NoError(t, err)
	require.Equal(t, service.EventMessageSent, event.Type)
	require.EqualValues(t, 42, event.ConversationID)
	require.True(t, event.OccurredAt.Equal(at))

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestEventProducer_KeyFallsBackToActor(t *testing.T) {
	key := eventKey(service.Event{Type: service.EventUserFollowed, ActorID: 5, TargetID: 6})
	require.Equal(t, "user-5", string(key))
}

func TestEventProducer_PublishError(t *testing.T) {
	p := &EventProducer{writer: &fakeWriter{err: errors.New("no leader")}, topic: "events"}

	err := p.Publish(context.Background(), service.Event{Type: service.EventUserBlocked, ActorID: 1})
	require.ErrorContains(t, err, "no leader")
}

func TestNewEventProducer_RequiresTopic(t *testing.T) {
	_, err := NewEventProducer(&config.KafkaConfig{Brokers: []string{"127.0.0.1:9092"}})
	require.Error(t, err)

	_, err = NewEventProducer(&config.KafkaConfig{Topics: map[string]string{TopicSocialEvents: "events"}})
	require.Error(t, err)
}

func TestDecodeEvent_Rejects(t *testing.T) {
	_, err := decodeEvent([]byte("not json"))
	require.Error(t, err)

	_, err = decodeEvent([]byte(`{"actor_id": 1}`))
	require.Error(t, err)
}

func TestHandleMessage_CallsHandler(t *testing.T) {
	var got *service.Event
	handler := func(_ context.Context, e *service.Event) error {
		got = e
		return errors.New("ignored")
	}

	handleMessage(context.Background(), kafka.Message{Value: []byte("garbage")}, handler)
	require.Nil(t, got)

	msg, err := encodeEvent(service.Event{Type: service.EventConversationDeleted, ActorID: 2, ConversationID: 8})
	require.NoError(t, err)
	handleMessage(context.Background(), msg, handler)
	require.NotNil(t, got)
	require.EqualValues(t, 8, got.ConversationID)
}
