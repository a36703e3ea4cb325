package kafka

import (
	"Folio/internal/model"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncPublisherSendsKeyedEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	evt := &model.InteractionEvent{Type: model.EventCommentLiked, ActorID: 3, PostID: 9, CommentID: 4, OccurredAt: time.Now()}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "9", string(key))
		assert.Equal(t, "folio-interactions", msg.Topic)

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var got model.InteractionEvent
		require.NoError(t, json.Unmarshal(value, &got))
		assert.Equal(t, model.EventCommentLiked, got.Type)
		assert.Equal(t, uint64(4), got.CommentID)
		return nil
	})

	pub := NewSyncPublisherWithProducer(producer, "folio-interactions")
	require.NoError(t, pub.Publish(context.Background(), evt))
	require.NoError(t, pub.Close())
}

func TestSyncPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewSyncPublisherWithProducer(producer, "t")
	err := pub.Publish(context.Background(), &model.InteractionEvent{Type: model.EventPostLiked, PostID: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

type recordingSink struct {
	mu     sync.Mutex
	events []*model.InteractionEvent
}

func (s *recordingSink) HandleEvent(_ context.Context, evt *model.InteractionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

type fakeSession struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (f *fakeSession) Claims() map[string][]int32                      { return nil }
func (f *fakeSession) MemberID() string                                { return "m" }
func (f *fakeSession) GenerationID() int32                             { return 1 }
func (f *fakeSession) MarkOffset(string, int32, int64, string)         {}
func (f *fakeSession) Commit()                                         {}
func (f *fakeSession) ResetOffset(string, int32, int64, string)        {}
func (f *fakeSession) Context() context.Context                        { return f.ctx }
func (f *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, msg.Offset)
}

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (f *fakeClaim) Topic() string                            { return "t" }
func (f *fakeClaim) Partition() int32                         { return 0 }
func (f *fakeClaim) InitialOffset() int64                     { return 0 }
func (f *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (f *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return f.ch }

func encode(t *testing.T, evt *model.InteractionEvent) []byte {
	t.Helper()
	b, err := json.Marshal(evt)
	require.NoError(t, err)
	return b
}

func TestNotificationHandlerFiltersAndMarks(t *testing.T) {
	sink := &recordingSink{}
	handler := NewNotificationHandler(sink)
	session := &fakeSession{ctx: context.Background()}
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 4)}

	claim.ch <- &sarama.ConsumerMessage{Offset: 1, Value: encode(t, &model.InteractionEvent{Type: model.EventCommentCreated, ParentCommentID: 2})}
	claim.ch <- &sarama.ConsumerMessage{Offset: 2, Value: encode(t, &model.InteractionEvent{Type: model.EventPostViewed})}
	claim.ch <- &sarama.ConsumerMessage{Offset: 3, Value: []byte("{broken")}
	claim.ch <- &sarama.ConsumerMessage{Offset: 4, Value: encode(t, &model.InteractionEvent{Type: model.EventCommentLiked})}
	close(claim.ch)

	require.NoError(t, handler.ConsumeClaim(session, claim))

	require.Len(t, sink.events, 2)
	assert.ElementsMatch(t, []model.EventType{model.EventCommentCreated, model.EventCommentLiked},
		[]model.EventType{sink.events[0].Type, sink.events[1].Type})
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, session.marked)
}
