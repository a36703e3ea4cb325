package kafka

import (
	"Folio/internal/api/config"
	"Folio/internal/model"
	"context"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Publisher 交互事件发布
type Publisher interface {
	Publish(ctx context.Context, evt *model.InteractionEvent) error
	Close() error
}

// SyncPublisher 以 postId 为 key 同步写入，同一帖子的事件保持分区内有序
type SyncPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSyncPublisher(cfg *config.Config) (*SyncPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewSyncPublisherWithProducer(producer, cfg.KafkaInteraction.Topic), nil
}

func NewSyncPublisherWithProducer(producer sarama.SyncProducer, topic string) *SyncPublisher {
	return &SyncPublisher{producer: producer, topic: topic}
}

func (p *SyncPublisher) Publish(_ context.Context, evt *model.InteractionEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "marshal interaction event")
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(evt.PostID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(evt.Type)},
		},
	})
	if err != nil {
		return errors.Wrapf(err, "send %s event", evt.Type)
	}
	return nil
}

func (p *SyncPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher 未启用 Kafka 时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *model.InteractionEvent) error { return nil }
func (NoopPublisher) Close() error                                           { return nil }
