package kafka

import (
	"Folio/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	notifyConsumer sarama.ConsumerGroup
	notifyHandler  sarama.ConsumerGroupHandler
	topic          string
}

func NewConsumerManager(cfg *config.Config, sink EventSink) (*ConsumerManager, error) {
	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaNotifyConsumer.GroupID, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, errors.Wrap(err, "create notification consumer group")
	}
	topic := cfg.KafkaNotifyConsumer.Topic
	if topic == "" {
		topic = cfg.KafkaInteraction.Topic
	}
	return &ConsumerManager{
		notifyConsumer: group,
		notifyHandler:  NewNotificationHandler(sink),
		topic:          topic,
	}, nil
}

// Start 阻塞运行直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.notifyConsumer.Errors() {
			log.Error("notification consumer group error", "err", err)
		}
	}()

	go func() {
		log.Info("Notification consumer started", "topic", m.topic)
		for {
			if err := m.notifyConsumer.Consume(ctx, []string{m.topic}, m.notifyHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notifyConsumer.Close(); err != nil {
		log.Error("Failed to close notification consumer", "err", err)
	}
	return nil
}
