package events

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaNotifier publishes notifications to a Kafka topic through an
// async producer. Send errors are drained and logged, never returned.
type KafkaNotifier struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *zap.Logger) (*KafkaNotifier, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	n := &KafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}

	go func() {
		for err := range producer.Errors() {
			n.logger.Warn("notification delivery failed", zap.Error(err))
		}
	}()

	return n, nil
}

func (n *KafkaNotifier) Emit(notification Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.Warn("notification not serializable", zap.Error(err))
		return
	}

	n.producer.Input() <- &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(notification.To),
		Value: sarama.ByteEncoder(payload),
	}
}

func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
