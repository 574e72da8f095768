package listeners

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/logger"
)

const publishEventJob = "publish_event"

// Publisher ships an encoded event to the outside world.
type Publisher interface {
	Publish(ctx context.Context, event, key string, body []byte) error
}

var (
	pubMu     sync.RWMutex
	publisher Publisher
)

// UsePublisher installs p. nil turns forwarding off.
func UsePublisher(p Publisher) {
	pubMu.Lock()
	publisher = p
	pubMu.Unlock()
}

func currentPublisher() Publisher {
	pubMu.RLock()
	defer pubMu.RUnlock()
	return publisher
}

// Connect installs a Kafka publisher when KAFKA_BROKERS is set and returns
// a func that closes it.
func Connect() (closeFn func() error) {
	brokers := config.KafkaBrokers()
	if len(brokers) == 0 {
		logger.Info("listeners: kafka disabled, no brokers configured")
		return func() error { return nil }
	}
	p := NewKafkaPublisher(brokers, config.KafkaTopic())
	UsePublisher(p)
	logger.Info("listeners: kafka publisher ready", "brokers", brokers, "topic", config.KafkaTopic())
	return func() error {
		UsePublisher(nil)
		return p.Close()
	}
}

// KafkaPublisher writes events to one topic, keyed for partitioning.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event, key string, body []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   body,
		Headers: []kafka.Header{{Key: "event", Value: []byte(event)}},
	})
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// PublishEventJob carries one event through the queue so a broker outage
// is retried instead of lost.
type PublishEventJob struct {
	Event string          `json:"event"`
	Key   string          `json:"key"`
	Body  json.RawMessage `json:"body"`
}

func (PublishEventJob) JobName() string { return publishEventJob }

func (j *PublishEventJob) Handle(ctx context.Context) error {
	p := currentPublisher()
	if p == nil {
		logger.WithCtx(ctx).Warn("listeners: no publisher, dropping event", "event", j.Event)
		return nil
	}
	return p.Publish(ctx, j.Event, j.Key, j.Body)
}
