package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/pkg/logger"
)

var tracer = otel.Tracer("favorites-kafka")

// Publisher sends favorite events to Kafka
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducerConfig returns an idempotent, ordered producer configuration
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "favorites-service"
	config.Version = sarama.V2_8_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Idempotent = true
	config.Producer.Retry.Max = 3
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.Compression = sarama.CompressionSnappy
	// Idempotence requires a single in-flight request per connection.
	config.Net.MaxOpenRequests = 1
	return config
}

// NewPublisher connects a producer to brokers and publishes to TopicFavoriteEvents
func NewPublisher(brokers []string) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("topic", TopicFavoriteEvents).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, TopicFavoriteEvents), nil
}

// NewPublisherWithProducer publishes through an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// PublishFavoriteEvent sends the event keyed by user, so one user's events land on one partition in order
func (p *Publisher) PublishFavoriteEvent(ctx context.Context, event domain.FavoriteEvent) error {
	ctx, span := tracer.Start(ctx, "kafka.publish "+event.EventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.String("event.type", event.EventType),
			attribute.String("event.id", event.EventID),
			attribute.Int64("user.id", event.UserID),
			attribute.Int64("product.id", event.ProductID),
		),
	)
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		return failed(span, "encode event", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(partitionKey(event.UserID)),
		Value:   sarama.ByteEncoder(payload),
		Headers: messageHeaders(ctx, event),
	})
	if err != nil {
		return failed(span, "send event", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	logger.Debug(ctx).
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Favorite event published")

	return nil
}

// Close flushes and closes the producer
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

func partitionKey(userID int64) string {
	return "user_" + strconv.FormatInt(userID, 10)
}

// messageHeaders carries the event metadata plus the W3C trace context of ctx
func messageHeaders(ctx context.Context, event domain.FavoriteEvent) []sarama.RecordHeader {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]sarama.RecordHeader, 0, len(carrier)+2)
	headers = append(headers,
		sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte(event.EventType)},
		sarama.RecordHeader{Key: []byte(HeaderEventID), Value: []byte(event.EventID)},
	)
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}
	return headers
}

func failed(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	return fmt.Errorf("%s: %w", op, err)
}
