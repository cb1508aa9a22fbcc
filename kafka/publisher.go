package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/panpal/panpal/pkg/logger"
)

// Publisher wraps a synchronous Kafka producer.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{producer: producer, brokers: brokers}, nil
}

// PublishFavoriteChanged publishes a favorite change with trace propagation.
func (p *Publisher) PublishFavoriteChanged(ctx context.Context, event FavoriteChangedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.favorite_changed",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicFavoriteChanged),
			attribute.String("event.type", EventTypeFavoriteChanged),
			attribute.Int64("recipe.id", int64(event.RecipeID)),
			attribute.Int64("user.id", int64(event.UserID)),
			attribute.Bool("favorite.added", event.Favorited),
		),
	)
	defer span.End()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeFavoriteChanged
	event.Timestamp = time.Now()

	span.SetAttributes(attribute.String("event.id", event.EventID))

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Carry trace context in message headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(EventTypeFavoriteChanged)},
		{Key: []byte("event_id"), Value: []byte(event.EventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(key),
			Value: []byte(value),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   TopicFavoriteChanged,
		Key:     sarama.StringEncoder(fmt.Sprintf("recipe_%d", event.RecipeID)),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicFavoriteChanged).
			Uint("recipe_id", event.RecipeID).
			Msg("Failed to publish favorite change")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published")

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Str("topic", TopicFavoriteChanged).
		Int32("partition", partition).
		Int64("offset", offset).
		Uint("recipe_id", event.RecipeID).
		Bool("favorited", event.Favorited).
		Msg("Favorite changed event published")

	return nil
}

// Close closes the producer.
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
