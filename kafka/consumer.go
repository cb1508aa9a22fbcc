package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/panpal/panpal/pkg/logger"
)

// EventHandler handles a decoded favorite change event.
type EventHandler func(ctx context.Context, event FavoriteChangedEvent) error

// Consumer wraps a Kafka consumer group with per-event-type handlers.
type Consumer struct {
	consumer      sarama.ConsumerGroup
	groupID       string
	topics        []string
	handlers      map[string]EventHandler
	handlersMutex sync.RWMutex
}

// NewConsumer creates a consumer group for the given topics.
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return &Consumer{
		consumer: consumer,
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]EventHandler),
	}, nil
}

// RegisterHandler registers a handler for an event type.
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.handlersMutex.Lock()
	defer c.handlersMutex.Unlock()
	c.handlers[eventType] = handler
}

// Start begins consuming in the background until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{consumer: c}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Logger.Info().Msg("Consumer context cancelled, stopping")
				return
			default:
				if err := c.consumer.Consume(ctx, c.topics, handler); err != nil {
					logger.Logger.Error().Err(err).Msg("Error from consumer")
				}
			}
		}
	}()

	go func() {
		for err := range c.consumer.Errors() {
			logger.Logger.Error().Err(err).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")

	return nil
}

// Close closes the consumer group.
func (c *Consumer) Close() error {
	if c.consumer != nil {
		return c.consumer.Close()
	}
	return nil
}

type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.handleMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *consumerGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	// Restore trace context from headers
	carrier := propagation.MapCarrier{}
	eventType := ""
	eventID := ""
	for _, header := range message.Headers {
		switch key := string(header.Key); key {
		case "traceparent", "tracestate":
			carrier[key] = string(header.Value)
		case "event_type":
			eventType = string(header.Value)
		case "event_id":
			eventID = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	tracer := otel.Tracer("kafka-consumer")
	ctx, span := tracer.Start(ctx, "kafka.consume.favorite_changed",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
	)
	defer span.End()

	if eventType == "" {
		span.SetStatus(codes.Error, "Message without event_type header")
		logger.Logger.Warn().Msg("Message without event_type header")
		return
	}

	h.consumer.handlersMutex.RLock()
	handler, exists := h.consumer.handlers[eventType]
	h.consumer.handlersMutex.RUnlock()

	if !exists {
		span.SetStatus(codes.Error, "No handler registered")
		logger.Logger.Warn().
			Str("event_type", eventType).
			Msg("No handler registered for event type")
		return
	}

	switch eventType {
	case EventTypeFavoriteChanged:
		var event FavoriteChangedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to unmarshal event")
			logger.Logger.Error().
				Err(err).
				Str("event_type", eventType).
				Msg("Failed to unmarshal event")
			return
		}

		span.SetAttributes(
			attribute.Int64("recipe.id", int64(event.RecipeID)),
			attribute.Bool("favorite.added", event.Favorited),
		)

		if err := handler(ctx, event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to handle event")
			logger.Logger.Error().
				Err(err).
				Str("event_id", event.EventID).
				Uint("recipe_id", event.RecipeID).
				Msg("Failed to handle favorite change")
			return
		}

		span.SetStatus(codes.Ok, "Event handled")
		logger.Logger.Debug().
			Str("event_id", event.EventID).
			Uint("recipe_id", event.RecipeID).
			Bool("favorited", event.Favorited).
			Msg("Favorite change handled")

	default:
		span.SetStatus(codes.Error, "Unknown event type")
		logger.Logger.Warn().
			Str("event_type", eventType).
			Msg("Unknown event type")
	}
}
