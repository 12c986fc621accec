package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/cache"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/config"
	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/metrics"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const eventTypeHeader = "event-type"

// Stock event types that change availability
const (
	EventStockAdjusted = "StockAdjusted"
	EventStockReserved = "StockReserved"
	EventStockReleased = "StockReleased"
	EventItemUpdated   = "InventoryItemUpdated"
)

// StockEvent is the payload of a stock event. PartNumber may be empty for
// bulk changes, which invalidate every peak entry.
type StockEvent struct {
	PartNumber string `json:"partNumber"`
	Branch     string `json:"branch"`
	Qty        int    `json:"qty"`
}

// Reloader replaces the served dataset with the latest snapshot.
// repository.SnapshotRepository implements it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Consumer reads stock events, reloads the inventory snapshot and
// invalidates the response cache
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	handler       *stockEventHandler
	logger        *zap.Logger
	topics        []string
	groupID       string
}

// NewConsumer creates a consumer group for the stock topic. responseCache may
// be nil when the API runs without one.
func NewConsumer(cfg *config.Config, reloader Reloader, responseCache cache.Cache, logger *zap.Logger) (*Consumer, error) {
	logger.Info("Creating Kafka consumer",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group_id", cfg.KafkaGroupID),
		zap.String("topic", cfg.KafkaTopicStock),
	)

	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Version = sarama.V2_8_0_0
	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second
	saramaConfig.Metadata.Retry.Max = 3
	saramaConfig.Metadata.Retry.Backoff = 250 * time.Millisecond

	consumerGroup, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		consumerGroup: consumerGroup,
		handler:       newStockEventHandler(reloader, responseCache, logger),
		logger:        logger,
		topics:        []string{cfg.KafkaTopicStock},
		groupID:       cfg.KafkaGroupID,
	}, nil
}

// Start consumes until ctx is done or the group fails
func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.consumerGroup.Errors() {
			c.logger.Error("Consumer error", zap.Error(err))
		}
	}()

	c.logger.Info("Kafka consumer started for snapshot reloads",
		zap.Strings("topics", c.topics),
		zap.String("group_id", c.groupID),
	)

	for {
		// Consume returns on every rebalance
		if err := c.consumerGroup.Consume(ctx, c.topics, c.handler); err != nil {
			return fmt.Errorf("consume: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close closes the consumer group
func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

// stockEventHandler reloads the snapshot on every stock event, then drops the
// cached search and peak responses the event affects
type stockEventHandler struct {
	reloader Reloader
	cache    cache.Cache
	logger   *zap.Logger
}

func newStockEventHandler(reloader Reloader, responseCache cache.Cache, logger *zap.Logger) *stockEventHandler {
	return &stockEventHandler{reloader: reloader, cache: responseCache, logger: logger}
}

func (h *stockEventHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *stockEventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim processes messages one at a time. Every message is marked,
// including ones that could not be applied.
func (h *stockEventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			eventType := extractEventType(message.Headers)
			if err := h.handle(session.Context(), eventType, message.Value); err != nil {
				h.logger.Warn("Failed to apply stock event",
					zap.String("event_type", eventType),
					zap.String("topic", message.Topic),
					zap.Int32("partition", message.Partition),
					zap.Int64("offset", message.Offset),
					zap.Error(err),
				)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *stockEventHandler) handle(ctx context.Context, eventType string, payload []byte) error {
	switch eventType {
	case EventStockAdjusted, EventStockReserved, EventStockReleased, EventItemUpdated:
	case "":
		return fmt.Errorf("message without %s header", eventTypeHeader)
	default:
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	var event StockEvent
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", eventType, err)
		}
	}

	// reload first so invalidated keys are rebuilt from the new dataset
	if err := h.reloader.Reload(ctx); err != nil {
		metrics.SnapshotReloads.WithLabelValues("failure").Inc()
		return err
	}
	metrics.SnapshotReloads.WithLabelValues("success").Inc()

	if h.cache != nil {
		// totals and filters over availability may change on any stock event
		patterns := []string{cache.SearchPattern}
		if pn := strings.TrimSpace(event.PartNumber); pn != "" {
			patterns = append(patterns, cache.PeakKey(pn))
		} else {
			patterns = append(patterns, cache.PeakPattern)
		}

		for _, pattern := range patterns {
			if err := h.cache.DeleteByPattern(ctx, pattern); err != nil {
				return fmt.Errorf("invalidate %q: %w", pattern, err)
			}
		}
	}

	h.logger.Debug("Stock event applied",
		zap.String("event_type", eventType),
		zap.String("part_number", event.PartNumber),
		zap.String("branch", event.Branch),
	)
	return nil
}

func extractEventType(headers []*sarama.RecordHeader) string {
	for _, header := range headers {
		if header != nil && string(header.Key) == eventTypeHeader {
			return string(header.Value)
		}
	}
	return ""
}
