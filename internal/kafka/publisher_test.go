package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event StockEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.PartNumber != "PN-1000" || event.Qty != 3 {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := newPublisher(producer, "inventory.stock", zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), EventStockAdjusted, StockEvent{PartNumber: "PN-1000", Branch: "SEA", Qty: 3}))
	require.NoError(t, p.Close())
}

func TestPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newPublisher(producer, "inventory.stock", zap.NewNop())
	err := p.Publish(context.Background(), EventItemUpdated, StockEvent{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestPublisher_CancelledContextSendsNothing(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPublisher(producer, "inventory.stock", zap.NewNop())
	assert.Error(t, p.Publish(ctx, EventItemUpdated, StockEvent{}))
	require.NoError(t, p.Close())
}

// Published messages are what the consumer understands
func TestPublisher_MessageRoundTripsThroughConsumer(t *testing.T) {
	p := newPublisher(nil, "inventory.stock", zap.NewNop())
	msg, err := p.newMessage(EventStockReserved, StockEvent{PartNumber: "PN-1000", Qty: 2})
	require.NoError(t, err)

	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "PN-1000", string(key))

	value, err := msg.Value.Encode()
	require.NoError(t, err)

	headers := make([]*sarama.RecordHeader, len(msg.Headers))
	for i := range msg.Headers {
		headers[i] = &msg.Headers[i]
	}
	assert.Equal(t, EventStockReserved, extractEventType(headers))

	reloader := &countingReloader{}
	h := newStockEventHandler(reloader, nil, zap.NewNop())
	require.NoError(t, h.handle(context.Background(), extractEventType(headers), value))
	assert.Equal(t, 1, reloader.calls)

	bulk, err := p.newMessage(EventItemUpdated, StockEvent{})
	require.NoError(t, err)
	assert.Nil(t, bulk.Key)
}
