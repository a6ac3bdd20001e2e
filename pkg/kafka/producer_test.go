package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// --- Event tests ---

func TestNewEvent_Fields(t *testing.T) {
	type cartData struct {
		SessionID string `json:"session_id"`
		Items     int    `json:"items"`
	}

	data := cartData{SessionID: "sess-1", Items: 3}
	event, err := NewEvent(context.Background(), "storefront.cart.updated", "sess-1", "cart", "storefront-service", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "storefront.cart.updated", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, "storefront-service", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.Empty(t, event.CorrelationID)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)
	assert.NotNil(t, event.Metadata)

	var got cartData
	require.NoError(t, json.Unmarshal(event.Data, &got))
	assert.Equal(t, data, got)
}

func TestNewEvent_CorrelationIDFromContext(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-abc")

	event, err := NewEvent(ctx, "storefront.wishlist.updated", "sess-1", "wishlist", "svc", nil)
	require.NoError(t, err)
	assert.Equal(t, "corr-abc", event.CorrelationID)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent(context.Background(), "test.event", "agg-1", "test", "svc", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal test.event payload")
}

func TestEvent_MarshalUnmarshal(t *testing.T) {
	original, err := NewEvent(context.Background(), "storefront.cart.updated", "sess-9", "cart", "svc", map[string]int{"total_items": 2})
	require.NoError(t, err)
	original.WithMetadata("schema", "v1")

	raw, err := original.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, original.AggregateID, restored.AggregateID)
	assert.Equal(t, original.Metadata, restored.Metadata)
	assert.JSONEq(t, string(original.Data), string(restored.Data))
	assert.WithinDuration(t, original.Timestamp, restored.Timestamp, time.Millisecond)
}

func TestEvent_WithMetadata_NilMap(t *testing.T) {
	event := &Event{EventID: "e1"}

	result := event.WithMetadata("k", "v")

	assert.Same(t, event, result)
	assert.Equal(t, "v", event.Metadata["k"])
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{broken`))
	require.Error(t, err)

	_, err = UnmarshalEvent(nil)
	require.Error(t, err)
}

func TestEvent_UnmarshalData_Invalid(t *testing.T) {
	event := &Event{Data: json.RawMessage(`not json`)}
	var target map[string]any
	require.Error(t, event.UnmarshalData(&target))
}

// --- Producer tests ---

func TestDefaultProducerConfig(t *testing.T) {
	brokers := []string{"broker1:9092", "broker2:9092"}
	cfg := DefaultProducerConfig(brokers)

	assert.Equal(t, brokers, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.False(t, cfg.Async)
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, []string{"localhost:9092"}, discardLogger())
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	event, err := NewEvent(ctx, "storefront.cart.updated", "sess-1", "cart", "storefront-service", map[string]int{"n": 1})
	require.NoError(t, err)

	before := testutil.ToFloat64(ProducerMessagesPublished.WithLabelValues("publish-ok"))
	require.NoError(t, p.Publish(ctx, "publish-ok", event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "publish-ok", msg.Topic)
	assert.Equal(t, []byte("sess-1"), msg.Key)
	assert.Equal(t, "storefront.cart.updated", headerValue(msg, "event_type"))
	assert.Equal(t, "storefront-service", headerValue(msg, "source"))
	assert.Equal(t, "corr-1", headerValue(msg, "correlation_id"))

	decoded, err := UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, before+1, testutil.ToFloat64(ProducerMessagesPublished.WithLabelValues("publish-ok")))
}

func TestProducer_Publish_NoCorrelationHeader(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, discardLogger())
	event := &Event{EventID: "e1", EventType: "x", AggregateID: "a"}

	require.NoError(t, p.Publish(context.Background(), "no-corr", event))
	require.Len(t, w.msgs, 1)
	assert.Empty(t, headerValue(w.msgs[0], "correlation_id"))
}

func TestProducer_Publish_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newProducer(w, nil, discardLogger())
	event := &Event{EventID: "e1", EventType: "x", AggregateID: "a"}

	before := testutil.ToFloat64(ProducerPublishErrors.WithLabelValues("publish-fail"))
	err := p.Publish(context.Background(), "publish-fail", event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event to publish-fail")
	assert.Equal(t, before+1, testutil.ToFloat64(ProducerPublishErrors.WithLabelValues("publish-fail")))
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, discardLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewProducer_DoesNotConnect(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), discardLogger())
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	for _, brokers := range [][]string{nil, {}} {
		err := PingBrokers(t.Context(), brokers)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no brokers configured")
	}
}
