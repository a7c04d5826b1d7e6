package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"design-o-pedia-go/internal/config"
	"design-o-pedia-go/pkg/events"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewPublisher_NoBrokers(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{Topic: "usage"})
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), events.UsageEvent{Type: events.TypeReviewAdded}))
}

func TestPublish_WritesJSONKeyedBySession(t *testing.T) {
	w := &fakeWriter{}
	p := &kafkaPublisher{writer: w}
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), events.UsageEvent{
		Type:       events.TypeImageGenerated,
		SessionID:  "s1",
		FontSize:   40,
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "s1", string(w.msgs[0].Key))

	var got events.UsageEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, events.TypeImageGenerated, got.Type)
	assert.Equal(t, 40, got.FontSize)
	assert.True(t, at.Equal(got.OccurredAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublish_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := &kafkaPublisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), events.UsageEvent{Type: events.TypeTextExtracted})
	assert.ErrorIs(t, err, boom)
}
