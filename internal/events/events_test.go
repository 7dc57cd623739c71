package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "shopfront/internal/log"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublishKeysByStore(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaWriter(w)
	require.NoError(t, p.Publish(context.Background(), Event{
		Type: NewsletterSubscribed, StoreID: "store-1", Data: map[string]any{"email": "a@b.co"},
	}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "store-1", string(w.msgs[0].Key))
	assert.Equal(t, NewsletterSubscribed, string(w.msgs[0].Headers[0].Value))

	var e Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &e))
	assert.Equal(t, "a@b.co", e.Data["email"])
	assert.False(t, e.At.IsZero())
}

func TestKafkaPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewKafkaWriter(&fakeWriter{err: boom})
	err := p.Publish(context.Background(), Event{Type: OrderPlaced})
	assert.ErrorIs(t, err, boom)
}

func TestNewFallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	defer applog.SetOutput(io.Discard)

	p := New(" , ", "topic")
	require.IsType(t, Log{}, p)
	require.NoError(t, p.Publish(context.Background(), Event{Type: OrderPlaced, StoreID: "s"}))
	assert.Contains(t, buf.String(), `"action":"event.order.placed"`)

	assert.IsType(t, &Kafka{}, New("localhost:9092", "topic"))
}
