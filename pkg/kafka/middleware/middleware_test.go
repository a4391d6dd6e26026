package kafkamiddleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jayant413/contrashutter-backend/pkg/kafka"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	ok := func(context.Context, kafka.Message) error { return nil }
	fail := func(context.Context, kafka.Message) error { return errors.New("x") }

	_ = m.Producer()(context.Background(), kafka.Message{}, ok)
	_ = m.Producer()(context.Background(), kafka.Message{}, fail)
	_ = m.Consumer()(context.Background(), kafka.Message{}, ok)

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.Published)
	assert.Equal(t, int64(1), s.PublishFailed)
	assert.Equal(t, int64(1), s.Consumed)
	assert.Zero(t, s.ConsumeFailed)
}

func TestCorrelationContext(t *testing.T) {
	msg := kafka.Message{Headers: map[string]string{kafka.HeaderCorrelationID: "req-9"}}

	var got string
	err := CorrelationContext()(context.Background(), msg, func(ctx context.Context, _ kafka.Message) error {
		got = logger.RequestIDFromContext(ctx)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "req-9", got)
}

func TestLoggingPassesErrorThrough(t *testing.T) {
	want := errors.New("boom")
	err := LoggingConsumer(logger.Discard())(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}
