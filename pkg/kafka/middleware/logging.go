package kafkamiddleware

import (
	"context"
	"time"

	"github.com/jayant413/contrashutter-backend/pkg/kafka"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
)

func LoggingProducer(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			log.WithContext(ctx).Error("Failed to publish message", append(attrs, "error", err)...)
		} else {
			log.WithContext(ctx).Debug("Published message", attrs...)
		}
		return err
	}
}

func LoggingConsumer(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"retry", msg.RetryCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			log.Warn("Failed to process message", append(attrs, "error", err)...)
		} else {
			log.Info("Processed message", attrs...)
		}
		return err
	}
}

// CorrelationContext copies the message correlation id into the context as the request id,
// so downstream logs line up with the HTTP request that produced the event.
func CorrelationContext() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		if id := msg.CorrelationID(); id != "" {
			ctx = logger.ContextWithRequestID(ctx, id)
		}
		return next(ctx, msg)
	}
}
