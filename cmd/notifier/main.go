package main

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jayant413/contrashutter-backend/internal/notifier"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	"github.com/jayant413/contrashutter-backend/pkg/kafka"
	kafkaconfig "github.com/jayant413/contrashutter-backend/pkg/kafka/config"
	kafkamiddleware "github.com/jayant413/contrashutter-backend/pkg/kafka/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/mailer"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("Notifier requires KAFKA_ENABLED=true")
	}

	kcfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(cfg.Log)

	var sender mailer.Sender = mailer.NewLogSender(cfg.Log)
	if cfg.SMTPEnabled() {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		cfg.Log.Warn("SMTP not configured, mail is only logged")
	}
	n := notifier.New(sender, cfg.AdminEmail, cfg.Log)

	metrics := kafkamiddleware.NewMetrics()
	consumers := []*kafka.Consumer{
		newConsumer(cfg, kcfg, metrics, cfg.BookingEventsTopic, n.HandleBooking),
		newConsumer(cfg, kcfg, metrics, cfg.ContactTopic, n.HandleContact),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "group_id", cfg.NotifierGroupID)
	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *kafka.Consumer) {
			defer wg.Done()
			if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				cfg.Log.Error("Consumer stopped", "error", err)
			}
		}(c)
	}
	wg.Wait()

	for _, c := range consumers {
		if err := c.Close(); err != nil {
			cfg.Log.Error("Failed to close consumer", "error", err)
		}
	}
	s := metrics.Snapshot()
	cfg.Log.Info("Notifier stopped",
		"consumed", s.Consumed,
		"failed", s.ConsumeFailed,
		"avg_duration", s.AvgConsumeDuration,
	)
}

func newConsumer(cfg *config.Config, kcfg *kafkaconfig.Config, metrics *kafkamiddleware.Metrics, topic string, handler kafka.MessageHandler) *kafka.Consumer {
	c, err := kafka.NewConsumer(kcfg, topic, cfg.NotifierGroupID, kcfg.DLQTopic(topic), handler, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err, "topic", topic)
	}
	c.Use(kafkamiddleware.CorrelationContext())
	c.Use(kafkamiddleware.LoggingConsumer(cfg.Log))
	c.Use(metrics.Consumer())
	return c
}
