package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/careview/careview/config"
	"github.com/careview/careview/internal/application"
	"github.com/careview/careview/pkg/helpers"
)

// notifier consumes review-created events and logs them. It is the hook
// point for downstream notification channels (email, chat webhooks).
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required for the notifier")
	}

	logger := helpers.NewLogger(cfg.AppName+"-notifier", cfg.Env)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.ReviewEventsQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.ReviewEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for msg := range msgs {
			var ev application.ReviewCreatedEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				logger.WithError(err).Warn("bad message")
				_ = msg.Nack(false, false)
				continue
			}
			logger.WithFields(map[string]interface{}{
				"review_id": ev.ReviewID,
				"user_id":   ev.UserID,
				"rating":    ev.Rating,
			}).Info("new review")
			_ = msg.Ack(false)
		}
	}()

	logger.Infof("notifier consuming from %s", cfg.ReviewEventsQueue)
	<-stop
	logger.Info("notifier stopped")
}
