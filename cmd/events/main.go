// Command events tails the interview event topic and prints each decoded
// event as one JSON line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SAP-F-2025/interview-service/internal/events"
	"github.com/SAP-F-2025/interview-service/internal/utils"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	brokers := flag.String("brokers", envOr("KAFKA_BROKERS", "localhost:9092"), "comma separated Kafka brokers")
	topic := flag.String("topic", envOr("EVENTS_TOPIC", "interview-events"), "topic to consume")
	group := flag.String("group", "interview-events-tail", "consumer group")
	only := flag.String("type", "", "print only events of this type, e.g. attempt.completed")
	flag.Parse()

	logger := utils.NewLogger(envOr("ENVIRONMENT", "development"))
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var brokerList []string
	for _, b := range strings.Split(*brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokerList = append(brokerList, b)
		}
	}

	subscriber, err := events.NewKafkaSubscriber(events.SubscriberConfig{
		KafkaBrokers:  brokerList,
		ConsumerGroup: *group,
		Logger:        slogger,
	})
	if err != nil {
		logger.LogError(err, "Failed to start subscriber")
		os.Exit(1)
	}
	defer subscriber.Close()

	messages, err := subscriber.Subscribe(ctx, *topic)
	if err != nil {
		logger.LogError(err, "Failed to subscribe", "topic", *topic)
		os.Exit(1)
	}

	logger.Info("Tailing events", "topic", *topic, "brokers", brokerList)

	enc := json.NewEncoder(os.Stdout)
	for msg := range messages {
		event, err := events.DecodeEvent(msg)
		if err != nil {
			logger.Warn("Skipping undecodable message", "message_id", msg.UUID, "error", err)
			msg.Ack()
			continue
		}
		if *only == "" || string(event.Type) == *only {
			if err := enc.Encode(event); err != nil {
				logger.LogError(err, "Failed to write event", "event_id", event.ID)
			}
		}
		msg.Ack()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
