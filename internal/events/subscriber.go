package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SubscriberConfig holds configuration for consuming the event topic
type SubscriberConfig struct {
	KafkaBrokers  []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewKafkaSubscriber creates a Watermill subscriber for the event topic
func NewKafkaSubscriber(config SubscriberConfig) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               config.KafkaBrokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         config.ConsumerGroup,
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return subscriber, nil
}

// DecodeEvent parses a published message back into an Event whose Data
// holds the typed payload for known event types. Unknown types keep the
// raw JSON.
func DecodeEvent(msg *message.Message) (*Event, error) {
	var envelope struct {
		Event
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event %s: %w", msg.UUID, err)
	}

	event := envelope.Event
	data, err := decodeData(event.Type, envelope.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}
	event.Data = data
	return &event, nil
}

func decodeData(t EventType, raw json.RawMessage) (interface{}, error) {
	var target interface{}
	switch t {
	case EventAttemptStarted:
		target = &AttemptStartedEvent{}
	case EventAnswerRecorded:
		target = &AnswerRecordedEvent{}
	case EventAttemptCompleted:
		target = &AttemptCompletedEvent{}
	case EventFeedbackGenerated:
		target = &FeedbackGeneratedEvent{}
	case EventFeedbackFailed:
		target = &FeedbackFailedEvent{}
	default:
		return raw, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return target, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	return target, nil
}
