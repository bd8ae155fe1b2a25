package audit

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// partitionKey keeps every audit record on one partition so consumers see them in commit order
var partitionKey = []byte("distribution")

// Envelope is the published form of an audit event
type Envelope struct {
	ID        string          `json:"id"`
	Type      model.EventType `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   model.Event     `json:"payload"`
}

// NewEnvelope wraps an event with a unique id
func NewEnvelope(event model.Event) *Envelope {
	return &Envelope{
		ID:        xid.New().String(),
		Type:      event.EventType(),
		Timestamp: event.UnixTime(),
		Payload:   event,
	}
}

// Publisher writes messages to the event stream
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
}

// LogSink writes every event to the structured log
type LogSink struct{}

// Emit implements distribution.EventSink
func (LogSink) Emit(ctx context.Context, events ...model.Event) {
	for _, event := range events {
		log.Info().Str("section", "audit").
			Str("event", string(event.EventType())).
			Int64("timestamp", event.UnixTime()).
			Interface("payload", event).
			Msg("Audit event")
	}
}

// KafkaSink publishes events as JSON envelopes
type KafkaSink struct {
	publisher Publisher
}

// NewKafkaSink creates a sink on top of a publisher
func NewKafkaSink(publisher Publisher) *KafkaSink {
	return &KafkaSink{publisher: publisher}
}

// Emit implements distribution.EventSink. Events were already committed so a
// publishing failure is logged and never undoes the operation.
func (sink *KafkaSink) Emit(ctx context.Context, events ...model.Event) {
	msgs := make([]kafkaGo.Message, 0, len(events))
	for _, event := range events {
		bytes, err := json.Marshal(NewEnvelope(event))
		if err != nil {
			log.Error().Err(err).Str("section", "audit").Str("event", string(event.EventType())).Msg("Unable to encode audit event")
			continue
		}
		msgs = append(msgs, kafkaGo.Message{Key: partitionKey, Value: bytes})
	}
	if len(msgs) == 0 {
		return
	}
	if err := sink.publisher.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("section", "audit").Int("count", len(msgs)).Msg("Unable to publish audit events")
	}
}

// Sink is the subset of distribution.EventSink the fan-out needs
type Sink interface {
	Emit(ctx context.Context, events ...model.Event)
}

// Multi fans every event out to each sink in order
type Multi []Sink

// Emit implements distribution.EventSink
func (m Multi) Emit(ctx context.Context, events ...model.Event) {
	for _, sink := range m {
		sink.Emit(ctx, events...)
	}
}
