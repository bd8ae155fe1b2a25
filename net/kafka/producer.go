package kafka

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Config for the kafka connection
type Config struct {
	UseTLS  bool         `mapstructure:"use_tls"`
	Brokers []string     `mapstructure:"brokers"`
	Topic   string       `mapstructure:"topic"`
	Writer  WriterConfig `mapstructure:"writer"`
}

// WriterConfig tunes the batching of the producer
type WriterConfig struct {
	BatchSize    int   `mapstructure:"batch_size"`
	BatchBytes   int64 `mapstructure:"batch_bytes"`
	BatchTimeout int   `mapstructure:"batch_timeout"` // milliseconds
	Async        bool  `mapstructure:"async"`
}

// KafkaProducer publishes messages on a single topic
type KafkaProducer struct {
	writer *kafkaGo.Writer
	topic  string
}

// NewKafkaProducer creates a producer; no connection is made until the first write
func NewKafkaProducer(cfg WriterConfig, brokers []string, useTLS bool, topic string) *KafkaProducer {
	writer := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkaGo.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchBytes:   cfg.BatchBytes,
		BatchTimeout: time.Duration(cfg.BatchTimeout) * time.Millisecond,
		Async:        cfg.Async,
		RequiredAcks: kafkaGo.RequireAll,
	}
	if useTLS {
		writer.Transport = &kafkaGo.Transport{TLS: &tls.Config{MinVersion: tls.VersionTLS12}}
	}
	if cfg.Async {
		writer.Completion = func(messages []kafkaGo.Message, err error) {
			if err != nil {
				log.Error().Err(err).Str("section", "kafka").Str("topic", topic).Int("count", len(messages)).Msg("Unable to publish messages")
			}
		}
	}
	return &KafkaProducer{writer: writer, topic: topic}
}

// Topic the producer writes to
func (p *KafkaProducer) Topic() string {
	return p.topic
}

// WriteMessages publishes the messages in order
func (p *KafkaProducer) WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error {
	return p.writer.WriteMessages(ctx, msgs...)
}

// Close flushes pending messages and closes the connections
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
