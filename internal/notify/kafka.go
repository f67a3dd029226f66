// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/palisade/internal/detection"
	"github.com/tomtom215/palisade/internal/logging"
)

// KafkaConfig configures a KafkaNotifier.
type KafkaConfig struct {
	Name         string
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	Breaker      BreakerConfig
}

// messageWriter is the subset of *kafka.Writer the notifier needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes alerts to a Kafka topic, keyed by source address
// so alerts for one address stay ordered within a partition.
type KafkaNotifier struct {
	name   string
	topic  string
	writer messageWriter
	cb     *gobreaker.CircuitBreaker[struct{}]
}

// NewKafkaNotifier builds a synchronous writer for cfg.Topic. No connection
// is made until the first alert.
func NewKafkaNotifier(cfg KafkaConfig) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  1,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	logging.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Kafka alert notifier initialized")
	return newKafkaNotifier(cfg, writer), nil
}

func newKafkaNotifier(cfg KafkaConfig, w messageWriter) *KafkaNotifier {
	if cfg.Name == "" {
		cfg.Name = "kafka"
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}
	return &KafkaNotifier{
		name:   cfg.Name,
		topic:  cfg.Topic,
		writer: w,
		cb:     newBreaker(cfg.Name, cfg.Breaker),
	}
}

// Name implements detection.Notifier.
func (n *KafkaNotifier) Name() string { return n.name }

// Enabled implements detection.Notifier.
func (n *KafkaNotifier) Enabled() bool { return n.writer != nil }

// Send implements detection.Notifier.
func (n *KafkaNotifier) Send(ctx context.Context, payload *detection.AlertPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(payload.Event.IPAddress),
		Value: value,
		Time:  payload.Timestamp,
		Headers: []kafka.Header{
			{Key: "alert-type", Value: []byte(payload.AlertType)},
			{Key: "severity", Value: []byte(payload.Severity)},
			{Key: "rule-id", Value: []byte(payload.RuleID)},
		},
	}
	_, err = n.cb.Execute(func() (struct{}, error) {
		if werr := n.writer.WriteMessages(ctx, msg); werr != nil {
			return struct{}{}, fmt.Errorf("write to %s: %w", n.topic, werr)
		}
		return struct{}{}, nil
	})
	return err
}

// Close flushes and closes the writer.
func (n *KafkaNotifier) Close() error {
	if err := n.writer.Close(); err != nil {
		logging.Error().Err(err).Msg("Failed to close Kafka alert notifier")
		return err
	}
	return nil
}
