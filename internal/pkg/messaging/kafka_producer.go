package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event é a mensagem publicada no tópico. Key define a partição.
type Event struct {
	Type      string
	Key       string
	Timestamp time.Time
	Payload   interface{}
}

// Publisher publica eventos em um broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaProducer struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaProducer cria um produtor para o tópico informado.
func NewKafkaProducer(brokers []string, topic string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}
	return &kafkaProducer{writer: writer, timeout: 5 * time.Second}
}

func (p *kafkaProducer) Publish(ctx context.Context, event Event) error {
	message, err := buildMessage(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("falha ao publicar evento %s no kafka: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

func buildMessage(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event.Payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("falha ao serializar evento %s: %w", event.Type, err)
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Time:  ts,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}
