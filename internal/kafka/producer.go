package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

type ProducerInterface interface {
	PublishObjectAsync(key []byte, obj interface{})
}

type Producer struct {
	topic  string
	client *kgo.Client
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer for %s: %w", topic, err)
	}

	zap.S().Infof("✅ Kafka producer initialized for topic: %s", topic)
	return &Producer{topic: topic, client: client}, nil
}

func (p *Producer) Topic() string {
	return p.topic
}

func (p *Producer) Close() {
	p.client.Close()
}

func (p *Producer) Publish(key, value []byte) error {
	msg := &kgo.Record{
		Topic: p.topic,
		Key:   key,
		Value: value,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.client.ProduceSync(ctx, msg).FirstErr(); err != nil {
		zap.S().Errorf("Kafka publish error: %v", err)
		return err
	}

	zap.S().Debugf("Published to %s: key=%s", p.topic, string(key))
	return nil
}

func (p *Producer) PublishObjectAsync(key []byte, obj interface{}) {
	go func() {
		value, err := json.Marshal(obj)
		if err != nil {
			zap.S().Errorf("Failed to marshal object for Kafka: %v", err)
			return
		}

		if err := p.Publish(key, value); err != nil {
			zap.S().Errorf("Kafka async publish error: %v", err)
		}
	}()
}
