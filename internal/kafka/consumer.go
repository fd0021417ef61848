package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

type Consumer struct {
	client *kgo.Client
	topic  string
	cancel context.CancelFunc
	done   chan struct{}
}

func NewConsumer(brokers []string, topic, group string) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer for %s: %w", topic, err)
	}

	zap.S().Infof("Kafka consumer initialized for topic: %s, group: %s", topic, group)
	return &Consumer{client: client, topic: topic, done: make(chan struct{})}, nil
}

// Start polls in the background and calls handler for every record until
// Stop is called.
func (c *Consumer) Start(handler func(key, value []byte)) {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go func() {
		defer close(c.done)
		for {
			fetches := c.client.PollFetches(ctx)
			if fetches.IsClientClosed() || ctx.Err() != nil {
				return
			}
			fetches.EachError(func(topic string, partition int32, err error) {
				zap.S().Warnf("Kafka fetch error %s/%d: %v", topic, partition, err)
			})
			fetches.EachRecord(func(record *kgo.Record) {
				handler(record.Key, record.Value)
			})
		}
	}()
}

func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	c.client.Close()
}
