package kafka

import (
	"courseware/internal/config"
)

type KafkaBundle struct {
	ModuleProducer  *Producer
	StudentProducer *Producer

	ModuleConsumer  *Consumer
	StudentConsumer *Consumer
}

func InitKafka(cfg *config.Config) (*KafkaBundle, error) {
	var (
		b   KafkaBundle
		err error
	)
	if b.ModuleProducer, err = NewProducer(cfg.KafkaBrokers, cfg.ModuleTopic); err != nil {
		return nil, err
	}
	if b.StudentProducer, err = NewProducer(cfg.KafkaBrokers, cfg.StudentTopic); err != nil {
		return nil, err
	}
	if b.ModuleConsumer, err = NewConsumer(cfg.KafkaBrokers, cfg.ModuleTopic, "module-state-syncer"); err != nil {
		return nil, err
	}
	if b.StudentConsumer, err = NewConsumer(cfg.KafkaBrokers, cfg.StudentTopic, "student-redis-syncer"); err != nil {
		return nil, err
	}
	return &b, nil
}

// Close stops consumers first so no handler runs against closed stores.
func (b *KafkaBundle) Close() {
	for _, c := range []*Consumer{b.ModuleConsumer, b.StudentConsumer} {
		if c != nil {
			c.Stop()
		}
	}
	for _, p := range []*Producer{b.ModuleProducer, b.StudentProducer} {
		if p != nil {
			p.Close()
		}
	}
}
