package workers

import (
	"courseware/internal/kafka"
)

type SyncerBundle struct {
	StateSyncer   *Syncer
	StudentSyncer *Syncer
}

func StartAllSyncers(store Store, kafkaBundle *kafka.KafkaBundle) *SyncerBundle {
	b := &SyncerBundle{
		StateSyncer:   NewSyncer(store, StateSyncHandler{}),
		StudentSyncer: NewSyncer(store, StudentSyncHandler{}),
	}
	if kafkaBundle == nil {
		return b
	}
	if kafkaBundle.ModuleConsumer != nil {
		b.StateSyncer.Start(kafkaBundle.ModuleConsumer)
	}
	if kafkaBundle.StudentConsumer != nil {
		b.StudentSyncer.Start(kafkaBundle.StudentConsumer)
	}
	return b
}
