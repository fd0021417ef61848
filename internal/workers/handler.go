package workers

import "time"

// Record is one Redis write derived from a Kafka record. A Version above
// zero makes the write conditional on being newer than the stored copy.
type Record struct {
	Key     string
	Data    []byte
	Version int64
}

// SyncHandler turns one Kafka record into a Redis write.
type SyncHandler interface {
	Type() string
	Handle(key, value []byte) (Record, error)
	TTL() time.Duration
}
