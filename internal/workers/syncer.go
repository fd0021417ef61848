package workers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetIfNewer(ctx context.Context, key string, value []byte, version int64, ttl time.Duration) (bool, error)
}

type Source interface {
	Start(handler func(key, value []byte))
}

// Syncer mirrors records from a topic into Redis through a SyncHandler.
type Syncer struct {
	store   Store
	handler SyncHandler
}

func NewSyncer(store Store, handler SyncHandler) *Syncer {
	return &Syncer{store: store, handler: handler}
}

func (s *Syncer) Start(source Source) {
	if source == nil {
		return
	}
	zap.S().Infof("🚀 %s syncer started", s.handler.Type())
	source.Start(func(key, value []byte) {
		s.Sync(context.Background(), key, value)
	})
}

// Sync handles one record. Bad records are logged and dropped, as are
// versioned records older than what Redis already holds.
func (s *Syncer) Sync(ctx context.Context, key, value []byte) bool {
	rec, err := s.handler.Handle(key, value)
	if err != nil {
		zap.S().Warnf("%s syncer: %v", s.handler.Type(), err)
		return false
	}

	if rec.Version > 0 {
		wrote, err := s.store.SetIfNewer(ctx, rec.Key, rec.Data, rec.Version, s.handler.TTL())
		if err != nil {
			zap.S().Errorf("%s syncer: redis SET %s: %v", s.handler.Type(), rec.Key, err)
			return false
		}
		if !wrote {
			zap.S().Debugf("%s syncer: skipped stale version %d of %s", s.handler.Type(), rec.Version, rec.Key)
			return false
		}
	} else if err := s.store.Set(ctx, rec.Key, rec.Data, s.handler.TTL()); err != nil {
		zap.S().Errorf("%s syncer: redis SET %s: %v", s.handler.Type(), rec.Key, err)
		return false
	}

	zap.S().Debugf("%s cached in Redis: %s", s.handler.Type(), rec.Key)
	return true
}
