package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"courseware/internal/kafka"
	"courseware/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StateStore interface {
	Load(ctx context.Context, studentID int64, location string) (models.StateData, error)
	Save(ctx context.Context, s models.StudentState) (int64, error)
}

// StateService serves module state from Redis, falling back to Postgres.
// Redis holds models.CachedState written by the state syncer, which keeps
// the highest version per key; a save drops the cached copy and publishes
// the event carrying the version Postgres assigned.
type StateService struct {
	cache    Cache
	repo     StateStore
	producer kafka.ProducerInterface
	now      func() time.Time
}

func NewStateService(cache Cache, repo StateStore, producer kafka.ProducerInterface) *StateService {
	return &StateService{cache: cache, repo: repo, producer: producer, now: time.Now}
}

func (s *StateService) LoadState(ctx context.Context, studentID int64, location string) (models.StateData, error) {
	key := models.StateKey(studentID, location)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached models.CachedState
		if json.Unmarshal(data, &cached) == nil && cached.State != nil {
			return cached.State, nil
		}
	}
	return s.repo.Load(ctx, studentID, location)
}

// LoadStoredState reads Postgres only. State that is about to be changed
// and saved back must come from here.
func (s *StateService) LoadStoredState(ctx context.Context, studentID int64, location string) (models.StateData, error) {
	return s.repo.Load(ctx, studentID, location)
}

func (s *StateService) SaveState(ctx context.Context, studentID int64, location, dispatch string, state models.StateData) error {
	now := s.now()
	version, err := s.repo.Save(ctx, models.StudentState{
		StudentID: studentID,
		Location:  location,
		State:     state,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	key := models.StateKey(studentID, location)
	if err := s.cache.Del(ctx, key); err != nil {
		return fmt.Errorf("drop cached state %s: %w", key, err)
	}

	if s.producer != nil {
		s.producer.PublishObjectAsync([]byte(key), models.ModuleEvent{
			ID:        uuid.NewString(),
			StudentID: studentID,
			Location:  location,
			Dispatch:  dispatch,
			State:     state,
			Version:   version,
			Time:      now,
		})
	}
	zap.S().Debugf("State saved: %s v%d (%s)", key, version, dispatch)
	return nil
}
