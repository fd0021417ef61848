package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"courseware/internal/models"
)

type StateSyncHandler struct{}

func (StateSyncHandler) Type() string {
	return "module-state"
}

// Handle accepts a models.ModuleEvent and caches its state, with the
// event's version, under the student's state key.
func (StateSyncHandler) Handle(_, value []byte) (Record, error) {
	var ev models.ModuleEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return Record{}, fmt.Errorf("invalid module event JSON: %w", err)
	}
	if ev.StudentID <= 0 || ev.Location == "" {
		return Record{}, fmt.Errorf("module event %q has no student or location", ev.ID)
	}
	if ev.Version <= 0 {
		return Record{}, fmt.Errorf("module event %q has no version", ev.ID)
	}
	if ev.State == nil {
		ev.State = make(models.StateData)
	}
	data, err := json.Marshal(models.CachedState{Version: ev.Version, State: ev.State})
	if err != nil {
		return Record{}, err
	}
	return Record{Key: models.StateKey(ev.StudentID, ev.Location), Data: data, Version: ev.Version}, nil
}

func (StateSyncHandler) TTL() time.Duration {
	return 24 * time.Hour
}

type StudentSyncHandler struct{}

func (StudentSyncHandler) Type() string {
	return "student"
}

// Handle caches the student profile under student:<id>, the key the auth
// middleware checks.
func (StudentSyncHandler) Handle(key, value []byte) (Record, error) {
	if len(key) == 0 {
		return Record{}, fmt.Errorf("empty key")
	}
	var s models.Student
	if err := json.Unmarshal(value, &s); err != nil {
		return Record{}, fmt.Errorf("invalid student JSON: %w", err)
	}
	return Record{Key: models.StudentKey(string(key)), Data: value}, nil
}

func (StudentSyncHandler) TTL() time.Duration {
	return 24 * time.Hour
}
