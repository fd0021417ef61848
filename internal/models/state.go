package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type StudentState struct {
	StudentID int64     `json:"student_id"`
	Location  string    `json:"location"`
	State     StateData `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
	// Version is assigned by the store and grows by one per save.
	Version int64 `json:"version"`
}

// CachedState is the Redis copy of a StudentState. Writers keep the copy
// with the highest Version.
type CachedState struct {
	Version int64     `json:"version"`
	State   StateData `json:"state"`
}

// StateData is the per-student state of one module. Values come back from
// JSON, so numbers arrive as float64; use the typed getters.
type StateData map[string]any

func (s StateData) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *StateData) Scan(value interface{}) error {
	if value == nil {
		*s = make(StateData)
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StateData", value)
	}
	return json.Unmarshal(b, s)
}

func (s StateData) String(key string) string {
	switch v := s[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (s StateData) Int(key string) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

func (s StateData) Bool(key string) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func (s StateData) Clone() StateData {
	out := make(StateData, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
