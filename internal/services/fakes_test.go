package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"courseware/internal/models"
)

var errMiss = errors.New("miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) SetIfNewer(_ context.Context, key string, value []byte, version int64, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.data[key]; ok {
		var doc struct {
			Version int64 `json:"version"`
		}
		if json.Unmarshal(cur, &doc) == nil && doc.Version >= version {
			return false, nil
		}
	}
	c.data[key] = value
	c.sets++
	return true, nil
}

type memContent struct {
	records map[string][]models.DescriptorRecord
	loads   int
	saved   []models.DescriptorRecord
}

func (m *memContent) LoadCourse(_ context.Context, courseID string) ([]models.DescriptorRecord, error) {
	m.loads++
	return m.records[courseID], nil
}

func (m *memContent) Save(_ context.Context, courseID string, rec models.DescriptorRecord) error {
	m.saved = append(m.saved, rec)
	if m.records == nil {
		m.records = map[string][]models.DescriptorRecord{}
	}
	m.records[courseID] = append(m.records[courseID], rec)
	return nil
}

type memStates struct {
	data     map[string]models.StateData
	versions map[string]int64
	saves    []models.StudentState
	err      error
}

func newMemStates() *memStates {
	return &memStates{data: map[string]models.StateData{}, versions: map[string]int64{}}
}

func (m *memStates) Load(_ context.Context, studentID int64, location string) (models.StateData, error) {
	if s, ok := m.data[models.StateKey(studentID, location)]; ok {
		return s, nil
	}
	return models.StateData{}, nil
}

func (m *memStates) Save(_ context.Context, s models.StudentState) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	key := models.StateKey(s.StudentID, s.Location)
	m.versions[key]++
	s.Version = m.versions[key]
	m.saves = append(m.saves, s)
	m.data[key] = s.State.Clone()
	return s.Version, nil
}

type published struct {
	key string
	obj interface{}
}

type fakeProducer struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakeProducer) PublishObjectAsync(key []byte, obj interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{key: string(key), obj: obj})
}

type memTallies map[string]map[string]int64

func (t memTallies) Incr(_ context.Context, key, field string, delta int64) error {
	if t[key] == nil {
		t[key] = map[string]int64{}
	}
	t[key][field] += delta
	return nil
}

func (t memTallies) All(_ context.Context, key string) (map[string]int64, error) {
	return t[key], nil
}
