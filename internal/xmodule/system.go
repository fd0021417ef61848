package xmodule

import (
	"context"
	"fmt"
	"html/template"

	"courseware/internal/models"
)

type StateLoader interface {
	LoadState(ctx context.Context, studentID int64, location string) (models.StateData, error)
}

// Tallies are counters shared by all students, e.g. poll results.
type Tallies interface {
	Incr(ctx context.Context, key, field string, delta int64) error
	All(ctx context.Context, key string) (map[string]int64, error)
}

// System is the runtime one student's modules are built in. It is not safe
// for concurrent use; build one per request.
type System struct {
	StudentID int64
	States    StateLoader
	Tallies   Tallies
	Renderer  *Renderer

	modules map[string]Module
	order   []Module
	tallies []tallyDelta
}

type tallyDelta struct {
	key, field string
	delta      int64
}

func NewSystem(studentID int64, states StateLoader, tallies Tallies, renderer *Renderer) *System {
	return &System{
		StudentID: studentID,
		States:    states,
		Tallies:   tallies,
		Renderer:  renderer,
		modules:   make(map[string]Module),
	}
}

// GetModule returns the module for d, building it on first use.
func (s *System) GetModule(ctx context.Context, d Descriptor) (Module, error) {
	key := d.Location().String()
	if m, ok := s.modules[key]; ok {
		return m, nil
	}
	m, err := d.NewModule(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("build module %s: %w", key, err)
	}
	s.modules[key] = m
	s.order = append(s.order, m)
	return m, nil
}

// Modules returns every module built so far, in build order.
func (s *System) Modules() []Module {
	return s.order
}

// addTally records a counter change. Changes reach Tallies only through
// ApplyTallies, after the request's state has been saved.
func (s *System) addTally(key, field string, delta int64) {
	s.tallies = append(s.tallies, tallyDelta{key: key, field: field, delta: delta})
}

// pendingTallies sums the unapplied changes recorded for key.
func (s *System) pendingTallies(key string) map[string]int64 {
	out := make(map[string]int64)
	for _, d := range s.tallies {
		if d.key == key {
			out[d.field] += d.delta
		}
	}
	return out
}

// ApplyTallies writes the recorded counter changes and forgets them.
func (s *System) ApplyTallies(ctx context.Context) error {
	pending := s.tallies
	s.tallies = nil
	if s.Tallies == nil {
		return nil
	}
	for i, d := range pending {
		if d.delta == 0 {
			continue
		}
		if err := s.Tallies.Incr(ctx, d.key, d.field, d.delta); err != nil {
			s.tallies = pending[i:]
			return fmt.Errorf("apply tally %s/%s: %w", d.key, d.field, err)
		}
	}
	return nil
}

func (s *System) loadState(ctx context.Context, loc models.Location) (models.StateData, error) {
	if s.States == nil {
		return make(models.StateData), nil
	}
	state, err := s.States.LoadState(ctx, s.StudentID, loc.String())
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", loc, err)
	}
	// modules mutate their state; never share the loader's map
	return state.Clone(), nil
}

func (s *System) render(name string, data any) (template.HTML, error) {
	if s.Renderer == nil {
		return "", fmt.Errorf("render %s: no renderer configured", name)
	}
	return s.Renderer.Render(name, data)
}

func ModuleURL(loc models.Location) string {
	return fmt.Sprintf("/courses/%s/%s/modules/%s/%s", loc.Org, loc.Course, loc.Category, loc.Name)
}

func AjaxURL(loc models.Location) string {
	return ModuleURL(loc) + "/ajax"
}
