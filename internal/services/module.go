package services

import (
	"context"
	"fmt"
	"html/template"
	"net/url"

	"courseware/internal/models"
	"courseware/internal/xmodule"

	"go.uber.org/zap"
)

type ModuleStates interface {
	xmodule.StateLoader
	LoadStoredState(ctx context.Context, studentID int64, location string) (models.StateData, error)
	SaveState(ctx context.Context, studentID int64, location, dispatch string, state models.StateData) error
}

type ModuleServiceInterface interface {
	StudentView(ctx context.Context, studentID int64, location string) (template.HTML, error)
	HandleAjax(ctx context.Context, studentID int64, location, dispatch string, data url.Values) (any, error)
}

type ModuleService struct {
	courses  *CourseService
	states   ModuleStates
	tallies  xmodule.Tallies
	renderer *xmodule.Renderer
}

func NewModuleService(courses *CourseService, states ModuleStates, tallies xmodule.Tallies, renderer *xmodule.Renderer) *ModuleService {
	return &ModuleService{courses: courses, states: states, tallies: tallies, renderer: renderer}
}

// storedStates serves a System from Postgres only.
type storedStates struct{ ModuleStates }

func (s storedStates) LoadState(ctx context.Context, studentID int64, location string) (models.StateData, error) {
	return s.LoadStoredState(ctx, studentID, location)
}

func (s *ModuleService) load(ctx context.Context, studentID int64, location string, states xmodule.StateLoader) (*xmodule.System, xmodule.Module, error) {
	loc, err := models.ParseLocation(location)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", xmodule.ErrNotFound, err)
	}
	course, err := s.courses.Course(ctx, loc.CourseID())
	if err != nil {
		return nil, nil, err
	}
	d, ok := course.Get(loc.String())
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", xmodule.ErrNotFound, loc)
	}
	sys := xmodule.NewSystem(studentID, states, s.tallies, s.renderer)
	m, err := sys.GetModule(ctx, d)
	if err != nil {
		return nil, nil, err
	}
	return sys, m, nil
}

func (s *ModuleService) StudentView(ctx context.Context, studentID int64, location string) (template.HTML, error) {
	_, m, err := s.load(ctx, studentID, location, s.states)
	if err != nil {
		return "", err
	}
	return m.StudentView(ctx)
}

// HandleAjax dispatches to the module and persists the state of every
// module the call changed. Modules are built from Postgres state so a
// lagging Redis copy is never saved back. Shared counters change only
// after the state is saved.
func (s *ModuleService) HandleAjax(ctx context.Context, studentID int64, location, dispatch string, data url.Values) (any, error) {
	sys, m, err := s.load(ctx, studentID, location, storedStates{s.states})
	if err != nil {
		return nil, err
	}
	resp, err := m.HandleAjax(ctx, dispatch, data)
	if err != nil {
		return nil, err
	}

	for _, mod := range sys.Modules() {
		st, ok := mod.(xmodule.Stateful)
		if !ok || !st.Dirty() {
			continue
		}
		if err := s.states.SaveState(ctx, studentID, mod.Location().String(), dispatch, st.State()); err != nil {
			return nil, fmt.Errorf("persist %s: %w", mod.Location(), err)
		}
	}

	if err := sys.ApplyTallies(ctx); err != nil {
		zap.S().Errorf("Student %d %s %s: %v", studentID, location, dispatch, err)
	}
	return resp, nil
}
