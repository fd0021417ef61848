// Package xmodule is the course content model: descriptors hold the static
// definition of a piece of content, modules are the per-student runtime
// built from a descriptor and that student's state.
package xmodule

import (
	"context"
	"html/template"
	"net/url"

	"courseware/internal/models"
)

type Descriptor interface {
	Location() models.Location
	DisplayName() string
	Fields() models.Fields
	Children() []Descriptor
	SetChildren(children []Descriptor)
	NewModule(ctx context.Context, sys *System) (Module, error)
}

type Module interface {
	Location() models.Location
	DisplayName() string
	Descriptor() Descriptor
	StudentView(ctx context.Context) (template.HTML, error)
	HandleAjax(ctx context.Context, dispatch string, data url.Values) (any, error)
}

// Stateful modules report state changes made by HandleAjax so the caller
// can persist them.
type Stateful interface {
	State() models.StateData
	Dirty() bool
}

// ConditionSource is implemented by modules a conditional can depend on.
type ConditionSource interface {
	ConditionValue(attr string) (string, bool)
}

type BaseDescriptor struct {
	location    models.Location
	displayName string
	fields      models.Fields
	children    []Descriptor
}

func NewBaseDescriptor(loc models.Location, displayName string, fields models.Fields) *BaseDescriptor {
	if fields == nil {
		fields = make(models.Fields)
	}
	if displayName == "" {
		displayName = loc.Name
	}
	return &BaseDescriptor{location: loc, displayName: displayName, fields: fields}
}

func (d *BaseDescriptor) Location() models.Location { return d.location }
func (d *BaseDescriptor) DisplayName() string       { return d.displayName }
func (d *BaseDescriptor) Fields() models.Fields     { return d.fields }
func (d *BaseDescriptor) Children() []Descriptor    { return d.children }

func (d *BaseDescriptor) SetChildren(children []Descriptor) {
	d.children = children
}

type baseModule struct {
	descriptor Descriptor
	system     *System
	state      models.StateData
	dirty      bool
}

func newBaseModule(d Descriptor, sys *System, state models.StateData) baseModule {
	if state == nil {
		state = make(models.StateData)
	}
	return baseModule{descriptor: d, system: sys, state: state}
}

func (m *baseModule) Location() models.Location { return m.descriptor.Location() }
func (m *baseModule) DisplayName() string       { return m.descriptor.DisplayName() }
func (m *baseModule) Descriptor() Descriptor    { return m.descriptor }
func (m *baseModule) State() models.StateData   { return m.state }
func (m *baseModule) Dirty() bool               { return m.dirty }

func (m *baseModule) set(key string, value any) {
	m.state[key] = value
	m.dirty = true
}

func (m *baseModule) unset(key string) {
	if _, ok := m.state[key]; ok {
		delete(m.state, key)
		m.dirty = true
	}
}

// renderChildren returns the student views of the descriptor's children in
// order. The result is never nil.
func (m *baseModule) renderChildren(ctx context.Context) ([]template.HTML, error) {
	children := m.descriptor.Children()
	out := make([]template.HTML, 0, len(children))
	for _, child := range children {
		mod, err := m.system.GetModule(ctx, child)
		if err != nil {
			return nil, err
		}
		html, err := mod.StudentView(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
