package xmodule

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
)

type VerticalDescriptor struct {
	*BaseDescriptor
}

func newVerticalDescriptor(base *BaseDescriptor) (Descriptor, error) {
	return &VerticalDescriptor{BaseDescriptor: base}, nil
}

func (d *VerticalDescriptor) NewModule(_ context.Context, sys *System) (Module, error) {
	return &VerticalModule{baseModule: newBaseModule(d, sys, nil)}, nil
}

type VerticalModule struct {
	baseModule
}

func (m *VerticalModule) StudentView(ctx context.Context) (template.HTML, error) {
	items, err := m.renderChildren(ctx)
	if err != nil {
		return "", err
	}
	return m.system.render("vertical.html", map[string]any{
		"ElementID": m.Location().HTMLID(),
		"Items":     items,
	})
}

func (m *VerticalModule) HandleAjax(_ context.Context, dispatch string, _ url.Values) (any, error) {
	return nil, unknownDispatch(m, dispatch)
}

type SequentialDescriptor struct {
	*BaseDescriptor
}

func newSequentialDescriptor(base *BaseDescriptor) (Descriptor, error) {
	return &SequentialDescriptor{BaseDescriptor: base}, nil
}

func (d *SequentialDescriptor) NewModule(ctx context.Context, sys *System) (Module, error) {
	state, err := sys.loadState(ctx, d.Location())
	if err != nil {
		return nil, err
	}
	return &SequentialModule{baseModule: newBaseModule(d, sys, state)}, nil
}

// SequentialModule shows its children as tabs and remembers the last one
// the student opened.
type SequentialModule struct {
	baseModule
}

func (m *SequentialModule) Position() int {
	pos := m.state.Int("position")
	if pos < 1 || pos > len(m.descriptor.Children()) {
		return 1
	}
	return pos
}

func (m *SequentialModule) StudentView(ctx context.Context) (template.HTML, error) {
	items, err := m.renderChildren(ctx)
	if err != nil {
		return "", err
	}
	titles := make([]string, 0, len(items))
	for _, child := range m.descriptor.Children() {
		titles = append(titles, child.DisplayName())
	}
	return m.system.render("sequential.html", map[string]any{
		"ElementID": m.Location().HTMLID(),
		"AjaxURL":   AjaxURL(m.Location()),
		"Position":  m.Position(),
		"Titles":    titles,
		"Items":     items,
	})
}

func (m *SequentialModule) HandleAjax(_ context.Context, dispatch string, data url.Values) (any, error) {
	if dispatch != "goto_position" {
		return nil, unknownDispatch(m, dispatch)
	}
	pos, err := strconv.Atoi(data.Get("position"))
	if err != nil || pos < 1 || pos > len(m.descriptor.Children()) {
		return nil, fmt.Errorf("%w: position %q out of range", ErrBadRequest, data.Get("position"))
	}
	m.set("position", pos)
	return map[string]bool{"success": true}, nil
}

func unknownDispatch(m Module, dispatch string) error {
	return fmt.Errorf("%w %q for %s", ErrUnknownDispatch, dispatch, m.Location())
}
