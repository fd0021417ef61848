package xmodule

import (
	"context"
	"html/template"
	"net/url"
)

type HTMLDescriptor struct {
	*BaseDescriptor
}

func newHTMLDescriptor(base *BaseDescriptor) (Descriptor, error) {
	return &HTMLDescriptor{BaseDescriptor: base}, nil
}

func (d *HTMLDescriptor) NewModule(_ context.Context, sys *System) (Module, error) {
	return &HTMLModule{baseModule: newBaseModule(d, sys, nil)}, nil
}

type HTMLModule struct {
	baseModule
}

// StudentView returns the authored markup as is; it comes from course staff.
func (m *HTMLModule) StudentView(context.Context) (template.HTML, error) {
	return template.HTML(m.descriptor.Fields()["data"]), nil
}

func (m *HTMLModule) HandleAjax(_ context.Context, dispatch string, _ url.Values) (any, error) {
	return nil, unknownDispatch(m, dispatch)
}
