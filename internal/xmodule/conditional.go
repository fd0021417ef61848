package xmodule

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

const defaultConditionalMessage = "{link} must be attempted before this will become visible."

// conditionAttrs are checked in order; the first one set on the descriptor
// is the condition.
var conditionAttrs = []string{"poll_answer", "attempted", "submitted", "correct", "voted"}

type ConditionalDescriptor struct {
	*BaseDescriptor
	sources  []string
	required []Descriptor
}

// newConditionalDescriptor reads sources as ";"-separated locations. They
// are resolved against the course in BuildCourse.
func newConditionalDescriptor(base *BaseDescriptor) (Descriptor, error) {
	d := &ConditionalDescriptor{BaseDescriptor: base}
	for _, s := range strings.Split(base.Fields()["sources"], ";") {
		if s = strings.TrimSpace(s); s != "" {
			d.sources = append(d.sources, s)
		}
	}
	return d, nil
}

func (d *ConditionalDescriptor) resolve(lookup func(string) (Descriptor, bool)) error {
	required := make([]Descriptor, 0, len(d.sources))
	for _, s := range d.sources {
		src, ok := lookup(s)
		if !ok {
			return fmt.Errorf("conditional source %s: %w", s, ErrNotFound)
		}
		required = append(required, src)
	}
	d.required = required
	return nil
}

func (d *ConditionalDescriptor) RequiredDescriptors() []Descriptor { return d.required }

func (d *ConditionalDescriptor) SetRequired(required []Descriptor) {
	d.required = required
}

// Condition returns the configured attribute and the value every required
// module must report.
func (d *ConditionalDescriptor) Condition() (attr, value string, err error) {
	for _, a := range conditionAttrs {
		if v := d.Fields()[a]; v != "" {
			return a, v, nil
		}
	}
	return "", "", ErrNoCondition
}

func (d *ConditionalDescriptor) Message() string {
	if msg, ok := d.Fields()["message"]; ok {
		return msg
	}
	return defaultConditionalMessage
}

func (d *ConditionalDescriptor) NewModule(_ context.Context, sys *System) (Module, error) {
	return &ConditionalModule{baseModule: newBaseModule(d, sys, nil), desc: d}, nil
}

// ConditionalModule shows its children only once every required module
// reports the expected value for the condition attribute.
type ConditionalModule struct {
	baseModule
	desc      *ConditionalDescriptor
	condition func(ctx context.Context) (bool, error)
}

type ConditionalResponse struct {
	HTML    []string `json:"html"`
	Message bool     `json:"message,omitempty"`
}

// SetCondition replaces the satisfaction predicate on this instance.
func (m *ConditionalModule) SetCondition(fn func(ctx context.Context) (bool, error)) {
	m.condition = fn
}

func (m *ConditionalModule) RequiredModules(ctx context.Context) ([]Module, error) {
	out := make([]Module, 0, len(m.desc.required))
	for _, d := range m.desc.required {
		mod, err := m.system.GetModule(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, mod)
	}
	return out, nil
}

func (m *ConditionalModule) IsConditionSatisfied(ctx context.Context) (bool, error) {
	if m.condition != nil {
		return m.condition(ctx)
	}

	attr, want, err := m.desc.Condition()
	if err != nil {
		return false, err
	}
	required, err := m.RequiredModules(ctx)
	if err != nil {
		return false, err
	}
	if len(required) == 0 {
		return false, nil
	}
	for _, mod := range required {
		src, ok := mod.(ConditionSource)
		if !ok {
			return false, fmt.Errorf("%w: %s has no %q", ErrUnsupportedCondition, mod.Location(), attr)
		}
		got, ok := src.ConditionValue(attr)
		if !ok {
			return false, fmt.Errorf("%w: %s has no %q", ErrUnsupportedCondition, mod.Location(), attr)
		}
		if !strings.EqualFold(got, want) {
			return false, nil
		}
	}
	return true, nil
}

func (m *ConditionalModule) StudentView(context.Context) (template.HTML, error) {
	depends := make([]string, 0, len(m.desc.required))
	for _, d := range m.desc.required {
		depends = append(depends, d.Location().HTMLID())
	}
	return m.system.render("conditional_ajax.html", map[string]any{
		"ElementID": m.Location().HTMLID(),
		"ID":        m.Location().String(),
		"AjaxURL":   AjaxURL(m.Location()),
		"Depends":   strings.Join(depends, ";"),
	})
}

// HandleAjax ignores dispatch: it answers with the children's student views
// when the condition holds and with the blocking message otherwise.
func (m *ConditionalModule) HandleAjax(ctx context.Context, _ string, _ url.Values) (any, error) {
	ok, err := m.IsConditionSatisfied(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return m.blocked(ctx)
	}

	items, err := m.renderChildren(ctx)
	if err != nil {
		return nil, err
	}
	html := make([]string, 0, len(items))
	for _, item := range items {
		html = append(html, string(item))
	}
	return ConditionalResponse{HTML: html}, nil
}

func (m *ConditionalModule) blocked(ctx context.Context) (ConditionalResponse, error) {
	message := m.desc.Message()

	var paragraphs []template.HTML
	if message != "" {
		required, err := m.RequiredModules(ctx)
		if err != nil {
			return ConditionalResponse{}, err
		}
		for _, req := range required {
			paragraphs = append(paragraphs, linkMessage(message, req))
		}
	}
	html, err := m.system.render("conditional_module.html", map[string]any{
		"ElementID":  m.Location().HTMLID(),
		"Paragraphs": paragraphs,
	})
	if err != nil {
		return ConditionalResponse{}, err
	}
	return ConditionalResponse{HTML: []string{string(html)}, Message: message != ""}, nil
}

// linkMessage escapes message and replaces each {link} with an anchor to
// the required module.
func linkMessage(message string, req Module) template.HTML {
	link := fmt.Sprintf(`<a href="%s">%s</a>`,
		template.HTMLEscapeString(ModuleURL(req.Location())),
		template.HTMLEscapeString(req.DisplayName()))
	parts := strings.Split(message, "{link}")
	for i := range parts {
		parts[i] = template.HTMLEscapeString(parts[i])
	}
	return template.HTML(strings.Join(parts, link))
}
