package xmodule

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
)

type ProblemDescriptor struct {
	*BaseDescriptor
	maxAttempts int
}

func newProblemDescriptor(base *BaseDescriptor) (Descriptor, error) {
	d := &ProblemDescriptor{BaseDescriptor: base}
	if raw := base.Fields()["max_attempts"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid max_attempts %q", raw)
		}
		d.maxAttempts = n
	}
	return d, nil
}

func (d *ProblemDescriptor) NewModule(ctx context.Context, sys *System) (Module, error) {
	state, err := sys.loadState(ctx, d.Location())
	if err != nil {
		return nil, err
	}
	return &ProblemModule{baseModule: newBaseModule(d, sys, state), maxAttempts: d.maxAttempts}, nil
}

// ProblemModule is a single free-text question checked against the
// authored answer. max_attempts of 0 means unlimited.
type ProblemModule struct {
	baseModule
	maxAttempts int
}

func (m *ProblemModule) Attempts() int     { return m.state.Int("attempts") }
func (m *ProblemModule) IsAttempted() bool { return m.Attempts() > 0 }
func (m *ProblemModule) IsSubmitted() bool { return m.state.Bool("done") }
func (m *ProblemModule) IsCorrect() bool   { return m.state.Bool("correct") }

func (m *ProblemModule) ConditionValue(attr string) (string, bool) {
	switch attr {
	case "attempted":
		return boolString(m.IsAttempted()), true
	case "submitted":
		return boolString(m.IsSubmitted()), true
	case "correct":
		return boolString(m.IsCorrect()), true
	default:
		return "", false
	}
}

func (m *ProblemModule) closed() bool {
	return m.maxAttempts > 0 && m.Attempts() >= m.maxAttempts
}

func (m *ProblemModule) StudentView(context.Context) (template.HTML, error) {
	return m.system.render("problem.html", map[string]any{
		"ElementID":   m.Location().HTMLID(),
		"AjaxURL":     AjaxURL(m.Location()),
		"Name":        m.DisplayName(),
		"Text":        m.descriptor.Fields()["text"],
		"Answer":      m.state.String("student_answer"),
		"Submitted":   m.IsSubmitted(),
		"Correct":     m.IsCorrect(),
		"Attempts":    m.Attempts(),
		"MaxAttempts": m.maxAttempts,
		"Closed":      m.closed(),
	})
}

func (m *ProblemModule) HandleAjax(ctx context.Context, dispatch string, data url.Values) (any, error) {
	switch dispatch {
	case "problem_get":
		html, err := m.StudentView(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"html": html}, nil
	case "problem_check":
		return m.check(ctx, data)
	case "problem_reset":
		return m.reset(ctx)
	default:
		return nil, unknownDispatch(m, dispatch)
	}
}

func (m *ProblemModule) check(ctx context.Context, data url.Values) (any, error) {
	answer := strings.TrimSpace(data.Get("answer"))
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrBadRequest)
	}
	if m.closed() {
		return nil, fmt.Errorf("%w: no attempts remaining", ErrBadRequest)
	}

	correct := strings.EqualFold(answer, strings.TrimSpace(m.descriptor.Fields()["answer"]))
	m.set("attempts", m.Attempts()+1)
	m.set("student_answer", answer)
	m.set("correct", correct)
	m.set("done", true)

	html, err := m.StudentView(ctx)
	if err != nil {
		return nil, err
	}
	success := "incorrect"
	if correct {
		success = "correct"
	}
	return map[string]any{
		"success":  success,
		"attempts": m.Attempts(),
		"contents": html,
	}, nil
}

// reset clears the answer but keeps the attempt count.
func (m *ProblemModule) reset(ctx context.Context) (any, error) {
	if !m.IsSubmitted() {
		return nil, fmt.Errorf("%w: problem has not been submitted", ErrBadRequest)
	}
	if m.closed() {
		return nil, fmt.Errorf("%w: no attempts remaining", ErrBadRequest)
	}
	m.unset("student_answer")
	m.set("correct", false)
	m.set("done", false)

	html, err := m.StudentView(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "html": html}, nil
}
