package xmodule

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

type PollAnswer struct {
	ID   string
	Text string
}

type PollDescriptor struct {
	*BaseDescriptor
	answers    []PollAnswer
	allowReset bool
}

// newPollDescriptor reads answers as "id:text;id:text".
func newPollDescriptor(base *BaseDescriptor) (Descriptor, error) {
	d := &PollDescriptor{BaseDescriptor: base, allowReset: true}
	for _, part := range strings.Split(base.Fields()["answers"], ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, text, ok := strings.Cut(part, ":")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid poll answer %q", part)
		}
		d.answers = append(d.answers, PollAnswer{ID: id, Text: strings.TrimSpace(text)})
	}
	if len(d.answers) == 0 {
		return nil, fmt.Errorf("poll has no answers")
	}
	if raw := base.Fields()["reset"]; raw != "" {
		d.allowReset = strings.EqualFold(raw, "true")
	}
	return d, nil
}

func (d *PollDescriptor) Answers() []PollAnswer { return d.answers }

func (d *PollDescriptor) NewModule(ctx context.Context, sys *System) (Module, error) {
	state, err := sys.loadState(ctx, d.Location())
	if err != nil {
		return nil, err
	}
	return &PollModule{baseModule: newBaseModule(d, sys, state), desc: d}, nil
}

type PollModule struct {
	baseModule
	desc *PollDescriptor
}

type PollState struct {
	PollAnswer  string           `json:"poll_answer"`
	PollAnswers map[string]int64 `json:"poll_answers"`
	Total       int64            `json:"total"`
}

func (m *PollModule) PollAnswer() string { return m.state.String("poll_answer") }
func (m *PollModule) Voted() bool        { return m.state.Bool("voted") }

func (m *PollModule) ConditionValue(attr string) (string, bool) {
	switch attr {
	case "poll_answer":
		return m.PollAnswer(), true
	case "voted":
		return boolString(m.Voted()), true
	default:
		return "", false
	}
}

func (m *PollModule) tallyKey() string {
	return "poll:" + m.Location().String()
}

func (m *PollModule) pollState(ctx context.Context) (PollState, error) {
	ps := PollState{PollAnswer: m.PollAnswer(), PollAnswers: make(map[string]int64, len(m.desc.answers))}
	for _, a := range m.desc.answers {
		ps.PollAnswers[a.ID] = 0
	}
	if m.system.Tallies == nil {
		return ps, nil
	}
	counts, err := m.system.Tallies.All(ctx, m.tallyKey())
	if err != nil {
		return PollState{}, fmt.Errorf("poll tallies: %w", err)
	}
	pending := m.system.pendingTallies(m.tallyKey())
	for id := range ps.PollAnswers {
		n := counts[id] + pending[id]
		ps.PollAnswers[id] = n
		ps.Total += n
	}
	return ps, nil
}

func (m *PollModule) StudentView(context.Context) (template.HTML, error) {
	return m.system.render("poll.html", map[string]any{
		"ElementID": m.Location().HTMLID(),
		"AjaxURL":   AjaxURL(m.Location()),
		"Question":  m.desc.Fields()["question"],
		"Answers":   m.desc.answers,
		"Selected":  m.PollAnswer(),
		"Voted":     m.Voted(),
		"Reset":     m.desc.allowReset,
	})
}

func (m *PollModule) HandleAjax(ctx context.Context, dispatch string, data url.Values) (any, error) {
	switch dispatch {
	case "get_state":
		return m.pollState(ctx)
	case "vote":
		return m.vote(ctx, strings.TrimSpace(data.Get("answer")))
	case "reset_poll":
		return m.resetPoll(ctx)
	default:
		return nil, unknownDispatch(m, dispatch)
	}
}

func (m *PollModule) vote(ctx context.Context, answer string) (any, error) {
	if m.Voted() {
		return nil, fmt.Errorf("%w: already voted", ErrBadRequest)
	}
	known := false
	for _, a := range m.desc.answers {
		if a.ID == answer {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: unknown answer %q", ErrBadRequest, answer)
	}

	m.system.addTally(m.tallyKey(), answer, 1)
	m.set("poll_answer", answer)
	m.set("voted", true)
	return m.pollState(ctx)
}

func (m *PollModule) resetPoll(context.Context) (any, error) {
	if !m.desc.allowReset {
		return nil, fmt.Errorf("%w: poll reset is not allowed", ErrBadRequest)
	}
	if !m.Voted() {
		return nil, fmt.Errorf("%w: nothing to reset", ErrBadRequest)
	}
	m.system.addTally(m.tallyKey(), m.PollAnswer(), -1)
	m.unset("poll_answer")
	m.set("voted", false)
	return map[string]string{"status": "success"}, nil
}
