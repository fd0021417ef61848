package xmodule

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const defaultSpeed = "1.0"

var html5Speeds = []string{"0.75", "1.0", "1.25", "1.50"}

type VideoDescriptor struct {
	*BaseDescriptor
	streams map[string]string
	speeds  []string
}

// newVideoDescriptor parses the youtube field, "0.75:id,1.0:id,...".
// Entries with an unparsable speed are skipped.
func newVideoDescriptor(base *BaseDescriptor) (Descriptor, error) {
	d := &VideoDescriptor{BaseDescriptor: base, streams: make(map[string]string)}
	for _, part := range strings.Split(base.Fields()["youtube"], ",") {
		speed, id, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || strings.TrimSpace(id) == "" {
			continue
		}
		norm, ok := NormalizeSpeed(speed)
		if !ok {
			continue
		}
		d.streams[norm] = strings.TrimSpace(id)
	}
	for _, f := range []string{"start", "end"} {
		if raw := base.Fields()[f]; raw != "" {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("invalid %s %q", f, raw)
			}
		}
	}

	if len(d.streams) == 0 {
		d.speeds = append([]string(nil), html5Speeds...)
	} else {
		for s := range d.streams {
			d.speeds = append(d.speeds, s)
		}
		sort.Slice(d.speeds, func(i, j int) bool {
			a, _ := strconv.ParseFloat(d.speeds[i], 64)
			b, _ := strconv.ParseFloat(d.speeds[j], 64)
			return a < b
		})
	}
	return d, nil
}

// NormalizeSpeed formats a playback speed the way players key streams:
// two decimals, with a trailing ".00" shortened to ".0".
func NormalizeSpeed(raw string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f <= 0 {
		return "", false
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	if strings.HasSuffix(s, ".00") {
		s = strings.TrimSuffix(s, "0")
	}
	return s, true
}

func (d *VideoDescriptor) Speeds() []string { return d.speeds }

func (d *VideoDescriptor) YoutubeID(speed string) string { return d.streams[speed] }

func (d *VideoDescriptor) NewModule(ctx context.Context, sys *System) (Module, error) {
	state, err := sys.loadState(ctx, d.Location())
	if err != nil {
		return nil, err
	}
	return &VideoModule{baseModule: newBaseModule(d, sys, state), desc: d}, nil
}

type VideoModule struct {
	baseModule
	desc *VideoDescriptor
}

func (m *VideoModule) Speed() string {
	s := m.state.String("speed")
	for _, known := range m.desc.speeds {
		if s == known {
			return s
		}
	}
	return defaultSpeed
}

func (m *VideoModule) StudentView(context.Context) (template.HTML, error) {
	streams := make([]string, 0, len(m.desc.speeds))
	for _, s := range m.desc.speeds {
		if id := m.desc.streams[s]; id != "" {
			streams = append(streams, s+":"+id)
		}
	}
	f := m.desc.Fields()
	return m.system.render("videoalpha.html", map[string]any{
		"ElementID":    m.Location().HTMLID(),
		"AjaxURL":      AjaxURL(m.Location()),
		"Name":         m.DisplayName(),
		"Streams":      strings.Join(streams, ","),
		"Speed":        m.Speed(),
		"Start":        f["start"],
		"End":          f["end"],
		"ShowCaptions": strings.EqualFold(f["show_captions"], "true"),
		"Sub":          f["sub"],
		"MP4":          f["mp4_source"],
		"WebM":         f["webm_source"],
		"Ogg":          f["ogg_source"],
	})
}

func (m *VideoModule) HandleAjax(_ context.Context, dispatch string, data url.Values) (any, error) {
	if dispatch != "speed" {
		return nil, unknownDispatch(m, dispatch)
	}
	speed, ok := NormalizeSpeed(data.Get("speed"))
	if !ok {
		return nil, fmt.Errorf("%w: invalid speed %q", ErrBadRequest, data.Get("speed"))
	}
	known := false
	for _, s := range m.desc.speeds {
		if s == speed {
			known = true
			break
		}
	}
	if !known {
		speed = defaultSpeed
	}
	m.set("speed", speed)
	return map[string]string{"speed": speed}, nil
}
