package models

import (
	"fmt"
	"strings"
)

const LocationTag = "i4x"

// Location addresses one piece of course content:
// i4x://<org>/<course>/<category>/<name>.
type Location struct {
	Tag      string `json:"tag"`
	Org      string `json:"org"`
	Course   string `json:"course"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

func NewLocation(org, course, category, name string) Location {
	return Location{Tag: LocationTag, Org: org, Course: course, Category: category, Name: name}
}

func ParseLocation(s string) (Location, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), LocationTag+"://")
	if !ok {
		return Location{}, fmt.Errorf("invalid location %q: missing %s:// prefix", s, LocationTag)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 4 {
		return Location{}, fmt.Errorf("invalid location %q: want org/course/category/name", s)
	}
	for _, p := range parts {
		if p == "" {
			return Location{}, fmt.Errorf("invalid location %q: empty segment", s)
		}
	}
	return NewLocation(parts[0], parts[1], parts[2], parts[3]), nil
}

func (l Location) String() string {
	return fmt.Sprintf("%s://%s/%s/%s/%s", LocationTag, l.Org, l.Course, l.Category, l.Name)
}

func (l Location) CourseID() string {
	return l.Org + "/" + l.Course
}

// HTMLID is safe to use as a DOM element id.
func (l Location) HTMLID() string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, l.String())
}
