package xmodule

import (
	"fmt"
	"sort"

	"courseware/internal/models"
)

// Factory builds the concrete descriptor for one category from the shared
// base. Factories validate category-specific fields.
type Factory func(base *BaseDescriptor) (Descriptor, error)

type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows every built-in category.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("html", newHTMLDescriptor)
	r.Register("vertical", newVerticalDescriptor)
	r.Register("sequential", newSequentialDescriptor)
	r.Register("problem", newProblemDescriptor)
	r.Register("poll_question", newPollDescriptor)
	r.Register("videoalpha", newVideoDescriptor)
	r.Register("conditional", newConditionalDescriptor)
	return r
}

func (r *Registry) Register(category string, f Factory) {
	r.factories[category] = f
}

func (r *Registry) Has(category string) bool {
	_, ok := r.factories[category]
	return ok
}

func (r *Registry) Categories() []string {
	out := make([]string, 0, len(r.factories))
	for c := range r.factories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Build creates a descriptor without children; BuildCourse wires those.
func (r *Registry) Build(rec models.DescriptorRecord) (Descriptor, error) {
	loc, err := models.ParseLocation(rec.Location)
	if err != nil {
		return nil, err
	}
	f, ok := r.factories[loc.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, loc.Category)
	}
	d, err := f(NewBaseDescriptor(loc, rec.DisplayName, rec.Fields))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rec.Location, err)
	}
	return d, nil
}
