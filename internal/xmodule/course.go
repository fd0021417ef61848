package xmodule

import (
	"fmt"

	"courseware/internal/models"
)

// Course is every descriptor of one course with children resolved.
type Course struct {
	ID          string
	descriptors map[string]Descriptor
}

// resolver is implemented by descriptors that reference other content
// outside their children, e.g. a conditional's sources.
type resolver interface {
	resolve(lookup func(location string) (Descriptor, bool)) error
}

func BuildCourse(reg *Registry, courseID string, records []models.DescriptorRecord) (*Course, error) {
	c := &Course{ID: courseID, descriptors: make(map[string]Descriptor, len(records))}

	for _, rec := range records {
		d, err := reg.Build(rec)
		if err != nil {
			return nil, err
		}
		if got := d.Location().CourseID(); got != courseID {
			return nil, fmt.Errorf("%s belongs to course %s, not %s", rec.Location, got, courseID)
		}
		c.descriptors[d.Location().String()] = d
	}

	for _, rec := range records {
		d := c.descriptors[normalize(rec.Location)]
		children := make([]Descriptor, 0, len(rec.Children))
		for _, childLoc := range rec.Children {
			child, ok := c.Get(childLoc)
			if !ok {
				return nil, fmt.Errorf("%s: child %s: %w", rec.Location, childLoc, ErrNotFound)
			}
			children = append(children, child)
		}
		d.SetChildren(children)
	}

	for _, d := range c.descriptors {
		if r, ok := d.(resolver); ok {
			if err := r.resolve(c.Get); err != nil {
				return nil, fmt.Errorf("%s: %w", d.Location(), err)
			}
		}
	}

	if err := c.checkCycles(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Course) Get(location string) (Descriptor, bool) {
	d, ok := c.descriptors[normalize(location)]
	return d, ok
}

func (c *Course) Len() int {
	return len(c.descriptors)
}

func (c *Course) checkCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	marks := make(map[string]int, len(c.descriptors))

	var visit func(d Descriptor) error
	visit = func(d Descriptor) error {
		key := d.Location().String()
		switch marks[key] {
		case visiting:
			return fmt.Errorf("%w at %s", ErrCycle, key)
		case done:
			return nil
		}
		marks[key] = visiting
		for _, child := range d.Children() {
			if err := visit(child); err != nil {
				return err
			}
		}
		marks[key] = done
		return nil
	}

	for _, d := range c.descriptors {
		if err := visit(d); err != nil {
			return err
		}
	}
	return nil
}

func normalize(location string) string {
	loc, err := models.ParseLocation(location)
	if err != nil {
		return location
	}
	return loc.String()
}
