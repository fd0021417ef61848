package xmodule

import (
	"context"
	"testing"

	"courseware/internal/models"

	"github.com/stretchr/testify/require"
)

const testCourse = "edX/conditional_test"

type fakeStates map[string]models.StateData

func (f fakeStates) LoadState(_ context.Context, _ int64, location string) (models.StateData, error) {
	return f[location], nil
}

type fakeTallies map[string]map[string]int64

func (f fakeTallies) Incr(_ context.Context, key, field string, delta int64) error {
	if f[key] == nil {
		f[key] = make(map[string]int64)
	}
	f[key][field] += delta
	return nil
}

func (f fakeTallies) All(_ context.Context, key string) (map[string]int64, error) {
	return f[key], nil
}

func loc(category, name string) string {
	return models.NewLocation("edX", "conditional_test", category, name).String()
}

func record(category, name string, fields models.Fields, children ...string) models.DescriptorRecord {
	return models.DescriptorRecord{
		Location:    loc(category, name),
		DisplayName: name,
		Fields:      fields,
		Children:    children,
	}
}

// logicTest is one descriptor plus a runtime for a single student.
type logicTest struct {
	course *Course
	system *System
	states fakeStates
}

func newLogicTest(t *testing.T, records ...models.DescriptorRecord) *logicTest {
	t.Helper()
	course, err := BuildCourse(DefaultRegistry(), testCourse, records)
	require.NoError(t, err)
	states := fakeStates{}
	return &logicTest{
		course: course,
		states: states,
		system: NewSystem(42, states, fakeTallies{}, MustRenderer()),
	}
}

func (lt *logicTest) module(t *testing.T, location string) Module {
	t.Helper()
	d, ok := lt.course.Get(location)
	require.True(t, ok, location)
	m, err := lt.system.GetModule(context.Background(), d)
	require.NoError(t, err)
	return m
}

func (lt *logicTest) ajax(t *testing.T, location, dispatch string, data map[string]string) any {
	t.Helper()
	values := make(map[string][]string, len(data))
	for k, v := range data {
		values[k] = []string{v}
	}
	resp, err := lt.module(t, location).HandleAjax(context.Background(), dispatch, values)
	require.NoError(t, err)
	return resp
}
