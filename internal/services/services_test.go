package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"courseware/internal/models"
	"courseware/internal/workers"
	"courseware/internal/xmodule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const courseID = "edX/101"

func loc(category, name string) string {
	return models.NewLocation("edX", "101", category, name).String()
}

type env struct {
	cache    *memCache
	content  *memContent
	states   *memStates
	producer *fakeProducer
	tallies  memTallies
	modules  *ModuleService
	admin    *AdminService
}

func newEnv(records ...models.DescriptorRecord) *env {
	e := &env{
		cache:    newMemCache(),
		content:  &memContent{records: map[string][]models.DescriptorRecord{courseID: records}},
		states:   newMemStates(),
		producer: &fakeProducer{},
		tallies:  memTallies{},
	}
	reg := xmodule.DefaultRegistry()
	courses := NewCourseService(e.cache, e.content, reg)
	stateSvc := NewStateService(e.cache, e.states, e.producer)
	e.modules = NewModuleService(courses, stateSvc, e.tallies, xmodule.MustRenderer())
	e.admin = NewAdminService(e.content, courses, reg)
	return e
}

func TestModuleService_ConditionalWithoutChildren(t *testing.T) {
	e := newEnv(
		models.DescriptorRecord{Location: loc("problem", "p1"), Fields: models.Fields{"answer": "a"}},
		models.DescriptorRecord{Location: loc("conditional", "c1"), Fields: models.Fields{
			"sources":   loc("problem", "p1"),
			"attempted": "True",
		}},
	)
	e.states.data[models.StateKey(5, loc("problem", "p1"))] = models.StateData{"attempts": float64(1)}

	resp, err := e.modules.HandleAjax(context.Background(), 5, loc("conditional", "c1"), "No", url.Values{})
	require.NoError(t, err)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"html": []}`, string(raw))
	assert.Empty(t, e.states.saves)
}

func TestModuleService_HandleAjaxPersistsDirtyState(t *testing.T) {
	e := newEnv(models.DescriptorRecord{Location: loc("problem", "p1"), Fields: models.Fields{"answer": "a"}})

	_, err := e.modules.HandleAjax(context.Background(), 5, loc("problem", "p1"), "problem_check", url.Values{"answer": {"a"}})
	require.NoError(t, err)

	require.Len(t, e.states.saves, 1)
	assert.Equal(t, int64(5), e.states.saves[0].StudentID)
	assert.True(t, e.states.saves[0].State.Bool("correct"))

	require.Len(t, e.producer.sent, 1)
	assert.Equal(t, models.StateKey(5, loc("problem", "p1")), e.producer.sent[0].key)
	ev := e.producer.sent[0].obj.(models.ModuleEvent)
	assert.Equal(t, "problem_check", ev.Dispatch)
	assert.NotEmpty(t, ev.ID)
	assert.EqualValues(t, 1, ev.Version)

	// the next request sees the saved state
	resp, err := e.modules.HandleAjax(context.Background(), 5, loc("problem", "p1"), "problem_check", url.Values{"answer": {"b"}})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.(map[string]any)["attempts"])
}

func TestModuleService_FailedAjaxDoesNotPersist(t *testing.T) {
	e := newEnv(models.DescriptorRecord{Location: loc("problem", "p1"), Fields: models.Fields{"answer": "a"}})

	_, err := e.modules.HandleAjax(context.Background(), 5, loc("problem", "p1"), "problem_check", url.Values{})
	assert.ErrorIs(t, err, xmodule.ErrBadRequest)
	assert.Empty(t, e.states.saves)
}

func TestModuleService_PersistError(t *testing.T) {
	e := newEnv(models.DescriptorRecord{Location: loc("problem", "p1"), Fields: models.Fields{"answer": "a"}})
	e.states.err = errors.New("db down")

	_, err := e.modules.HandleAjax(context.Background(), 5, loc("problem", "p1"), "problem_check", url.Values{"answer": {"a"}})
	assert.ErrorContains(t, err, "db down")
}

func TestModuleService_ReorderedSyncKeepsAttemptLimit(t *testing.T) {
	e := newEnv(models.DescriptorRecord{
		Location: loc("problem", "p1"),
		Fields:   models.Fields{"answer": "a", "max_attempts": "2"},
	})
	ctx := context.Background()
	p1 := loc("problem", "p1")

	for _, answer := range []string{"b", "a"} {
		_, err := e.modules.HandleAjax(ctx, 5, p1, "problem_check", url.Values{"answer": {answer}})
		require.NoError(t, err)
	}
	require.Len(t, e.producer.sent, 2)

	// deliver the two state events newest first
	syncer := workers.NewSyncer(e.cache, workers.StateSyncHandler{})
	for i := len(e.producer.sent) - 1; i >= 0; i-- {
		value, err := json.Marshal(e.producer.sent[i].obj)
		require.NoError(t, err)
		syncer.Sync(ctx, []byte(e.producer.sent[i].key), value)
	}

	cached, err := NewStateService(e.cache, e.states, nil).LoadState(ctx, 5, p1)
	require.NoError(t, err)
	assert.Equal(t, 2, cached.Int("attempts"))

	_, err = e.modules.HandleAjax(ctx, 5, p1, "problem_check", url.Values{"answer": {"a"}})
	assert.ErrorIs(t, err, xmodule.ErrBadRequest)
	assert.Equal(t, 2, e.states.data[models.StateKey(5, p1)].Int("attempts"))
}

func TestModuleService_AjaxReadsStoredState(t *testing.T) {
	e := newEnv(models.DescriptorRecord{Location: loc("problem", "p1"), Fields: models.Fields{"answer": "a"}})
	key := models.StateKey(5, loc("problem", "p1"))
	e.states.data[key] = models.StateData{"attempts": 3}
	e.cache.data[key] = []byte(`{"version":1,"state":{"attempts":1}}`)

	resp, err := e.modules.HandleAjax(context.Background(), 5, loc("problem", "p1"), "problem_check", url.Values{"answer": {"a"}})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.(map[string]any)["attempts"])
}

func TestModuleService_PollTallyFollowsSavedState(t *testing.T) {
	e := newEnv(models.DescriptorRecord{
		Location: loc("poll_question", "q1"),
		Fields:   models.Fields{"question": "?", "answers": "yes:Yes;no:No"},
	})
	ctx := context.Background()
	q1 := loc("poll_question", "q1")
	key := "poll:" + q1

	e.states.err = errors.New("db down")
	_, err := e.modules.HandleAjax(ctx, 5, q1, "vote", url.Values{"answer": {"yes"}})
	require.ErrorContains(t, err, "db down")
	assert.Empty(t, e.tallies[key])

	e.states.err = nil
	_, err = e.modules.HandleAjax(ctx, 5, q1, "vote", url.Values{"answer": {"yes"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.tallies[key]["yes"])

	e.states.err = errors.New("db down")
	_, err = e.modules.HandleAjax(ctx, 5, q1, "reset_poll", nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, e.tallies[key]["yes"])

	e.states.err = nil
	_, err = e.modules.HandleAjax(ctx, 5, q1, "reset_poll", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, e.tallies[key]["yes"])
}

func TestModuleService_NotFound(t *testing.T) {
	e := newEnv()

	_, err := e.modules.HandleAjax(context.Background(), 5, loc("problem", "nope"), "problem_get", nil)
	assert.ErrorIs(t, err, xmodule.ErrNotFound)

	_, err = e.modules.StudentView(context.Background(), 5, "not-a-location")
	assert.ErrorIs(t, err, xmodule.ErrNotFound)
}

func TestModuleService_StudentView(t *testing.T) {
	e := newEnv(
		models.DescriptorRecord{Location: loc("vertical", "u1"), Children: models.ChildList{loc("html", "h1")}},
		models.DescriptorRecord{Location: loc("html", "h1"), Fields: models.Fields{"data": "<p>hello</p>"}},
	)

	html, err := e.modules.StudentView(context.Background(), 5, loc("vertical", "u1"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<p>hello</p>")
}

func TestCourseService_CachesRecords(t *testing.T) {
	e := newEnv(models.DescriptorRecord{Location: loc("html", "h1")})

	for i := 0; i < 3; i++ {
		_, err := e.modules.StudentView(context.Background(), 5, loc("html", "h1"))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, e.content.loads)
}

func TestCourseService_WarnsOnceWhenCourseBreaks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)

	e := newEnv(models.DescriptorRecord{Location: loc("html", "h1")})
	require.NoError(t, e.admin.SaveModule(context.Background(), models.DescriptorRecord{
		Location: loc("conditional", "c1"),
		Fields:   models.Fields{"sources": loc("problem", "missing"), "attempted": "true"},
	}))

	for i := 0; i < 3; i++ {
		_, err := e.modules.StudentView(context.Background(), 5, loc("html", "h1"))
		require.ErrorIs(t, err, xmodule.ErrNotFound)
	}
	entries := logs.FilterMessageSnippet("does not build").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "problem/missing")

	// a later save re-arms the warning
	require.NoError(t, e.admin.SaveModule(context.Background(), models.DescriptorRecord{Location: loc("html", "h2")}))
	_, err := e.modules.StudentView(context.Background(), 5, loc("html", "h1"))
	require.Error(t, err)
	assert.Equal(t, 2, logs.FilterMessageSnippet("does not build").Len())
}

func TestStateService_LoadPrefersCache(t *testing.T) {
	cache := newMemCache()
	repo := newMemStates()
	repo.data[models.StateKey(1, "x")] = models.StateData{"from": "db"}
	svc := NewStateService(cache, repo, nil)

	s, err := svc.LoadState(context.Background(), 1, "x")
	require.NoError(t, err)
	assert.Equal(t, "db", s.String("from"))

	cache.data[models.StateKey(1, "x")] = []byte(`{"version":1,"state":{"from":"redis"}}`)
	s, err = svc.LoadState(context.Background(), 1, "x")
	require.NoError(t, err)
	assert.Equal(t, "redis", s.String("from"))
}

func TestStateService_SaveDropsCachedCopy(t *testing.T) {
	cache := newMemCache()
	cache.data[models.StateKey(1, "x")] = []byte(`{"version":1,"state":{"old":true}}`)
	svc := NewStateService(cache, newMemStates(), nil)

	require.NoError(t, svc.SaveState(context.Background(), 1, "x", "vote", models.StateData{"new": true}))

	_, err := cache.Get(context.Background(), models.StateKey(1, "x"))
	assert.Error(t, err)
	s, err := svc.LoadState(context.Background(), 1, "x")
	require.NoError(t, err)
	assert.True(t, s.Bool("new"))
}

func TestAdminService_SaveModule(t *testing.T) {
	e := newEnv(models.DescriptorRecord{Location: loc("html", "h1"), Fields: models.Fields{"data": "old"}})
	_, err := e.modules.StudentView(context.Background(), 5, loc("html", "h1"))
	require.NoError(t, err)
	require.Contains(t, e.cache.data, models.CourseKey(courseID))

	err = e.admin.SaveModule(context.Background(), models.DescriptorRecord{
		Location: loc("vertical", "u1"),
		Children: models.ChildList{loc("html", "h1")},
	})
	require.NoError(t, err)

	assert.NotContains(t, e.cache.data, models.CourseKey(courseID))
	html, err := e.modules.StudentView(context.Background(), 5, loc("vertical", "u1"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "old")
}

func TestAdminService_Validation(t *testing.T) {
	e := newEnv()
	cases := map[string]models.DescriptorRecord{
		"bad location":     {Location: "nope"},
		"unknown category": {Location: loc("lti", "x")},
		"bad fields":       {Location: loc("problem", "p"), Fields: models.Fields{"max_attempts": "x"}},
		"bad child":        {Location: loc("vertical", "v"), Children: models.ChildList{"nope"}},
		"foreign child":    {Location: loc("vertical", "v"), Children: models.ChildList{"i4x://MITx/6.002x/html/h"}},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, e.admin.SaveModule(context.Background(), rec), ErrValidation)
		})
	}
	assert.Empty(t, e.content.saved)
}

func TestStudentService_CreateStudent(t *testing.T) {
	repo := &memStudents{}
	producer := &fakeProducer{}
	svc := NewStudentService(repo, producer)

	require.NoError(t, svc.CreateStudent(context.Background(), models.Student{StudentID: 999, UserName: "alex"}))
	assert.Len(t, repo.saved, 1)
	require.Len(t, producer.sent, 1)
	assert.Equal(t, "999", producer.sent[0].key)

	err := svc.CreateStudent(context.Background(), models.Student{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, repo.saved, 1)
}

type memStudents struct {
	saved []models.Student
}

func (m *memStudents) Save(_ context.Context, s models.Student) error {
	m.saved = append(m.saved, s)
	return nil
}
