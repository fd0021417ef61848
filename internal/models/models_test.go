package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("i4x://HarvardX/ER22x/conditional/condone")
	require.NoError(t, err)
	assert.Equal(t, NewLocation("HarvardX", "ER22x", "conditional", "condone"), loc)
	assert.Equal(t, "i4x://HarvardX/ER22x/conditional/condone", loc.String())
	assert.Equal(t, "HarvardX/ER22x", loc.CourseID())
}

func TestParseLocation_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"HarvardX/ER22x/conditional/condone",
		"i4x://HarvardX/ER22x/conditional",
		"i4x://HarvardX//conditional/condone",
		"i4x://a/b/c/d/e",
	} {
		_, err := ParseLocation(s)
		assert.Error(t, err, s)
	}
}

func TestLocation_HTMLID(t *testing.T) {
	loc := NewLocation("edX", "test.1", "problem", "p-1")
	assert.Equal(t, "i4x___edX_test_1_problem_p-1", loc.HTMLID())
}

func TestFields_ScanValue(t *testing.T) {
	v, err := Fields{"sources": "i4x://a/b/problem/p"}.Value()
	require.NoError(t, err)

	var f Fields
	require.NoError(t, f.Scan(v))
	assert.Equal(t, "i4x://a/b/problem/p", f["sources"])

	require.NoError(t, f.Scan(nil))
	assert.Empty(t, f)
	assert.Error(t, f.Scan(42))
}

func TestStateData_Getters(t *testing.T) {
	s := StateData{"attempts": float64(3), "voted": true, "poll_answer": "yes", "max": "7"}

	assert.Equal(t, 3, s.Int("attempts"))
	assert.Equal(t, 7, s.Int("max"))
	assert.Equal(t, 0, s.Int("missing"))
	assert.True(t, s.Bool("voted"))
	assert.False(t, s.Bool("missing"))
	assert.Equal(t, "yes", s.String("poll_answer"))
	assert.Equal(t, "3", s.String("attempts"))

	c := s.Clone()
	c["voted"] = false
	assert.True(t, s.Bool("voted"))
}
