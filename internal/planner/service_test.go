package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	out   string
	err   error
	block bool
	crash bool
}

func (g stubGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if g.crash {
		panic("boom")
	}
	if g.block {
		time.Sleep(time.Second)
	}
	return g.out, g.err
}

var req = Request{Goal: "Go", HoursPerWeek: 5, PriorExperience: "some Python"}

const validPlan = `{"duration":"4 weeks","phases":[
 {"week":1,"topics":["syntax"],"resources":["tour"],"time":"5 hours"},
 {"week":2,"topics":["concurrency"],"resources":["book"],"time":"5 hours"}]}`

func TestGeneratePlanFromModel(t *testing.T) {
	s := NewService(stubGenerator{out: validPlan}, time.Second)

	plan, source := s.GeneratePlan(context.Background(), req)
	assert.Equal(t, SourceAI, source)
	assert.Equal(t, "4 weeks", plan.Duration)
	require.Len(t, plan.Phases, 2)
	assert.Equal(t, []string{"concurrency"}, plan.Phases[1].Topics)
}

func TestGeneratePlanStripsFences(t *testing.T) {
	for name, raw := range map[string]string{
		"json fence": "```json\n" + validPlan + "\n```",
		"bare fence": "```\n" + validPlan + "\n```",
		"inline":     "```" + validPlan + "```",
		"whitespace": "\n  " + validPlan + "  \n",
	} {
		t.Run(name, func(t *testing.T) {
			plan, source := NewService(stubGenerator{out: raw}, time.Second).GeneratePlan(context.Background(), req)
			assert.Equal(t, SourceAI, source)
			assert.Equal(t, "4 weeks", plan.Duration)
		})
	}
}

func TestGeneratePlanFallback(t *testing.T) {
	cases := map[string]Generator{
		"transport error": stubGenerator{err: errors.New("connection refused")},
		"not json":        stubGenerator{out: "Sure! Here is your plan"},
		"no phases":       stubGenerator{out: `{"duration":"4 weeks","phases":[]}`},
		"bad week":        stubGenerator{out: `{"duration":"1 week","phases":[{"week":0,"topics":["x"]}]}`},
		"no topics":       stubGenerator{out: `{"duration":"1 week","phases":[{"week":1,"topics":[]}]}`},
		"panic":           stubGenerator{crash: true},
		"timeout":         stubGenerator{out: validPlan, block: true},
		"disabled":        nil,
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			plan, source := NewService(gen, 50*time.Millisecond).GeneratePlan(context.Background(), req)
			assert.Equal(t, SourceFallback, source)
			assert.GreaterOrEqual(t, len(plan.Phases), 4)
			assert.Equal(t, "6 weeks", plan.Duration)
		})
	}
}

func TestFallbackMentionsGoal(t *testing.T) {
	plan := Fallback(req)
	require.Len(t, plan.Phases, 6)
	for i, ph := range plan.Phases {
		assert.Equal(t, i+1, ph.Week)
		assert.Equal(t, "5 hours", ph.Time)
		assert.NotEmpty(t, ph.Resources)
	}
	assert.Equal(t, "Getting started with Go", plan.Phases[0].Topics[0])
}

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, req.Validate())
	assert.ErrorIs(t, Request{Goal: " ", HoursPerWeek: 3}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, Request{Goal: "Go"}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, Request{Goal: "Go", HoursPerWeek: 200}.Validate(), ErrInvalidRequest)
}

func TestRequestAcceptsNumericStringHours(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{`{"goal":"Python","time_available_per_week":5,"prior_experience":"beginner"}`, 5},
		{`{"goal":"Python","time_available_per_week":"5","prior_experience":"beginner"}`, 5},
		{`{"goal":"Python","time_available_per_week":" 12 ","prior_experience":"beginner"}`, 12},
		{`{"goal":"Python"}`, 0},
	}
	for _, tc := range cases {
		var r Request
		require.NoError(t, json.Unmarshal([]byte(tc.body), &r), tc.body)
		assert.Equal(t, tc.want, r.HoursPerWeek, tc.body)
		assert.Equal(t, "Python", r.Goal, tc.body)
	}

	var r Request
	require.NoError(t, json.Unmarshal([]byte(`{"goal":"Python","time_available_per_week":"5","prior_experience":"beginner"}`), &r))
	assert.Equal(t, "beginner", r.PriorExperience)
	assert.NoError(t, r.Validate())

	assert.Error(t, json.Unmarshal([]byte(`{"goal":"Python","time_available_per_week":"five"}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"goal":"Python","time_available_per_week":2.5}`), &r))
}
