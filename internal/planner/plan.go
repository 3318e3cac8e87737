package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"learnquest/internal/apperr"
)

var ErrInvalidRequest = apperr.New(apperr.KindValidation, "invalid_plan_request", "goal and a positive weekly time budget are required")

type Request struct {
	Goal            string `json:"goal"`
	HoursPerWeek    int    `json:"time_available_per_week"`
	PriorExperience string `json:"prior_experience"`
}

// UnmarshalJSON accepts the weekly hours as a number or a numeric string ("5").
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	var raw struct {
		plain
		HoursPerWeek json.RawMessage `json:"time_available_per_week"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Request(raw.plain)

	hours := strings.TrimSpace(string(raw.HoursPerWeek))
	if hours == "" || hours == "null" {
		r.HoursPerWeek = 0
		return nil
	}
	if unq, err := strconv.Unquote(hours); err == nil {
		hours = strings.TrimSpace(unq)
	}
	n, err := strconv.Atoi(hours)
	if err != nil {
		return fmt.Errorf("time_available_per_week: %q is not a whole number", hours)
	}
	r.HoursPerWeek = n
	return nil
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Goal) == "" || r.HoursPerWeek <= 0 || r.HoursPerWeek > 168 {
		return ErrInvalidRequest
	}
	return nil
}

type Plan struct {
	Duration string  `json:"duration"`
	Phases   []Phase `json:"phases"`
}

type Phase struct {
	Week      int      `json:"week"`
	Topics    []string `json:"topics"`
	Resources []string `json:"resources"`
	Time      string   `json:"time"`
}

// valid reports whether a generated plan has the minimal usable shape.
func (p *Plan) valid() bool {
	if p == nil || strings.TrimSpace(p.Duration) == "" || len(p.Phases) == 0 {
		return false
	}
	for _, ph := range p.Phases {
		if ph.Week <= 0 || len(ph.Topics) == 0 {
			return false
		}
	}
	return true
}

// Fallback is the deterministic six-week plan served whenever generation fails.
func Fallback(req Request) *Plan {
	goal := strings.TrimSpace(req.Goal)
	hours := fmt.Sprintf("%d hours", req.HoursPerWeek)

	weeks := []struct {
		topics    []string
		resources []string
	}{
		{[]string{"Getting started with " + goal, "Basic concepts and setup"}, []string{"Official documentation", "YouTube tutorials"}},
		{[]string{"Intermediate " + goal + " concepts", "Hands-on practice"}, []string{"Online courses", "Practice exercises"}},
		{[]string{"Advanced " + goal + " topics", "Real-world applications"}, []string{"Advanced tutorials", "Project examples"}},
		{[]string{"Building your first project", "Best practices"}, []string{"Project guides", "Community forums"}},
		{[]string{"Testing and debugging", "Code optimization"}, []string{"Testing frameworks", "Debugging tools"}},
		{[]string{"Final project", "Portfolio development"}, []string{"Portfolio examples", "Deployment guides"}},
	}

	plan := &Plan{Duration: fmt.Sprintf("%d weeks", len(weeks)), Phases: make([]Phase, 0, len(weeks))}
	for i, w := range weeks {
		plan.Phases = append(plan.Phases, Phase{
			Week:      i + 1,
			Topics:    w.topics,
			Resources: w.resources,
			Time:      hours,
		})
	}
	return plan
}

func buildPrompt(req Request) string {
	prior := strings.TrimSpace(req.PriorExperience)
	if prior == "" {
		prior = "none"
	}
	return fmt.Sprintf(`Create a comprehensive personalized learning path for the following:
- Goal: %s
- Time available per week: %d hours
- Prior experience: %s

Create a detailed week-by-week learning plan of 4 to 8 weeks. Each week should build upon the previous one.

Respond with JSON only, in this shape:
{
  "duration": "X weeks",
  "phases": [
    {"week": 1, "topics": ["topic1", "topic2"], "resources": ["resource1", "resource2"], "time": "%d hours"}
  ]
}

Provide practical resources for each week. Return only valid JSON, no additional text or markdown.`,
		strings.TrimSpace(req.Goal), req.HoursPerWeek, prior, req.HoursPerWeek)
}

// stripFences removes a surrounding markdown code fence, with or without a language tag.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.HasPrefix(strings.TrimSpace(s[:nl]), "{") {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
