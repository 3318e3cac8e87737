package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnquest/internal/logger"
	"learnquest/internal/metrics"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"

	defaultTimeout = 20 * time.Second
)

type Service struct {
	gen     Generator
	timeout time.Duration
}

// NewService accepts a nil generator; every plan is then the fallback.
func NewService(gen Generator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{gen: gen, timeout: timeout}
}

// GeneratePlan never fails: any generator problem yields the fallback plan.
// The second return value names the plan source.
func (s *Service) GeneratePlan(ctx context.Context, req Request) (*Plan, string) {
	log := logger.WithContext(ctx)

	if s.gen == nil {
		metrics.RecordPlan(SourceFallback, "disabled")
		return Fallback(req), SourceFallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	plan, err := s.generateWithin(ctx, req)
	if err != nil {
		reason := "error"
		if ctx.Err() != nil {
			reason = "timeout"
		}
		log.Warnw("plan generation failed, serving fallback", "error", err, "reason", reason)
		metrics.RecordPlan(SourceFallback, reason)
		return Fallback(req), SourceFallback
	}

	metrics.RecordPlan(SourceAI, "")
	return plan, SourceAI
}

type outcome struct {
	plan *Plan
	err  error
}

// generateWithin returns when ctx ends even if the generator ignores it.
func (s *Service) generateWithin(ctx context.Context, req Request) (*Plan, error) {
	done := make(chan outcome, 1)
	go func() {
		plan, err := s.generate(ctx, req)
		done <- outcome{plan: plan, err: err}
	}()

	select {
	case out := <-done:
		return out.plan, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) generate(ctx context.Context, req Request) (plan *Plan, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()

	raw, err := s.gen.Generate(ctx, buildPrompt(req))
	if err != nil {
		return nil, err
	}

	var p Plan
	if err := json.Unmarshal([]byte(stripFences(raw)), &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if !p.valid() {
		return nil, fmt.Errorf("plan has unusable shape")
	}
	return &p, nil
}
