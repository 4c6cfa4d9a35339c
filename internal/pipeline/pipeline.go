// Package pipeline runs named hooks over a shared context value in a fixed order.
// The first hook to fail stops the run and its error is returned unchanged.
package pipeline

import (
	"context"
	"errors"
	"time"

	"credex/internal/platform/tracer"
)

// Hook inspects or mutates c. A non-nil error stops the pipeline.
type Hook[C any] func(ctx context.Context, c C) error

// Step is a named hook; the name labels spans and metrics.
type Step[C any] struct {
	Name string
	Hook Hook[C]
}

type settings struct {
	tracer  tracer.Tracer
	metrics *Metrics
}

type Option func(*settings)

func WithTracer(t tracer.Tracer) Option {
	return func(s *settings) {
		s.tracer = t
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// Pipeline is immutable once built and safe for concurrent Run calls.
type Pipeline[C any] struct {
	name  string
	steps []Step[C]
	settings
}

// New builds a pipeline. It panics on a nil hook or a duplicate step name
// since both are wiring mistakes.
func New[C any](name string, steps []Step[C], opts ...Option) *Pipeline[C] {
	seen := make(map[string]struct{}, len(steps))
	for _, st := range steps {
		if st.Hook == nil {
			panic("pipeline.New: step " + st.Name + " has no hook")
		}
		if _, dup := seen[st.Name]; dup {
			panic("pipeline.New: duplicate step " + st.Name)
		}
		seen[st.Name] = struct{}{}
	}

	p := &Pipeline[C]{
		name:  name,
		steps: append([]Step[C](nil), steps...),
		settings: settings{
			tracer: tracer.NewNoop(),
		},
	}
	for _, opt := range opts {
		opt(&p.settings)
	}
	return p
}

func (p *Pipeline[C]) Name() string {
	return p.name
}

// Steps returns the configured step names in execution order.
func (p *Pipeline[C]) Steps() []string {
	names := make([]string, len(p.steps))
	for i, st := range p.steps {
		names[i] = st.Name
	}
	return names
}

// Run executes every step against c in order.
func (p *Pipeline[C]) Run(ctx context.Context, c C) error {
	for i, st := range p.steps {
		if err := p.runStep(ctx, i, st, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline[C]) runStep(ctx context.Context, index int, st Step[C], c C) (err error) {
	stepCtx, span := p.tracer.Start(ctx, tracer.SpanPipelineStep,
		tracer.String(tracer.AttrPipeline, p.name),
		tracer.String(tracer.AttrStep, st.Name),
		tracer.Int64(tracer.AttrStepIndex, int64(index)),
	)
	start := time.Now()
	defer func() {
		span.End(err)
		if p.metrics != nil {
			p.metrics.ObserveStep(p.name, st.Name, outcome(err), time.Since(start))
		}
	}()
	return st.Hook(stepCtx, c)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
