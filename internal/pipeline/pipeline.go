package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/venuecrawl/internal/model"
)

// Step is one tier of the crawl.
type Step interface {
	// Do runs the step. It receives the frontier accumulated by earlier steps
	// and returns the frontier to hand to the next one. Counters go into report.
	Do(ctx context.Context, frontier model.Frontier, report *model.RunReport) (model.Frontier, error)

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in order, threading the frontier through them.
// It returns the last frontier produced and the first error encountered.
func (p *Pipeline) Execute(ctx context.Context, frontier model.Frontier, report *model.RunReport) (model.Frontier, error) {
	p.logger.Debug("pipeline started",
		"steps", p.StepNames(),
		"count", p.StepCount(),
	)

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			return frontier, err
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"regions", len(frontier.Regions),
			"cities", len(frontier.Cities),
			"venues", len(frontier.Venues),
		)

		next, err := step.Do(ctx, frontier, report)
		if err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			return next, fmt.Errorf("%s: %w", step.Name(), err)
		}

		p.logger.Debug("step completed", "step", step.Name())
		frontier = next
	}

	return frontier, nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
