// Package saga runs multi-step operations that span independent resources
// (database rows, stored files) and undoes completed steps when a later one fails.
//
// Steps run in the order they were added. When a step fails, the
// compensations of the steps that already completed run in reverse order.
// Compensations should be idempotent.
//
//	s := saga.New(logger)
//	s.AddStep("save cover", saveCover, deleteCover)
//	s.AddStep("insert book", insertBook, nil)
//	err := s.Execute(ctx)
package saga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Step is one unit of a saga. Compensate may be nil.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga is an ordered list of steps. A Saga is single-use and not safe for
// concurrent use.
type Saga struct {
	steps    []Step
	executed []Step
	logger   *slog.Logger
}

// New creates an empty saga. A nil logger discards compensation failures.
func New(logger *slog.Logger) *Saga {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Saga{logger: logger}
}

// AddStep appends a step.
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute runs every step in order. On the first failure it compensates the
// completed steps and returns the step error joined with any compensation errors.
//
// Compensations run with a context detached from ctx's cancellation, so an
// aborted request still cleans up after itself.
func (s *Saga) Execute(ctx context.Context) error {
	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, step.Name, err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				return s.fail(ctx, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}
	return nil
}

func (s *Saga) fail(ctx context.Context, name string, cause error) error {
	stepErr := fmt.Errorf("%s: %w", name, cause)
	if compErr := s.compensate(context.WithoutCancel(ctx)); compErr != nil {
		return errors.Join(stepErr, compErr)
	}
	return stepErr
}

func (s *Saga) compensate(ctx context.Context) error {
	var errs []error
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("compensation failed", "step", step.Name, "error", err)
			errs = append(errs, fmt.Errorf("compensate %s: %w", step.Name, err))
		}
	}
	s.executed = nil
	return errors.Join(errs...)
}
