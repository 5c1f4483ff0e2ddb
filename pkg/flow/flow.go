// Package flow runs multi-step operations as named pipelines over a typed state.
package flow

import (
	"context"
	"fmt"
)

type Step[T any] struct {
	Name    string
	Execute func(ctx context.Context, state *T) error
}

func NewStep[T any](name string, execute func(ctx context.Context, state *T) error) *Step[T] {
	return &Step[T]{
		Name:    name,
		Execute: execute,
	}
}

type Pipeline[T any] struct {
	name  string
	steps []*Step[T]
}

func NewPipeline[T any](name string, steps ...*Step[T]) *Pipeline[T] {
	return &Pipeline[T]{name: name, steps: steps}
}

func (p *Pipeline[T]) Name() string {
	return p.name
}

// Run executes the steps in order and stops at the first failure. The step
// error is wrapped, so callers can still errors.As it.
func (p *Pipeline[T]) Run(ctx context.Context, state *T) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: aborted before %s step: %w", p.name, step.Name, err)
		}
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("%s: %s step failed: %w", p.name, step.Name, err)
		}
	}
	return nil
}
