package usecase

import "context"

// Next runs the remainder of a pipeline stage.
type Next[T any] func(ctx context.Context) (T, error)

// Step wraps a pipeline stage. A step receives the delegate explicitly and
// decides when, or whether, to call it.
type Step[T any] interface {
	Run(ctx context.Context, next Next[T]) (T, error)
}

// StepFunc adapts a function to the Step interface.
type StepFunc[T any] func(ctx context.Context, next Next[T]) (T, error)

// Run calls f.
func (f StepFunc[T]) Run(ctx context.Context, next Next[T]) (T, error) {
	return f(ctx, next)
}

// Chain composes steps around base. The first step is outermost, so
// Chain(base, a, b) runs a, which calls b, which calls base.
func Chain[T any](base Next[T], steps ...Step[T]) Next[T] {
	next := base
	for i := len(steps) - 1; i >= 0; i-- {
		step, inner := steps[i], next
		next = func(ctx context.Context) (T, error) {
			return step.Run(ctx, inner)
		}
	}
	return next
}
