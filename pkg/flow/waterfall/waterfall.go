package waterfall

import (
	"context"
	"slices"

	"github.com/ib-77/asyncflow/pkg/flow"
	"github.com/ib-77/asyncflow/pkg/flow/core"
)

const (
	op = "waterfall"

	notSequence = "first argument to waterfall must be an ordered sequence of task units"
)

// Step is an asynchronous unit receiving the success values of the previous
// step as args. The first step receives none.
type Step interface {
	Run(ctx context.Context, next *flow.Continuation[any], args ...any)
}

// StepFunc adapts a plain function to Step.
type StepFunc func(ctx context.Context, next *flow.Continuation[any], args ...any)

func (f StepFunc) Run(ctx context.Context, next *flow.Continuation[any], args ...any) {
	f(ctx, next, args...)
}

// Callback receives the error of the failing step, or nil and the success
// values of the last step.
type Callback func(err error, results ...any)

// Run is the untyped entry point. tasks must be []Step, []StepFunc or
// []func(context.Context, *flow.Continuation[any], ...any). Anything else,
// keyed mappings included, fails with *flow.InvalidArgumentError without
// running a step or calling cb.
func Run(ctx context.Context, tasks any, cb Callback) error {
	steps, err := sequence(tasks)
	if err != nil {
		return err
	}
	return Steps(ctx, steps, cb)
}

// Steps runs steps in order, threading each step's success values into the
// next one as its arguments. The first failure stops the run and cb gets
// that error alone; values supplied next to it are discarded. An empty
// sequence calls cb(nil) at once. cb may be nil. steps is copied, so later
// changes to the caller's slice do not reach the run.
func Steps(ctx context.Context, steps []Step, cb Callback) error {
	steps = slices.Clone(steps)
	for i, s := range steps {
		if flow.IsNil(s) {
			return flow.InvalidArgument(op, "step %d is not callable", i)
		}
	}
	if cb == nil {
		cb = func(error, ...any) {}
	}

	run := core.NewRun(ctx, op)
	strict := run.Strict()

	var args []any
	index := 0
	settled := false
	var outcome flow.Result[any]

	core.NewLocomotive(func(wake func()) bool {
		if settled {
			settled = false
			run.Settle(outcome.Err())

			if outcome.IsFailure() {
				run.Finish(index, outcome.Err())
				cb(outcome.Err())
				return false
			}

			args = outcome.Values()
			index++
		}

		if index == len(steps) {
			run.Finish(index, nil)
			cb(nil, args...)
			return false
		}

		run.Start(index, "")
		next := flow.NewContinuation(func(r flow.Result[any]) {
			outcome = r
			settled = true
			wake()
		}, strict)
		steps[index].Run(ctx, next, args...)
		return true
	}).Start()

	return nil
}

// Funcs lifts plain functions into steps, in the same order.
func Funcs(fs ...func(ctx context.Context, next *flow.Continuation[any], args ...any)) []Step {
	steps := make([]Step, len(fs))
	for i, f := range fs {
		if f != nil {
			steps[i] = StepFunc(f)
		}
	}
	return steps
}

func sequence(tasks any) ([]Step, error) {
	switch ts := tasks.(type) {
	case []Step:
		return ts, nil
	case []StepFunc:
		steps := make([]Step, len(ts))
		for i, f := range ts {
			if f != nil {
				steps[i] = f
			}
		}
		return steps, nil
	case []func(context.Context, *flow.Continuation[any], ...any):
		return Funcs(ts...), nil
	}
	return nil, flow.InvalidArgument(op, notSequence)
}
