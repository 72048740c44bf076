package compose

import (
	"context"
	"slices"

	"github.com/ib-77/asyncflow/pkg/flow"
	"github.com/ib-77/asyncflow/pkg/flow/core"
)

// Unit is a single-value asynchronous function. in holds zero or one value;
// the unit settles next exactly once.
type Unit[T any] interface {
	Run(ctx context.Context, next *flow.Continuation[T], in ...T)
}

// UnitFunc adapts a plain function to Unit.
type UnitFunc[T any] func(ctx context.Context, next *flow.Continuation[T], in ...T)

func (f UnitFunc[T]) Run(ctx context.Context, next *flow.Continuation[T], in ...T) {
	f(ctx, next, in...)
}

// Compose returns a unit computing f(g(h(x))) for Compose(f, g, h): the last
// unit runs first and each unit consumes the value of the one after it.
// Composing no units yields the identity.
func Compose[T any](units ...Unit[T]) (Unit[T], error) {
	if err := check("compose", units); err != nil {
		return nil, err
	}
	chain := slices.Clone(units)
	slices.Reverse(chain)
	return &composed[T]{op: "compose", units: chain}, nil
}

// Seq is Compose with the arguments reversed: the first unit runs first.
func Seq[T any](units ...Unit[T]) (Unit[T], error) {
	if err := check("seq", units); err != nil {
		return nil, err
	}
	return &composed[T]{op: "seq", units: slices.Clone(units)}, nil
}

func MustCompose[T any](units ...Unit[T]) Unit[T] {
	u, err := Compose(units...)
	if err != nil {
		panic(err)
	}
	return u
}

func MustSeq[T any](units ...Unit[T]) Unit[T] {
	u, err := Seq(units...)
	if err != nil {
		panic(err)
	}
	return u
}

// Funcs lifts plain functions into units, in the same order.
func Funcs[T any](fs ...func(ctx context.Context, next *flow.Continuation[T], in ...T)) []Unit[T] {
	units := make([]Unit[T], len(fs))
	for i, f := range fs {
		if f != nil {
			units[i] = UnitFunc[T](f)
		}
	}
	return units
}

func check[T any](op string, units []Unit[T]) error {
	for i, u := range units {
		if flow.IsNil(u) {
			return flow.Configuration(op, "unit %d is nil", i)
		}
	}
	return nil
}

// composed holds its units in invocation order.
type composed[T any] struct {
	op    string
	units []Unit[T]
}

// Run invokes the chain with ctx passed unchanged to every unit. At most
// the first value of in is used.
func (c *composed[T]) Run(ctx context.Context, next *flow.Continuation[T], in ...T) {
	if next == nil {
		next = flow.NewContinuation[T](nil, false)
	}

	run := core.NewRun(ctx, c.op)
	strict := run.Strict()

	args := single(in)
	index := 0
	settled := false
	var outcome flow.Result[T]

	core.NewLocomotive(func(wake func()) bool {
		if settled {
			settled = false
			run.Settle(outcome.Err())

			if outcome.IsFailure() {
				run.Finish(index, outcome.Err())
				_ = next.Fail(outcome.Err())
				return false
			}

			args = single(outcome.Values())
			index++
		}

		if index == len(c.units) {
			run.Finish(index, nil)
			_ = next.Return(args...)
			return false
		}

		run.Start(index, "")
		step := flow.NewContinuation(func(r flow.Result[T]) {
			outcome = r
			settled = true
			wake()
		}, strict)
		c.units[index].Run(ctx, step, args...)
		return true
	}).Start()
}

func single[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	return values[:1:1]
}
