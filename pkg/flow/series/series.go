package series

import (
	"context"
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ib-77/asyncflow/pkg/flow"
	"github.com/ib-77/asyncflow/pkg/flow/core"
)

const op = "series"

// Task is a zero-input asynchronous unit that settles done exactly once.
type Task[T any] interface {
	Run(ctx context.Context, done *flow.Continuation[T])
}

// TaskFunc adapts a plain function to Task.
type TaskFunc[T any] func(ctx context.Context, done *flow.Continuation[T])

func (f TaskFunc[T]) Run(ctx context.Context, done *flow.Continuation[T]) {
	f(ctx, done)
}

// SliceCallback receives the results of Slice. On failure results holds
// exactly the tasks that completed before the failing one: a failure at
// index i yields a slice of length i, with no slot for the failed task.
type SliceCallback[T any] func(err error, results []T)

// KeyedCallback receives the results of Keyed, in execution order. On
// failure results holds exactly the keys that completed before the failing one.
type KeyedCallback[K comparable, T any] func(err error, results *orderedmap.OrderedMap[K, T])

// Slice runs tasks one after another in index order and collects the first
// success value of each at the matching index. A task that returns no value
// stores the zero value. The first failure stops the run.
//
// tasks is copied before it is validated, so later changes to the caller's
// slice do not reach the run. A nil entry fails with
// *flow.InvalidArgumentError before any task runs. cb may be nil.
func Slice[T any](ctx context.Context, tasks []Task[T], cb SliceCallback[T]) error {
	tasks = slices.Clone(tasks)
	for i, t := range tasks {
		if flow.IsNil(t) {
			return flow.InvalidArgument(op, "task %d is not callable", i)
		}
	}

	results := make([]T, 0, len(tasks))
	execute(ctx, len(tasks),
		func(i int) (string, Task[T]) { return "", tasks[i] },
		func(_ int, r flow.Result[T]) { results = append(results, r.Value()) },
		func(err error) {
			if cb != nil {
				cb(err, results)
			}
		})
	return nil
}

// Keyed runs the tasks of an ordered mapping one after another in insertion
// order and collects the first success value of each under the same key.
// The first failure stops the run.
//
// The entries are copied when Keyed is called. A nil mapping or a nil entry
// fails with *flow.InvalidArgumentError before any task runs. cb may be nil.
func Keyed[K comparable, T any](ctx context.Context, tasks *orderedmap.OrderedMap[K, Task[T]],
	cb KeyedCallback[K, T]) error {

	if tasks == nil {
		return flow.InvalidArgument(op, "tasks must be an ordered sequence or an ordered mapping of task units, got nil")
	}

	entries := make([]keyedEntry[K, T], 0, tasks.Len())
	for pair := tasks.Oldest(); pair != nil; pair = pair.Next() {
		if flow.IsNil(pair.Value) {
			return flow.InvalidArgument(op, "task %v is not callable", pair.Key)
		}
		entries = append(entries, keyedEntry[K, T]{key: pair.Key, task: pair.Value})
	}

	results := orderedmap.New[K, T]()
	execute(ctx, len(entries),
		func(i int) (string, Task[T]) { return fmt.Sprint(entries[i].key), entries[i].task },
		func(i int, r flow.Result[T]) { results.Set(entries[i].key, r.Value()) },
		func(err error) {
			if cb != nil {
				cb(err, results)
			}
		})
	return nil
}

// keyedEntry is a snapshot of one mapping entry taken when Keyed starts.
type keyedEntry[K comparable, T any] struct {
	key  K
	task Task[T]
}

// Run is the untyped entry point. tasks must be one of []Task[any],
// []TaskFunc[any], []func(context.Context, *flow.Continuation[any]),
// *orderedmap.OrderedMap[string, Task[any]] or
// *orderedmap.OrderedMap[string, TaskFunc[any]]; cb then receives []any or
// *orderedmap.OrderedMap[string, any] respectively. Plain Go maps are
// rejected because their iteration order is unspecified.
func Run(ctx context.Context, tasks any, cb func(err error, results any)) error {
	sliceCb := func(err error, results []any) {
		if cb != nil {
			cb(err, results)
		}
	}
	keyedCb := func(err error, results *orderedmap.OrderedMap[string, any]) {
		if cb != nil {
			cb(err, results)
		}
	}

	switch ts := tasks.(type) {
	case []Task[any]:
		return Slice(ctx, ts, sliceCb)
	case []TaskFunc[any]:
		return Slice(ctx, fromFuncs(ts), sliceCb)
	case []func(context.Context, *flow.Continuation[any]):
		return Slice(ctx, Funcs(ts...), sliceCb)
	case *orderedmap.OrderedMap[string, Task[any]]:
		return Keyed(ctx, ts, keyedCb)
	case *orderedmap.OrderedMap[string, TaskFunc[any]]:
		if ts == nil {
			return Keyed[string, any](ctx, nil, keyedCb)
		}
		converted := orderedmap.New[string, Task[any]]()
		for pair := ts.Oldest(); pair != nil; pair = pair.Next() {
			var t Task[any]
			if pair.Value != nil {
				t = pair.Value
			}
			converted.Set(pair.Key, t)
		}
		return Keyed(ctx, converted, keyedCb)
	}

	return flow.InvalidArgument(op,
		"tasks must be an ordered sequence or an ordered mapping of task units, got %T", tasks)
}

// Funcs lifts plain functions into tasks, in the same order.
func Funcs[T any](fs ...func(ctx context.Context, done *flow.Continuation[T])) []Task[T] {
	tasks := make([]Task[T], len(fs))
	for i, f := range fs {
		if f != nil {
			tasks[i] = TaskFunc[T](f)
		}
	}
	return tasks
}

func fromFuncs[T any](fs []TaskFunc[T]) []Task[T] {
	tasks := make([]Task[T], len(fs))
	for i, f := range fs {
		if f != nil {
			tasks[i] = f
		}
	}
	return tasks
}

func execute[T any](ctx context.Context, n int,
	task func(i int) (string, Task[T]),
	store func(i int, r flow.Result[T]),
	finish func(err error)) {

	run := core.NewRun(ctx, op)
	strict := run.Strict()

	index := 0
	settled := false
	var outcome flow.Result[T]

	core.NewLocomotive(func(wake func()) bool {
		if settled {
			settled = false
			run.Settle(outcome.Err())

			if outcome.IsFailure() {
				run.Finish(index, outcome.Err())
				finish(outcome.Err())
				return false
			}

			store(index, outcome)
			index++
		}

		if index == n {
			run.Finish(index, nil)
			finish(nil)
			return false
		}

		key, t := task(index)
		run.Start(index, key)
		done := flow.NewContinuation(func(r flow.Result[T]) {
			outcome = r
			settled = true
			wake()
		}, strict)
		t.Run(ctx, done)
		return true
	}).Start()
}
