package series

import (
	"context"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type sliceOutcome[T any] struct {
	results []T
	err     error
}

// AwaitSlice runs Slice and blocks until it settles. If ctx is done first,
// AwaitSlice stops waiting and returns ctx.Err(); the run itself carries on.
func AwaitSlice[T any](ctx context.Context, tasks []Task[T]) ([]T, error) {
	ch := make(chan sliceOutcome[T], 1)
	err := Slice(ctx, tasks, func(err error, results []T) {
		ch <- sliceOutcome[T]{results: results, err: err}
	})
	if err != nil {
		return nil, err
	}

	select {
	case o := <-ch:
		return o.results, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type keyedOutcome[K comparable, T any] struct {
	results *orderedmap.OrderedMap[K, T]
	err     error
}

// AwaitKeyed runs Keyed and blocks until it settles, like AwaitSlice.
func AwaitKeyed[K comparable, T any](ctx context.Context,
	tasks *orderedmap.OrderedMap[K, Task[T]]) (*orderedmap.OrderedMap[K, T], error) {

	ch := make(chan keyedOutcome[K, T], 1)
	err := Keyed(ctx, tasks, func(err error, results *orderedmap.OrderedMap[K, T]) {
		ch <- keyedOutcome[K, T]{results: results, err: err}
	})
	if err != nil {
		return nil, err
	}

	select {
	case o := <-ch:
		return o.results, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
