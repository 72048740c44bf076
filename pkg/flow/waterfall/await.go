package waterfall

import "context"

type outcome struct {
	results []any
	err     error
}

// Await runs tasks like Run and blocks until the last step settles. If ctx
// is done first, Await stops waiting and returns ctx.Err(); the run itself
// carries on.
func Await(ctx context.Context, tasks any) ([]any, error) {
	ch := make(chan outcome, 1)
	err := Run(ctx, tasks, func(err error, results ...any) {
		ch <- outcome{results: results, err: err}
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
