package compose

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ib-77/asyncflow/pkg/flow"
	"github.com/ib-77/asyncflow/pkg/flow/core"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// arith builds a unit applying f to its input after a short delay.
func arith(rec *recorder, name string, f func(int) int) Unit[int] {
	return UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		rec.add(name)
		v := 0
		if len(in) > 0 {
			v = in[0]
		}
		time.AfterFunc(time.Millisecond, func() { _ = next.Return(f(v)) })
	})
}

type outcome struct {
	result flow.Result[int]
}

func call(ctx context.Context, u Unit[int], in ...int) flow.Result[int] {
	ch := make(chan outcome, 1)
	u.Run(ctx, flow.NewContinuation(func(r flow.Result[int]) { ch <- outcome{r} }, false), in...)
	select {
	case o := <-ch:
		return o.result
	case <-time.After(2 * time.Second):
		return flow.Fail[int](errors.New("timeout"))
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompose_RunsRightToLeft(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	square := arith(rec, "square", func(n int) int { return n * n })
	decrement := arith(rec, "decrement", func(n int) int { return n - 1 })
	incr2 := arith(rec, "incr2", func(n int) int { return n + 2 })

	u, err := Compose[int](square, decrement, incr2)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}

	res := call(context.Background(), u, 4)
	if !res.IsSuccess() || res.Value() != 25 {
		t.Fatalf("expected 25, got success=%v value=%v err=%v", res.IsSuccess(), res.Value(), res.Err())
	}
	if got := rec.names(); !equal(got, []string{"incr2", "decrement", "square"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestSeq_RunsLeftToRight(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	add2 := arith(rec, "add2", func(n int) int { return n + 2 })
	sub1 := arith(rec, "sub1", func(n int) int { return n - 1 })
	mul2 := arith(rec, "mul2", func(n int) int { return n * 2 })

	res := call(context.Background(), MustSeq[int](add2, sub1, mul2), 4)
	if !res.IsSuccess() || res.Value() != 10 {
		t.Fatalf("expected 10, got success=%v value=%v err=%v", res.IsSuccess(), res.Value(), res.Err())
	}
	if got := rec.names(); !equal(got, []string{"add2", "sub1", "mul2"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestSeq_EquivalentToComposeReversed(t *testing.T) {
	t.Parallel()

	recA, recB := &recorder{}, &recorder{}
	build := func(rec *recorder) []Unit[int] {
		return []Unit[int]{
			arith(rec, "a", func(n int) int { return n + 3 }),
			arith(rec, "b", func(n int) int { return n * 5 }),
			arith(rec, "c", func(n int) int { return n - 7 }),
		}
	}

	seqUnits := build(recA)
	composeUnits := build(recB)
	reversed := []Unit[int]{composeUnits[2], composeUnits[1], composeUnits[0]}

	r1 := call(context.Background(), MustSeq[int](seqUnits...), 1)
	r2 := call(context.Background(), MustCompose[int](reversed...), 1)

	if r1.Value() != r2.Value() || r1.Value() != 13 {
		t.Fatalf("expected both to yield 13, got seq=%v compose=%v", r1.Value(), r2.Value())
	}
	if !equal(recA.names(), recB.names()) {
		t.Fatalf("expected identical order, got seq=%v compose=%v", recA.names(), recB.names())
	}
}

func TestCompose_FailureStopsChain(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	boom := errors.New("boom")
	failing := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		rec.add("fail")
		_ = next.Fail(boom)
	})
	first := arith(rec, "first", func(n int) int { return n + 1 })
	last := arith(rec, "last", func(n int) int { return n * 100 })

	res := call(context.Background(), MustSeq[int](first, failing, last), 1)

	if !res.IsFailure() || res.Err() != boom {
		t.Fatalf("expected failure boom, got success=%v err=%v", res.IsSuccess(), res.Err())
	}
	if res.HasValue() {
		t.Fatalf("expected no value on failure, got %v", res.Values())
	}
	if got := rec.names(); !equal(got, []string{"first", "fail"}) {
		t.Fatalf("expected last unit never to run, got %v", got)
	}
}

func TestCompose_ForwardsContextToEveryUnit(t *testing.T) {
	t.Parallel()

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "shared")

	var seen []any
	probe := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		seen = append(seen, ctx.Value(key{}))
		_ = next.Return(in...)
	})

	res := call(ctx, MustCompose[int](probe, probe, probe), 9)

	if res.Value() != 9 {
		t.Fatalf("expected 9 to pass through, got %v", res.Value())
	}
	if len(seen) != 3 {
		t.Fatalf("expected three invocations, got %d", len(seen))
	}
	for i, v := range seen {
		if v != "shared" {
			t.Fatalf("unit %d saw %v instead of the caller context", i, v)
		}
	}
}

func TestCompose_NoValueMeansNoInput(t *testing.T) {
	t.Parallel()

	silent := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		_ = next.Return()
	})
	var received []int
	probe := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		received = in
		_ = next.Return(len(in))
	})

	res := call(context.Background(), MustSeq[int](silent, probe), 5)

	if len(received) != 0 {
		t.Fatalf("expected no input after a unit returned nothing, got %v", received)
	}
	if res.Value() != 0 {
		t.Fatalf("expected 0, got %v", res.Value())
	}
}

func TestCompose_OnlyFirstValueIsHandedOff(t *testing.T) {
	t.Parallel()

	pair := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		_ = next.Return(7, 8, 9)
	})
	var received []int
	probe := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		received = in
		_ = next.Return(in...)
	})

	res := call(context.Background(), MustSeq[int](pair, probe))

	if len(received) != 1 || received[0] != 7 {
		t.Fatalf("expected [7], got %v", received)
	}
	if res.Value() != 7 || len(res.Values()) != 1 {
		t.Fatalf("expected a single value 7, got %v", res.Values())
	}
}

func TestCompose_ZeroUnitsIsIdentity(t *testing.T) {
	t.Parallel()

	u, err := Compose[int]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res := call(context.Background(), u, 42); res.Value() != 42 {
		t.Fatalf("expected 42, got %v", res.Value())
	}
	if res := call(context.Background(), MustSeq[int]()); !res.IsSuccess() || res.HasValue() {
		t.Fatalf("expected empty success, got %v", res.Values())
	}
}

func TestCompose_NilUnitIsConfigurationError(t *testing.T) {
	t.Parallel()

	ok := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) { _ = next.Return(in...) })

	_, err := Compose[int](ok, nil)
	if !errors.Is(err, flow.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}

	var nilFunc UnitFunc[int]
	_, err = Seq[int](nilFunc)
	var ce *flow.ConfigurationError
	if !errors.As(err, &ce) || ce.Op != "seq" {
		t.Fatalf("expected *ConfigurationError from seq, got %v", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected MustCompose to panic")
		}
	}()
	MustCompose[int](ok, Funcs[int](nil)[0])
}

func TestCompose_ReusedContinuationIsIgnored(t *testing.T) {
	t.Parallel()

	var second error
	double := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		_ = next.Return(1)
		second = next.Return(2)
	})
	calls := 0
	probe := UnitFunc[int](func(ctx context.Context, next *flow.Continuation[int], in ...int) {
		calls++
		_ = next.Return(in...)
	})

	res := call(context.Background(), MustSeq[int](double, probe))

	if !errors.Is(second, flow.ErrContinuationReused) {
		t.Fatalf("expected ErrContinuationReused, got %v", second)
	}
	if calls != 1 || res.Value() != 1 {
		t.Fatalf("expected one downstream call with 1, got calls=%d value=%v", calls, res.Value())
	}
}

func TestCompose_ReportsHooks(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	starts, finishes := 0, 0
	ctx := core.WithHooks(context.Background(), core.Hooks{
		OnStart: func(context.Context, core.StepEvent) {
			mu.Lock()
			starts++
			mu.Unlock()
		},
		OnFinish: func(_ context.Context, ev core.StepEvent) {
			mu.Lock()
			finishes++
			mu.Unlock()
			if ev.Op != "compose" || ev.Index != 2 {
				t.Errorf("unexpected finish event %+v", ev)
			}
		},
	})

	rec := &recorder{}
	call(ctx, MustCompose[int](arith(rec, "a", func(n int) int { return n }), arith(rec, "b", func(n int) int { return n })), 1)

	mu.Lock()
	defer mu.Unlock()
	if starts != 2 || finishes != 1 {
		t.Fatalf("expected 2 starts and 1 finish, got %d and %d", starts, finishes)
	}
}
