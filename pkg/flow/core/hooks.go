package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// now is overridden in tests to provide deterministic timings.
var now = time.Now

// StepEvent describes one unit of an orchestration run.
type StepEvent struct {
	RunID     uuid.UUID
	Op        string
	Index     int
	Key       string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// HookFunc is invoked for lifecycle notifications.
type HookFunc func(context.Context, StepEvent)

// Hooks aggregates optional lifecycle callbacks. OnStart and OnSuccess or
// OnFailure fire per unit; OnFinish fires once per run with Index set to the
// number of units that completed successfully.
type Hooks struct {
	OnStart   HookFunc
	OnSuccess HookFunc
	OnFailure HookFunc
	OnFinish  HookFunc
}

// Merge combines two hook sets, running the receiver first.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnStart:   chainHooks(h.OnStart, other.OnStart),
		OnSuccess: chainHooks(h.OnSuccess, other.OnSuccess),
		OnFailure: chainHooks(h.OnFailure, other.OnFailure),
		OnFinish:  chainHooks(h.OnFinish, other.OnFinish),
	}
}

func (h Hooks) IsZero() bool {
	return h.OnStart == nil && h.OnSuccess == nil && h.OnFailure == nil && h.OnFinish == nil
}

func chainHooks(first, second HookFunc) HookFunc {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, ev StepEvent) {
		first(ctx, ev)
		second(ctx, ev)
	}
}

// LogHooks renders lifecycle events as structured log records.
func LogHooks(logger *slog.Logger) Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	attrs := func(ev StepEvent) []any {
		a := []any{
			slog.String("run", ev.RunID.String()),
			slog.String("op", ev.Op),
			slog.Int("index", ev.Index),
		}
		if ev.Key != "" {
			a = append(a, slog.String("key", ev.Key))
		}
		if ev.Duration > 0 {
			a = append(a, slog.Duration("duration", ev.Duration))
		}
		return a
	}

	return Hooks{
		OnStart: func(ctx context.Context, ev StepEvent) {
			logger.DebugContext(ctx, "unit started", attrs(ev)...)
		},
		OnSuccess: func(ctx context.Context, ev StepEvent) {
			logger.DebugContext(ctx, "unit succeeded", attrs(ev)...)
		},
		OnFailure: func(ctx context.Context, ev StepEvent) {
			logger.WarnContext(ctx, "unit failed", append(attrs(ev), slog.Any("error", ev.Err))...)
		},
		OnFinish: func(ctx context.Context, ev StepEvent) {
			if ev.Err != nil {
				logger.InfoContext(ctx, "run aborted", append(attrs(ev), slog.Any("error", ev.Err))...)
				return
			}
			logger.InfoContext(ctx, "run finished", attrs(ev)...)
		},
	}
}

// Run tracks the hook events of one orchestration call.
type Run struct {
	ctx     context.Context
	hooks   Hooks
	id      uuid.UUID
	op      string
	started time.Time
	current StepEvent
}

// NewRun reads the hooks configured on ctx and opens a run for op.
func NewRun(ctx context.Context, op string) *Run {
	return &Run{
		ctx:     ctx,
		hooks:   GetHooks(ctx),
		id:      uuid.New(),
		op:      op,
		started: now(),
	}
}

func (r *Run) ID() uuid.UUID {
	return r.id
}

// Strict reports whether continuations of this run panic on reuse.
func (r *Run) Strict() bool {
	return IsStrictContinuations(r.ctx, false)
}

// Start records the launch of unit index (key is optional).
func (r *Run) Start(index int, key string) {
	r.current = StepEvent{RunID: r.id, Op: r.op, Index: index, Key: key, StartedAt: now()}
	if r.hooks.OnStart != nil {
		r.hooks.OnStart(r.ctx, r.current)
	}
}

// Settle records the outcome of the unit last passed to Start.
func (r *Run) Settle(err error) {
	ev := r.current
	ev.Duration = now().Sub(ev.StartedAt)
	ev.Err = err
	if err != nil {
		if r.hooks.OnFailure != nil {
			r.hooks.OnFailure(r.ctx, ev)
		}
		return
	}
	if r.hooks.OnSuccess != nil {
		r.hooks.OnSuccess(r.ctx, ev)
	}
}

// Finish records the end of the run after completed successful units.
func (r *Run) Finish(completed int, err error) {
	if r.hooks.OnFinish == nil {
		return
	}
	r.hooks.OnFinish(r.ctx, StepEvent{
		RunID:     r.id,
		Op:        r.op,
		Index:     completed,
		StartedAt: r.started,
		Duration:  now().Sub(r.started),
		Err:       err,
	})
}
