package flow

import "sync/atomic"

// Continuation is the single-use completion handle passed to a task unit.
// Exactly one of Return, Fail or Complete must be called, exactly once.
//
// The first call settles the continuation and resumes the orchestrator,
// possibly on the calling goroutine. Later calls do nothing and return
// ErrContinuationReused, or panic with it when the continuation is strict.
type Continuation[T any] struct {
	settled atomic.Bool
	strict  bool
	resume  func(Result[T])
}

// NewContinuation wraps resume into a single-use continuation.
func NewContinuation[T any](resume func(Result[T]), strict bool) *Continuation[T] {
	return &Continuation[T]{resume: resume, strict: strict}
}

// Return settles the continuation with zero or more success values.
func (k *Continuation[T]) Return(values ...T) error {
	return k.Complete(Success(values...))
}

// Fail settles the continuation with err. A nil err is a success with no values.
func (k *Continuation[T]) Fail(err error) error {
	if err == nil {
		return k.Complete(Success[T]())
	}
	return k.Complete(Fail[T](err))
}

// Complete settles the continuation with r.
func (k *Continuation[T]) Complete(r Result[T]) error {
	if !k.settled.CompareAndSwap(false, true) {
		if k.strict {
			panic(ErrContinuationReused)
		}
		return ErrContinuationReused
	}

	if r.IsEmpty() {
		r = Success[T]()
	}

	if k.resume != nil {
		k.resume(r)
	}
	return nil
}

// Settled reports whether the continuation has already been called.
func (k *Continuation[T]) Settled() bool {
	return k.settled.Load()
}
