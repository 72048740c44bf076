package flow

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome a task unit hands to its continuation: either an
// error or zero or more success values.
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	values    []T
	err       error
	isSuccess bool
}

func Success[T any](values ...T) Result[T] {
	return Result[T]{
		values:    values,
		err:       nil,
		isSuccess: true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		err:       err,
		isSuccess: false,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Values returns the success values, nil on failure.
func (r Result[T]) Values() []T {
	if !r.isSuccess {
		return nil
	}
	return r.values
}

// Value returns the first success value or the zero value of T.
func (r Result[T]) Value() T {
	var zero T
	if !r.HasValue() {
		return zero
	}
	return r.values[0]
}

func (r Result[T]) HasValue() bool {
	return r.isSuccess && len(r.values) > 0
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[T]) IsFailure() bool {
	return !r.isSuccess && r.err != nil
}

// IsEmpty reports a zero Result that was never settled.
func (r Result[T]) IsEmpty() bool {
	return r.err == nil && !r.isSuccess
}

func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

func (r Result[T]) Id() uuid.UUID {
	return r.id
}
