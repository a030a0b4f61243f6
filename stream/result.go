package stream

// Result is the sum-type primitive spec.md names as an external
// collaborator ("Result/Either sum types... are primitives"); it is
// reproduced here in full since Go has no built-in equivalent, but it
// carries no engine logic of its own beyond the observers below.
type Result[T any] struct {
	ok    bool
	value T
	err   error
}

// Ok constructs a successful Result.
func Ok[T any](v T) Result[T] { return Result[T]{ok: true, value: v} }

// Err constructs a failed Result.
func Err[T any](err error) Result[T] { return Result[T]{err: err} }

// IsOk reports whether the Result succeeded.
func (r Result[T]) IsOk() bool { return r.ok }

// Value returns the success value and true, or the zero value and false.
func (r Result[T]) Value() (T, bool) { return r.value, r.ok }

// Error returns the failure cause, or nil on success.
func (r Result[T]) Error() error { return r.err }

// OnSuccess invokes fn with the value if the Result succeeded.
func (r Result[T]) OnSuccess(fn func(T)) Result[T] {
	if r.ok {
		fn(r.value)
	}
	return r
}

// OnFailure invokes fn with the cause if the Result failed.
func (r Result[T]) OnFailure(fn func(error)) Result[T] {
	if !r.ok {
		fn(r.err)
	}
	return r
}

// Either holds exactly one of a Left or Right value.
type Either[L, R any] struct {
	isLeft bool
	left   L
	right  R
}

// Left constructs an Either holding a Left value.
func Left[L, R any](v L) Either[L, R] { return Either[L, R]{isLeft: true, left: v} }

// Right constructs an Either holding a Right value.
func Right[L, R any](v R) Either[L, R] { return Either[L, R]{isLeft: false, right: v} }

// IsLeft reports whether this Either holds a Left value.
func (e Either[L, R]) IsLeft() bool { return e.isLeft }

// LeftValue returns the Left value and true, or the zero value and false.
func (e Either[L, R]) LeftValue() (L, bool) { return e.left, e.isLeft }

// RightValue returns the Right value and true, or the zero value and false.
func (e Either[L, R]) RightValue() (R, bool) { return e.right, !e.isLeft }

// OnLeft invokes fn with the Left value, if present.
func (e Either[L, R]) OnLeft(fn func(L)) Either[L, R] {
	if e.isLeft {
		fn(e.left)
	}
	return e
}

// OnRight invokes fn with the Right value, if present.
func (e Either[L, R]) OnRight(fn func(R)) Either[L, R] {
	if !e.isLeft {
		fn(e.right)
	}
	return e
}

// EitherAnd holds both a Left and a Right value once both have arrived at
// least once; used by combine(latest) and Progression.combineProgress.
type EitherAnd[L, R any] struct {
	Left  L
	Right R
}

// OnBoth invokes fn with both held values.
func (e EitherAnd[L, R]) OnBoth(fn func(L, R)) EitherAnd[L, R] {
	fn(e.Left, e.Right)
	return e
}
