package domain

// DomainError marks the closed per-feature error sets (UserError,
// RecipeError, ProductError, StatsError). Nothing outside this package can
// add a new implementation.
type DomainError interface {
	error
	domainError()
}

// Unit is the success payload of operations that produce no value.
type Unit struct{}

// Result holds either a success value or a DomainError, never both.
type Result[T any] struct {
	value T
	err   DomainError
	ok    bool
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

func OkUnit() Result[Unit] {
	return Ok(Unit{})
}

func Err[T any](err DomainError) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) IsSuccess() bool {
	return r.ok
}

func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Value returns the success value. Only meaningful after IsSuccess, prefer
// Fold when both outcomes need handling.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) ErrValue() DomainError {
	return r.err
}

// Fold collapses a Result into a single value, forcing callers to handle
// both outcomes. It is a package function because Go methods cannot carry
// extra type parameters.
func Fold[T, R any](r Result[T], onSuccess func(T) R, onError func(DomainError) R) R {
	if r.ok {
		return onSuccess(r.value)
	}
	return onError(r.err)
}
