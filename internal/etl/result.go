package etl

// Status is the outcome of a stage.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the discriminated outcome of a stage: a value, a reported no-op,
// or a typed failure. Downstream stages switch on Status instead of checking
// for a nil value.
type Result[T any] struct {
	Status Status
	Value  T
	Reason string      // set when skipped
	Err    *StageError // set when failed
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] { return Result[T]{Status: StatusOK, Value: v} }

// Skipped reports a no-op with its reason.
func Skipped[T any](reason string) Result[T] {
	return Result[T]{Status: StatusSkipped, Reason: reason}
}

// Failed wraps a stage failure.
func Failed[T any](err *StageError) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// Ok reports whether the stage produced a value.
func (r Result[T]) Ok() bool { return r.Status == StatusOK }

// Get returns the value and whether it is valid.
func (r Result[T]) Get() (T, bool) { return r.Value, r.Status == StatusOK }
