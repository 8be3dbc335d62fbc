// Package outcome carries the three-way result every store and cache lookup
// in this codebase produces: the backend was unreachable, the key/row does
// not exist, or a value was found. Callers branch on all three.
package outcome

type State int

const (
	// StateUnavailable means the backend could not be reached or the query
	// failed; retrying later may succeed.
	StateUnavailable State = iota
	// StateNotFound means the backend answered and the key/row is absent.
	StateNotFound
	// StateFound means a value was produced.
	StateFound
)

func (s State) String() string {
	switch s {
	case StateUnavailable:
		return "unavailable"
	case StateNotFound:
		return "not_found"
	case StateFound:
		return "found"
	default:
		return "unknown"
	}
}

type Outcome[T any] struct {
	state State
	value T
}

func Found[T any](v T) Outcome[T] {
	return Outcome[T]{state: StateFound, value: v}
}

func NotFound[T any]() Outcome[T] {
	return Outcome[T]{state: StateNotFound}
}

func Unavailable[T any]() Outcome[T] {
	return Outcome[T]{state: StateUnavailable}
}

func (o Outcome[T]) State() State { return o.state }

func (o Outcome[T]) IsFound() bool { return o.state == StateFound }

func (o Outcome[T]) IsNotFound() bool { return o.state == StateNotFound }

func (o Outcome[T]) IsUnavailable() bool { return o.state == StateUnavailable }

// Value returns the found value; ok is false unless the state is Found.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.state == StateFound
}

// MustValue is for call sites that already checked IsFound.
func (o Outcome[T]) MustValue() T {
	if o.state != StateFound {
		panic("outcome: MustValue on " + o.state.String())
	}
	return o.value
}
