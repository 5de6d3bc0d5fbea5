package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches every transport-side failure, including fetch goroutines that died abnormally.
	ErrNetwork = errors.New("engine: network error")
	// ErrIO matches sink seek, write and flush failures.
	ErrIO = errors.New("engine: sink i/o error")
	// ErrInvalidTask is returned before any request is made.
	ErrInvalidTask = errors.New("engine: invalid task")
)

// NetworkError is a failed ranged fetch. StatusCode is zero when the transport itself failed.
// Callers may retry the whole download; chunks are never retried internally.
type NetworkError struct {
	Range      ByteRange
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code %d", e.Range, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Range, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// IOError is a sink failure. It is fatal to the download that hit it.
type IOError struct {
	Op     string // seek, write or flush
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("sink %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// TaskJoinError reports a fetch goroutine that terminated by panicking instead of returning.
// It propagates like a NetworkError.
type TaskJoinError struct {
	Range ByteRange
	Value any
}

func (e *TaskJoinError) Error() string {
	return fmt.Sprintf("fetch task for %s terminated abnormally: %v", e.Range, e.Value)
}

func (e *TaskJoinError) Is(target error) bool { return target == ErrNetwork }
