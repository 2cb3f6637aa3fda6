package shm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported reports that the host platform has no System V shared
	// memory facility. It is returned eagerly from Create and Open, never
	// deferred to first read or write.
	ErrNotSupported = errors.New("System V shared memory is not supported on this platform")

	// ErrNotReadable reports a read attempted on a closed or deleted segment.
	ErrNotReadable = errors.New("segment is not readable")

	// ErrNotWritable reports a write attempted on a closed, deleted, or
	// read-only segment.
	ErrNotWritable = errors.New("segment is not writable")
)

// CreateError reports a failed segment creation, naming the requested key.
type CreateError struct {
	Key int
	err error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("can't create shared memory segment with key %#010x: %v", e.Key, e.err)
}

func (e *CreateError) Unwrap() error { return e.err }

// OpenError reports a failed attach to an existing segment, naming the key.
type OpenError struct {
	Key int
	err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("can't open shared memory segment with key %#010x: %v", e.Key, e.err)
}

func (e *OpenError) Unwrap() error { return e.err }

type direction uint8

const (
	dirRead direction = iota
	dirWrite
)

func (d direction) String() string {
	if d == dirWrite {
		return "write"
	}
	return "read"
}

// BoundsError reports an offset/length pair that falls outside the segment.
// Dir distinguishes read from write violations so logs disambiguate the
// direction of the offending access.
type BoundsError struct {
	Dir    direction
	Offset int
	Length int
	Size   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("can't %s %d byte(s) at offset %d: outside segment bounds (size %d)",
		e.Dir, e.Length, e.Offset, e.Size)
}

// DecodeError reports a payload that could not be decoded from the segment.
// It quotes the byte range that was examined so offset and length mistakes
// are diagnosable, and is distinct from bounds and readability failures.
type DecodeError struct {
	Encoding string
	Start    int
	End      int
	err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("segment does not contain a %s value in byte(s) %d-%d: %v",
		e.Encoding, e.Start, e.End, e.err)
}

func (e *DecodeError) Unwrap() error { return e.err }

func notReadable(offset, n int) error {
	return fmt.Errorf("can't read %d byte(s) at offset %d: %w", n, offset, ErrNotReadable)
}

func notWritable(offset, n int) error {
	return fmt.Errorf("can't write %d byte(s) at offset %d: %w", n, offset, ErrNotWritable)
}
