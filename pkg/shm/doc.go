// Package shm provides typed, bounds-checked binary access to System V
// shared memory segments.
//
// A Segment wraps one OS-level segment identified by an integer key and
// exposes fixed-width integer, raw byte, C-string, length-prefixed string,
// JSON and gob read/write primitives over it. Every access is validated
// against the segment bounds before it touches memory; nothing is ever
// silently truncated or clamped.
//
// The package is a byte-level accessor, not a synchronization primitive:
// multiple processes may attach the same segment concurrently and callers
// must layer their own coordination (a named semaphore, an advisory file
// lock) around it.
//
// Example usage:
//
//	seg, err := shm.Create(ctx, shm.CreateOptions{Size: 4096})
//	if err != nil {
//	  // ...
//	}
//	defer seg.Delete()
//	if err := seg.WriteInt64(0, counter); err != nil {
//	  // ...
//	}
package shm
