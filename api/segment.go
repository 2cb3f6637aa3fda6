// Package api defines the public contracts satisfied by shmkit segment
// implementations. Consumers that only introspect or move raw bytes should
// depend on these interfaces rather than on the concrete segment type.
package api

// Lifecycle is the management surface of a shared memory segment. All
// introspection methods report zero values once the segment is closed or
// deleted instead of failing.
type Lifecycle interface {
	// Key returns the System V key the segment was created or opened with,
	// or 0 when the segment is no longer attached.
	Key() int
	// Size returns the fixed byte capacity, or 0 when not attached.
	Size() int
	IsOpen() bool
	IsReadable() bool
	IsWritable() bool
	// Close detaches without destroying the underlying segment.
	Close() error
	// Delete marks the underlying segment for destruction and detaches.
	Delete() error
}

// Reader moves raw bytes out of a segment.
type Reader interface {
	// ReadBytes returns n bytes starting at offset. n < 0 reads through the
	// end of the segment.
	ReadBytes(offset, n int) ([]byte, error)
}

// Writer moves raw bytes into a segment.
type Writer interface {
	// WriteBytes copies p into the segment at offset and returns the number
	// of bytes written. Writes are never truncated.
	WriteBytes(offset int, p []byte) (int, error)
}

// Segment combines the full byte-level surface.
type Segment interface {
	Lifecycle
	Reader
	Writer
}
