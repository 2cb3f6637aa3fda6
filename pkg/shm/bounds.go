package shm

// checkBounds is the single bounds predicate applied before every read and
// write: a range is valid iff offset >= 0, length >= 0 and offset+length
// does not run past the segment. All offset arithmetic in the package funnels
// through here; no call site duplicates the validation.
func checkBounds(dir direction, offset, length, size int) error {
	if offset < 0 || length < 0 || offset > size || length > size-offset {
		if dir == dirWrite {
			boundsViolations.WithLabelValues("write").Inc()
		} else {
			boundsViolations.WithLabelValues("read").Inc()
		}
		return &BoundsError{Dir: dir, Offset: offset, Length: length, Size: size}
	}
	return nil
}

// readGuard validates a read of n bytes at offset. Openness is checked
// first (a detached segment has no bounds to speak of), then bounds.
func (s *Segment) readGuard(offset, n int) error {
	if !s.IsOpen() {
		return notReadable(offset, n)
	}
	return checkBounds(dirRead, offset, n, len(s.mem))
}

// writeGuard validates a write of n bytes at offset. The order is openness,
// then bounds, then write permission: an out-of-range write to a read-only
// segment reports the bounds violation, not the mode violation.
func (s *Segment) writeGuard(offset, n int) error {
	if !s.IsOpen() {
		return notWritable(offset, n)
	}
	if err := checkBounds(dirWrite, offset, n, len(s.mem)); err != nil {
		return err
	}
	if s.mode != ReadWrite {
		return notWritable(offset, n)
	}
	return nil
}
