package shm

import "bytes"

// ReadCString scans forward from offset for a NUL terminator and returns the
// bytes before it as a string. A missing terminator anywhere before the end
// of the segment is reported as a read bounds violation, not as the
// remainder of the segment: the terminator the caller asked for lies outside
// the addressable range.
func (s *Segment) ReadCString(offset int) (string, error) {
	if err := s.readGuard(offset, 0); err != nil {
		return "", err
	}
	i := bytes.IndexByte(s.mem[offset:], 0)
	if i < 0 {
		boundsViolations.WithLabelValues("read").Inc()
		return "", &BoundsError{Dir: dirRead, Offset: offset, Length: len(s.mem) - offset + 1, Size: len(s.mem)}
	}
	s.countRead(i + 1)
	return string(s.mem[offset : offset+i]), nil
}

// WriteCString writes v at offset followed by a single NUL terminator and
// returns the number of bytes written including the terminator. The write
// fails when value plus terminator would overflow the segment.
func (s *Segment) WriteCString(offset int, v string) (int, error) {
	n := len(v) + 1
	if err := s.writeGuard(offset, n); err != nil {
		return 0, err
	}
	copy(s.mem[offset:], v)
	s.mem[offset+len(v)] = 0
	s.countWrite(n)
	return n, nil
}

// pstringPrefixSize is the width of the native-order length prefix used by
// ReadPString and WritePString.
const pstringPrefixSize = 4

// ReadPString reads a length-prefixed string at offset: a native-order
// uint32 byte count followed by that many raw bytes.
func (s *Segment) ReadPString(offset int) (string, error) {
	n, err := s.ReadUint32(offset)
	if err != nil {
		return "", err
	}
	return s.ReadString(offset+pstringPrefixSize, int(n))
}

// WritePString writes v at offset as a native-order uint32 byte count
// followed by the raw bytes, and returns the total bytes written.
func (s *Segment) WritePString(offset int, v string) (int, error) {
	n := pstringPrefixSize + len(v)
	if err := s.writeGuard(offset, n); err != nil {
		return 0, err
	}
	hostOrder.PutUint32(s.mem[offset:], uint32(len(v)))
	copy(s.mem[offset+pstringPrefixSize:], v)
	s.countWrite(n)
	return n, nil
}
