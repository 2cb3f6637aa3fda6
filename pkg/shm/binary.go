package shm

import "encoding/binary"

// hostOrder is the byte order used for every multi-byte value. Segments are
// single-host and single-architecture by assumption, so values are stored in
// native order rather than network order.
var hostOrder = binary.NativeEndian

// ReadUint8 returns the byte at offset.
func (s *Segment) ReadUint8(offset int) (uint8, error) {
	if err := s.readGuard(offset, 1); err != nil {
		return 0, err
	}
	s.countRead(1)
	return s.mem[offset], nil
}

// ReadInt8 returns the byte at offset as a signed value.
func (s *Segment) ReadInt8(offset int) (int8, error) {
	v, err := s.ReadUint8(offset)
	return int8(v), err
}

// ReadUint16 returns the native-order 16-bit value at offset.
func (s *Segment) ReadUint16(offset int) (uint16, error) {
	if err := s.readGuard(offset, 2); err != nil {
		return 0, err
	}
	s.countRead(2)
	return hostOrder.Uint16(s.mem[offset:]), nil
}

// ReadInt16 returns the native-order 16-bit value at offset, signed.
func (s *Segment) ReadInt16(offset int) (int16, error) {
	v, err := s.ReadUint16(offset)
	return int16(v), err
}

// ReadUint32 returns the native-order 32-bit value at offset.
func (s *Segment) ReadUint32(offset int) (uint32, error) {
	if err := s.readGuard(offset, 4); err != nil {
		return 0, err
	}
	s.countRead(4)
	return hostOrder.Uint32(s.mem[offset:]), nil
}

// ReadInt32 returns the native-order 32-bit value at offset, signed.
func (s *Segment) ReadInt32(offset int) (int32, error) {
	v, err := s.ReadUint32(offset)
	return int32(v), err
}

// ReadUint64 returns the native-order 64-bit value at offset.
func (s *Segment) ReadUint64(offset int) (uint64, error) {
	if err := s.readGuard(offset, 8); err != nil {
		return 0, err
	}
	s.countRead(8)
	return hostOrder.Uint64(s.mem[offset:]), nil
}

// ReadInt64 returns the native-order 64-bit value at offset, signed.
func (s *Segment) ReadInt64(offset int) (int64, error) {
	v, err := s.ReadUint64(offset)
	return int64(v), err
}

// WriteUint8 stores v at offset.
func (s *Segment) WriteUint8(offset int, v uint8) error {
	if err := s.writeGuard(offset, 1); err != nil {
		return err
	}
	s.mem[offset] = v
	s.countWrite(1)
	return nil
}

// WriteInt8 stores v at offset.
func (s *Segment) WriteInt8(offset int, v int8) error {
	return s.WriteUint8(offset, uint8(v))
}

// WriteUint16 stores v at offset in native order.
func (s *Segment) WriteUint16(offset int, v uint16) error {
	if err := s.writeGuard(offset, 2); err != nil {
		return err
	}
	hostOrder.PutUint16(s.mem[offset:], v)
	s.countWrite(2)
	return nil
}

// WriteInt16 stores v at offset in native order.
func (s *Segment) WriteInt16(offset int, v int16) error {
	return s.WriteUint16(offset, uint16(v))
}

// WriteUint32 stores v at offset in native order.
func (s *Segment) WriteUint32(offset int, v uint32) error {
	if err := s.writeGuard(offset, 4); err != nil {
		return err
	}
	hostOrder.PutUint32(s.mem[offset:], v)
	s.countWrite(4)
	return nil
}

// WriteInt32 stores v at offset in native order.
func (s *Segment) WriteInt32(offset int, v int32) error {
	return s.WriteUint32(offset, uint32(v))
}

// WriteUint64 stores v at offset in native order.
func (s *Segment) WriteUint64(offset int, v uint64) error {
	if err := s.writeGuard(offset, 8); err != nil {
		return err
	}
	hostOrder.PutUint64(s.mem[offset:], v)
	s.countWrite(8)
	return nil
}

// WriteInt64 stores v at offset in native order.
func (s *Segment) WriteInt64(offset int, v int64) error {
	return s.WriteUint64(offset, uint64(v))
}

// ReadBytes returns a copy of n bytes starting at offset. When n < 0 it
// reads from offset through the end of the segment.
func (s *Segment) ReadBytes(offset, n int) ([]byte, error) {
	if n < 0 {
		if !s.IsOpen() {
			return nil, notReadable(offset, n)
		}
		n = len(s.mem) - offset
	}
	if err := s.readGuard(offset, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s.mem[offset:offset+n])
	s.countRead(n)
	return out, nil
}

// WriteBytes copies p into the segment at offset and returns the number of
// bytes written. A write that would run past the end of the segment fails
// outright; nothing is truncated.
func (s *Segment) WriteBytes(offset int, p []byte) (int, error) {
	if err := s.writeGuard(offset, len(p)); err != nil {
		return 0, err
	}
	copy(s.mem[offset:], p)
	s.countWrite(len(p))
	return len(p), nil
}

// ReadString returns n raw bytes at offset as a string, without any
// interpretation. When n < 0 it reads through the end of the segment.
func (s *Segment) ReadString(offset, n int) (string, error) {
	p, err := s.ReadBytes(offset, n)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// WriteString writes the raw bytes of v at offset and returns the number of
// bytes written.
func (s *Segment) WriteString(offset int, v string) (int, error) {
	return s.WriteBytes(offset, []byte(v))
}
