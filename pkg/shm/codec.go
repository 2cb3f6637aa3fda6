package shm

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/valyala/bytebufferpool"
)

// ReadJSON decodes length bytes at offset as JSON into v. The length is
// required; there is no implicit scanning for the end of the document.
// Malformed or truncated content yields a *DecodeError quoting the byte
// range, distinct from bounds and readability failures.
func (s *Segment) ReadJSON(offset, length int, v any) error {
	if err := s.readGuard(offset, length); err != nil {
		return err
	}
	if err := json.Unmarshal(s.mem[offset:offset+length], v); err != nil {
		return &DecodeError{Encoding: "JSON", Start: offset, End: offset + length - 1, err: err}
	}
	s.countRead(length)
	return nil
}

// WriteJSON serializes v as JSON, writes the text at offset and returns the
// number of bytes written.
func (s *Segment) WriteJSON(offset int, v any) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	enc := json.NewEncoder(buf)
	if err := enc.Encode(v); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	// Encoder terminates the document with a newline that is not part of
	// the value.
	p := bytes.TrimSuffix(buf.B, []byte{'\n'})
	return s.WriteBytes(offset, p)
}

// ReadGob decodes length bytes at offset as a gob-encoded value into v.
// When length < 0 it reads from offset through the end of the segment. A
// payload the decoder cannot finish within the range, truncated ones
// included, yields a *DecodeError quoting the byte range.
func (s *Segment) ReadGob(offset, length int, v any) error {
	if length < 0 {
		if !s.IsOpen() {
			return notReadable(offset, length)
		}
		length = len(s.mem) - offset
	}
	if err := s.readGuard(offset, length); err != nil {
		return err
	}
	dec := gob.NewDecoder(bytes.NewReader(s.mem[offset : offset+length]))
	if err := dec.Decode(v); err != nil {
		return &DecodeError{Encoding: "gob-encoded", Start: offset, End: offset + length - 1, err: err}
	}
	s.countRead(length)
	return nil
}

// WriteGob serializes v with encoding/gob, writes the payload at offset and
// returns the number of bytes written.
func (s *Segment) WriteGob(offset int, v any) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return 0, fmt.Errorf("encode gob: %w", err)
	}
	return s.WriteBytes(offset, buf.B)
}
