package shm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/shmkit/shmkit/internal/sysv"
	"github.com/shmkit/shmkit/pkg/audit"
)

const testSegmentSize = 4096

// SegmentTestSuite is the testify suite for segment lifecycle tests.
type SegmentTestSuite struct {
	suite.Suite
	seg *Segment
}

func (s *SegmentTestSuite) SetupTest() {
	if !sysv.Supported {
		s.T().Skip("System V shared memory is unavailable on this platform")
	}
	var err error
	s.seg, err = Create(context.Background(), CreateOptions{Size: testSegmentSize})
	s.Require().NoError(err)
}

func (s *SegmentTestSuite) TearDownTest() {
	if s.seg != nil {
		_ = s.seg.Delete()
	}
}

func (s *SegmentTestSuite) TestIntrospectionWhileOpen() {
	s.NotZero(s.seg.Key())
	s.Equal(testSegmentSize, s.seg.Size())
	s.True(s.seg.IsOpen())
	s.True(s.seg.IsReadable())
	s.True(s.seg.IsWritable())
}

func (s *SegmentTestSuite) TestCloseZeroesIntrospection() {
	key := s.seg.Key()
	s.Require().NoError(s.seg.Close())
	s.Equal(0, s.seg.Key())
	s.Equal(0, s.seg.Size())
	s.False(s.seg.IsOpen())
	s.False(s.seg.IsReadable())
	s.False(s.seg.IsWritable())

	// idempotent
	s.Require().NoError(s.seg.Close())

	_, err := s.seg.ReadUint8(0)
	s.ErrorIs(err, ErrNotReadable)
	err = s.seg.WriteUint8(0, 1)
	s.ErrorIs(err, ErrNotWritable)

	// reclaim the detached segment
	reopened, err := Open(context.Background(), OpenOptions{Key: key})
	s.Require().NoError(err)
	s.Require().NoError(reopened.Delete())
}

func (s *SegmentTestSuite) TestDeletePreventsReopen() {
	key := s.seg.Key()
	s.Require().NoError(s.seg.Delete())
	s.Equal(0, s.seg.Key())
	s.False(s.seg.IsOpen())

	// idempotent in effect
	s.Require().NoError(s.seg.Delete())

	_, err := Open(context.Background(), OpenOptions{Key: key})
	var openErr *OpenError
	s.Require().ErrorAs(err, &openErr)
	s.Equal(key, openErr.Key)
}

func (s *SegmentTestSuite) TestCreateWithLiveKeyFails() {
	_, err := Create(context.Background(), CreateOptions{Size: testSegmentSize, Key: s.seg.Key()})
	var createErr *CreateError
	s.Require().ErrorAs(err, &createErr)
	s.Equal(s.seg.Key(), createErr.Key)
}

func (s *SegmentTestSuite) TestRandomKeysNeverCollide() {
	const n = 8
	seen := map[int]bool{s.seg.Key(): true}
	for i := 0; i < n; i++ {
		seg, err := Create(context.Background(), CreateOptions{Size: 128})
		s.Require().NoError(err)
		s.False(seen[seg.Key()], "key %#010x issued twice", seg.Key())
		seen[seg.Key()] = true
		s.Require().NoError(seg.Delete())
	}
}

func (s *SegmentTestSuite) TestOpenReadOnlyRejectsWrites() {
	_, err := s.seg.WriteString(0, "payload")
	s.Require().NoError(err)

	ro, err := Open(context.Background(), OpenOptions{Key: s.seg.Key()})
	s.Require().NoError(err)
	defer func() { _ = ro.Close() }()

	s.True(ro.IsReadable())
	s.False(ro.IsWritable())

	got, err := ro.ReadString(0, 7)
	s.Require().NoError(err)
	s.Equal("payload", got)

	_, err = ro.WriteString(0, "nope")
	s.ErrorIs(err, ErrNotWritable)
}

func (s *SegmentTestSuite) TestOpenReadWrite() {
	rw, err := Open(context.Background(), OpenOptions{Key: s.seg.Key(), Mode: ReadWrite})
	s.Require().NoError(err)
	defer func() { _ = rw.Close() }()

	_, err = rw.WriteString(10, "hello")
	s.Require().NoError(err)

	// the write is visible through the original attachment
	got, err := s.seg.ReadString(10, 5)
	s.Require().NoError(err)
	s.Equal("hello", got)
}

func (s *SegmentTestSuite) TestCloseKeepsSegmentAlive() {
	key := s.seg.Key()
	_, err := s.seg.WriteString(0, "survivor")
	s.Require().NoError(err)
	s.Require().NoError(s.seg.Close())

	reopened, err := Open(context.Background(), OpenOptions{Key: key, Mode: ReadWrite})
	s.Require().NoError(err)
	s.seg = reopened // TearDownTest deletes it

	got, err := reopened.ReadString(0, 8)
	s.Require().NoError(err)
	s.Equal("survivor", got)
}

func (s *SegmentTestSuite) TestRegistryTracksAttachment() {
	s.Contains(AttachedKeys(), s.seg.Key())
	key := s.seg.Key()
	s.Require().NoError(s.seg.Delete())
	s.NotContains(AttachedKeys(), key)
}

func (s *SegmentTestSuite) TestJournalRecordsLifecycle() {
	journal := audit.NewJournal(16)
	defer journal.Close()

	seg, err := Create(context.Background(), CreateOptions{Size: 256, Journal: journal})
	s.Require().NoError(err)
	key := seg.Key()
	s.Require().NoError(seg.Delete())

	events := journal.Drain()
	s.Require().Len(events, 2)
	s.Equal(audit.OpCreate, events[0].Op)
	s.Equal(key, events[0].Key)
	s.Equal(256, events[0].Size)
	s.Equal(audit.OpDelete, events[1].Op)
}

func (s *SegmentTestSuite) TestInvalidSizeFails() {
	_, err := Create(context.Background(), CreateOptions{Size: 0})
	var createErr *CreateError
	s.ErrorAs(err, &createErr)

	_, err = Create(context.Background(), CreateOptions{Size: -1})
	s.ErrorAs(err, &createErr)
}

func TestSegmentTestSuite(t *testing.T) {
	suite.Run(t, new(SegmentTestSuite))
}

func TestOpenMissingKey(t *testing.T) {
	if !sysv.Supported {
		t.Skip("System V shared memory is unavailable on this platform")
	}
	// create and delete to obtain a key with no live segment
	seg, err := Create(context.Background(), CreateOptions{Size: 64})
	if err != nil {
		t.Fatal(err)
	}
	key := seg.Key()
	if err := seg.Delete(); err != nil {
		t.Fatal(err)
	}

	_, err = Open(context.Background(), OpenOptions{Key: key})
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *OpenError, got %v", err)
	}
	if openErr.Key != key {
		t.Errorf("expected key %#010x in error, got %#010x", key, openErr.Key)
	}
}
