package shm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/cenkalti/backoff/v4"
	"github.com/shirou/gopsutil/v3/mem"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/shmkit/shmkit/internal/sysv"
	"github.com/shmkit/shmkit/pkg/audit"
)

// Mode governs which operations an attached segment permits.
type Mode uint8

const (
	// ReadOnly permits reads only. It is the zero value, so OpenOptions
	// default to a read-only attach.
	ReadOnly Mode = iota
	// ReadWrite permits both reads and writes.
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "read-write"
	}
	return "read-only"
}

// defaultCreateAttempts bounds the random-key retry loop in Create. The
// key space is large enough that hitting the cap in practice means the
// system has a pathological number of live segments.
const defaultCreateAttempts = 64

const segmentPerm = 0o600

// CreateOptions configures Create.
type CreateOptions struct {
	// Size is the byte capacity of the new segment. Required.
	Size int
	// Key is the System V key for the new segment. When zero, Create picks
	// random keys until it finds one with no live segment.
	Key int
	// MaxAttempts caps the random-key retry loop. Zero means
	// defaultCreateAttempts. Ignored when Key is set.
	MaxAttempts int
	// Meter and Tracer optionally instrument the segment. Both may be nil.
	Meter  metric.Meter
	Tracer trace.Tracer
	// Journal optionally records lifecycle events. May be nil.
	Journal *audit.Journal
}

// OpenOptions configures Open.
type OpenOptions struct {
	// Key identifies the existing segment to attach to. Required.
	Key int
	// Mode defaults to ReadOnly.
	Mode Mode
	// Meter and Tracer optionally instrument the segment. Both may be nil.
	Meter  metric.Meter
	Tracer trace.Tracer
	// Journal optionally records lifecycle events. May be nil.
	Journal *audit.Journal
}

// Segment is one process-local attachment to a System V shared memory
// segment. The handle is exclusively owned by the instance; the underlying
// bytes are shared with every other attacher without any locking from this
// layer, so callers needing atomic multi-field updates must coordinate
// externally.
//
// A Segment is not safe for concurrent use by multiple goroutines.
type Segment struct {
	key  int
	id   int
	mem  []byte
	mode Mode

	tracer   trace.Tracer
	journal  *audit.Journal
	readCtr  metric.Int64Counter
	writeCtr metric.Int64Counter
}

// Create allocates a new shared memory segment and attaches it ReadWrite.
//
// With an explicit Key, creation fails with a *CreateError when a live
// segment already uses that key. Without one, Create draws random keys and
// retries on collision, up to MaxAttempts; any other allocation failure
// aborts the loop immediately.
func Create(ctx context.Context, opts CreateOptions) (*Segment, error) {
	if !sysv.Supported {
		return nil, ErrNotSupported
	}
	if opts.Tracer != nil {
		var span trace.Span
		ctx, span = opts.Tracer.Start(ctx, "shm.Create")
		defer span.End()
	}
	if opts.Size <= 0 {
		return nil, &CreateError{Key: opts.Key, err: fmt.Errorf("invalid segment size %d", opts.Size)}
	}
	if err := checkHeadroom(opts.Size); err != nil {
		return nil, &CreateError{Key: opts.Key, err: err}
	}

	key, id := opts.Key, 0
	if key != 0 {
		got, err := sysv.Get(key, opts.Size, sysv.IPCCreate|sysv.IPCExcl|segmentPerm)
		if err != nil {
			return nil, &CreateError{Key: key, err: err}
		}
		id = got
	} else {
		attempts := opts.MaxAttempts
		if attempts <= 0 {
			attempts = defaultCreateAttempts
		}
		draw := func() error {
			key = randomKey()
			got, err := sysv.Get(key, opts.Size, sysv.IPCCreate|sysv.IPCExcl|segmentPerm)
			if err != nil {
				if errors.Is(err, os.ErrExist) {
					// key collision, draw again
					return err
				}
				return backoff.Permanent(err)
			}
			id = got
			return nil
		}
		pol := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(attempts-1)), ctx)
		if err := backoff.Retry(draw, pol); err != nil {
			return nil, &CreateError{Key: key, err: err}
		}
	}

	s, err := attach(key, id, ReadWrite, opts.Meter, opts.Tracer, opts.Journal)
	if err != nil {
		// the segment exists but can't be mapped; don't leak it
		_ = sysv.Remove(id)
		return nil, &CreateError{Key: key, err: err}
	}
	segmentCreates.Inc()
	internalLogger.debugf("created segment key:%#010x id:%d size:%d", key, id, s.Size())
	s.record(audit.OpCreate)
	return s, nil
}

// Open attaches to an existing shared memory segment. It fails with an
// *OpenError naming the key when no live segment uses it.
func Open(ctx context.Context, opts OpenOptions) (*Segment, error) {
	if !sysv.Supported {
		return nil, ErrNotSupported
	}
	if opts.Tracer != nil {
		var span trace.Span
		_, span = opts.Tracer.Start(ctx, "shm.Open")
		defer span.End()
	}
	id, err := sysv.Get(opts.Key, 0, 0)
	if err != nil {
		return nil, &OpenError{Key: opts.Key, err: err}
	}
	s, err := attach(opts.Key, id, opts.Mode, opts.Meter, opts.Tracer, opts.Journal)
	if err != nil {
		return nil, &OpenError{Key: opts.Key, err: err}
	}
	segmentOpens.Inc()
	internalLogger.debugf("opened segment key:%#010x id:%d size:%d mode:%s", opts.Key, id, s.Size(), opts.Mode)
	s.record(audit.OpOpen)
	return s, nil
}

func attach(key, id int, mode Mode, meter metric.Meter, tracer trace.Tracer, journal *audit.Journal) (*Segment, error) {
	m, err := sysv.Attach(id, mode == ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	// The size is queried once here and cached for the lifetime of the
	// handle; it cannot change while the segment exists.
	size, err := sysv.Stat(id)
	if err != nil {
		_ = sysv.Detach(m)
		return nil, fmt.Errorf("stat: %w", err)
	}
	if size != len(m) {
		_ = sysv.Detach(m)
		return nil, fmt.Errorf("stat reports %d bytes but %d were mapped", size, len(m))
	}
	s := &Segment{key: key, id: id, mem: m, mode: mode, tracer: tracer, journal: journal}
	if meter != nil {
		s.readCtr, _ = meter.Int64Counter("shmkit.segment.read_bytes")
		s.writeCtr, _ = meter.Int64Counter("shmkit.segment.written_bytes")
	}
	registerSegment(s)
	return s, nil
}

// Close detaches the segment without destroying the underlying memory;
// other attached processes keep using it. Close is idempotent, and after it
// returns every accessor reports the zero state.
func (s *Segment) Close() error {
	if s.mem == nil {
		return nil
	}
	s.record(audit.OpClose)
	err := s.release()
	if err != nil {
		return fmt.Errorf("close segment: %w", err)
	}
	return nil
}

// Delete marks the underlying segment for destruction (it is reclaimed once
// the last attacher detaches) and then detaches. Idempotent in effect: a
// second Delete is a no-op, and a subsequent Open on the same key fails.
func (s *Segment) Delete() error {
	if s.mem == nil {
		return nil
	}
	s.record(audit.OpDelete)
	rmErr := sysv.Remove(s.id)
	dtErr := s.release()
	if err := errors.Join(rmErr, dtErr); err != nil {
		return fmt.Errorf("delete segment: %w", err)
	}
	return nil
}

// release detaches and zeroes the instance regardless of detach outcome, so
// a failed detach still leaves the segment inert.
func (s *Segment) release() error {
	err := sysv.Detach(s.mem)
	unregisterSegment(s.key)
	internalLogger.debugf("detached segment key:%#010x id:%d", s.key, s.id)
	s.mem = nil
	s.key = 0
	s.id = 0
	return err
}

// Key returns the System V key of the attached segment, or 0 once closed or
// deleted.
func (s *Segment) Key() int { return s.key }

// Size returns the fixed byte capacity of the attached segment, or 0 once
// closed or deleted.
func (s *Segment) Size() int { return len(s.mem) }

// IsOpen reports whether the segment is attached.
func (s *Segment) IsOpen() bool { return s.mem != nil }

// IsReadable reports whether reads are permitted; both modes permit reads,
// so this is true whenever the segment is open.
func (s *Segment) IsReadable() bool { return s.IsOpen() }

// IsWritable reports whether writes are permitted.
func (s *Segment) IsWritable() bool { return s.IsOpen() && s.mode == ReadWrite }

func (s *Segment) record(op audit.Op) {
	if s.journal == nil {
		return
	}
	s.journal.Record(audit.Event{Op: op, Key: s.key, Size: s.Size()})
}

func (s *Segment) countRead(n int) {
	bytesRead.Add(float64(n))
	if s.readCtr != nil {
		s.readCtr.Add(context.Background(), int64(n))
	}
}

func (s *Segment) countWrite(n int) {
	bytesWritten.Add(float64(n))
	if s.writeCtr != nil {
		s.writeCtr.Add(context.Background(), int64(n))
	}
}

// randomKey draws a candidate System V key. Keys are positive and non-zero;
// zero is IPC_PRIVATE and never usable for a shared lookup.
func randomKey() int {
	return int(rand.Int31n(1<<31-2)) + 1
}

// checkHeadroom refuses allocations larger than the memory currently
// available on the host, so an oversized request fails with a clear error
// instead of an opaque kernel one.
func checkHeadroom(size int) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		internalLogger.warnf("can't determine available memory: %v", err)
		return nil
	}
	if uint64(size) > vm.Available {
		return fmt.Errorf("requested %d bytes but only %d are available", size, vm.Available)
	}
	return nil
}
