// Package adapter bridges shmkit segments to external observability systems.
package adapter

import (
	"fmt"

	"github.com/heptiolabs/healthcheck"

	"github.com/shmkit/shmkit/api"
)

// AttachedCheck returns a healthcheck.Check that passes while the segment is
// attached. Register it on a healthcheck.Handler to surface a detached
// segment as a failed liveness probe.
func AttachedCheck(seg api.Lifecycle) healthcheck.Check {
	return func() error {
		if !seg.IsOpen() {
			return fmt.Errorf("shared memory segment is not attached")
		}
		return nil
	}
}

// WritableCheck returns a healthcheck.Check that passes while the segment
// accepts writes.
func WritableCheck(seg api.Lifecycle) healthcheck.Check {
	return func() error {
		if !seg.IsWritable() {
			return fmt.Errorf("shared memory segment with key %#010x is not writable", seg.Key())
		}
		return nil
	}
}

// RegisterChecks wires liveness checks for a set of segments onto handler,
// one check per segment named by its key.
func RegisterChecks(handler healthcheck.Handler, segs ...api.Lifecycle) {
	for _, seg := range segs {
		name := fmt.Sprintf("shm-segment-%#010x", seg.Key())
		handler.AddLivenessCheck(name, AttachedCheck(seg))
	}
}
