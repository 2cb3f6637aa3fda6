// Package sysv wraps the System V shared memory syscalls (shmget, shmat,
// shmdt, shmctl) behind a small portable surface.
//
// The real implementation lives in the build-tagged files; on platforms
// without System V IPC every call fails with ErrUnavailable.
package sysv

import "errors"

// ErrUnavailable reports that the host platform has no System V shared
// memory facility.
var ErrUnavailable = errors.New("System V shared memory is unavailable on this platform")
