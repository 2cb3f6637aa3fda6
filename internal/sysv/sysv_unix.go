//go:build linux || darwin

package sysv

import (
	"golang.org/x/sys/unix"
)

// Supported reports at build time whether System V shared memory exists here.
const Supported = true

// Flags for Get.
const (
	IPCCreate = unix.IPC_CREAT
	IPCExcl   = unix.IPC_EXCL
)

// Get resolves a key to a segment id, allocating the segment when flag
// carries IPCCreate. size is ignored by the kernel when attaching to an
// existing segment with flag 0.
func Get(key, size, flag int) (int, error) {
	return unix.SysvShmGet(key, size, flag)
}

// Attach maps the segment into the process address space. The returned slice
// spans the whole segment.
func Attach(id int, readOnly bool) ([]byte, error) {
	flag := 0
	if readOnly {
		flag = unix.SHM_RDONLY
	}
	return unix.SysvShmAttach(id, 0, flag)
}

// Detach unmaps a slice previously returned by Attach.
func Detach(mem []byte) error {
	return unix.SysvShmDetach(mem)
}

// Remove marks the segment for destruction once the last attacher detaches.
func Remove(id int) error {
	_, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil)
	return err
}

// Stat reports the byte size of the segment as recorded by the kernel.
func Stat(id int) (int, error) {
	var desc unix.SysvShmDesc
	if _, err := unix.SysvShmCtl(id, unix.IPC_STAT, &desc); err != nil {
		return 0, err
	}
	return int(desc.Segsz), nil
}
