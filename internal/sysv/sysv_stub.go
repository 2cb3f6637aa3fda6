//go:build !linux && !darwin

package sysv

// Supported reports at build time whether System V shared memory exists here.
const Supported = false

const (
	IPCCreate = 0
	IPCExcl   = 0
)

func Get(key, size, flag int) (int, error) { return 0, ErrUnavailable }

func Attach(id int, readOnly bool) ([]byte, error) { return nil, ErrUnavailable }

func Detach(mem []byte) error { return ErrUnavailable }

func Remove(id int) error { return ErrUnavailable }

func Stat(id int) (int, error) { return 0, ErrUnavailable }
