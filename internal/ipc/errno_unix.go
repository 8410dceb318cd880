//go:build !windows

package ipc

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isErrnoAddrInUse(err error) bool {
	return errors.Is(err, unix.EADDRINUSE)
}

func isErrnoConnRefused(err error) bool {
	return errors.Is(err, unix.ECONNREFUSED)
}

// isTransientAccept reports accept failures that leave the listener usable.
func isTransientAccept(err error) bool {
	return errors.Is(err, unix.EMFILE) ||
		errors.Is(err, unix.ENFILE) ||
		errors.Is(err, unix.ECONNABORTED) ||
		errors.Is(err, unix.EINTR)
}
