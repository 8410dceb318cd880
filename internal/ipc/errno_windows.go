//go:build windows

package ipc

import (
	"errors"

	"golang.org/x/sys/windows"
)

func isErrnoAddrInUse(err error) bool {
	return errors.Is(err, windows.WSAEADDRINUSE)
}

func isErrnoConnRefused(err error) bool {
	return errors.Is(err, windows.WSAECONNREFUSED)
}

func isTransientAccept(err error) bool {
	return errors.Is(err, windows.WSAECONNRESET)
}
